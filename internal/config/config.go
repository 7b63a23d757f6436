package config

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Postgres   Postgres   `yaml:"postgres"`
	JWT        JWT        `yaml:"jwt"`
	ES         ES         `yaml:"elasticsearch"`
	Minio      Minio      `yaml:"minio"`
	Redis      Redis      `yaml:"redis"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	// Children seeds child accounts into the memory driver.
	Children []Child `yaml:"children"`
}

type Child struct {
	ID          uuid.UUID `yaml:"id"`
	ParentID    uuid.UUID `yaml:"parent_id"`
	DisplayName string    `yaml:"display_name"`
}

type Minio struct {
	Enabled     bool     `yaml:"enabled" env:"MINIO_ENABLED"`
	Endpoint    string   `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"minio:9000"`
	AccessKey   string   `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey   string   `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL      bool     `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	MediaBucket string   `yaml:"media_bucket" env-default:"media"`
	PublicHosts []string `yaml:"public_hosts"`
}

type ES struct {
	Enabled  bool     `yaml:"enabled" env:"ES_ENABLED"`
	Hosts    []string `yaml:"hosts" env:"ES_HOSTS" env-separator:","`
	Index    string   `yaml:"index" env-default:"courses"`
	Password string   `yaml:"password" env:"ES_PASSWORD"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	TreeTTL  time.Duration `yaml:"tree_ttl" env-default:"10m"`
}

type JWT struct {
	SecretKey string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer    string        `yaml:"issuer" env-default:"kidlearn"`
	AccessTTL time.Duration `yaml:"access_token_ttl" env-default:"15m"`
}

type Postgres struct {
	Host        string `yaml:"host" env:"POSTGRES_HOST"`
	Port        string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User        string `yaml:"user" env:"POSTGRES_USER"`
	Password    string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName      string `yaml:"dbname" env:"POSTGRES_DB"`
	SkipMigrate bool   `yaml:"skip_migrate"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8081"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// CORSOrigins empty allows every origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

func MustLoad() *Config {
	// a missing .env is fine, the real environment wins anyway
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Can not read config file %s", err)
	}
	return cfg
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
