package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"KidLearn/internal/app/server"
	"KidLearn/internal/config"
	"KidLearn/internal/delivery/http"
	"KidLearn/internal/models"
	"KidLearn/internal/service"
	"KidLearn/internal/service/auth"
	"KidLearn/internal/service/content"
	"KidLearn/internal/service/enrollment"
	"KidLearn/internal/service/progress"
	"KidLearn/internal/storage"
	"KidLearn/internal/storage/elastic"
	"KidLearn/internal/storage/inmem"
	"KidLearn/internal/storage/minio_storage"
	"KidLearn/internal/storage/postgres"
	"KidLearn/internal/storage/redis_cache"
	"KidLearn/pkg/logger"
)

const startupTimeout = 30 * time.Second

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: "+cfg.Env, "storage", cfg.Storage.Driver)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	tx, ping, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.FatalErr("error opening storage", err)
	}
	defer closeStore()

	// Optional adapters stay untyped nil when disabled so the content
	// service sees a nil interface.
	var (
		cache  content.TreeCache
		search content.SearchIndex
		media  content.MediaStore
	)
	if cfg.Redis.Enabled {
		client, err := redis_cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.FatalErr("error connecting to redis", err)
		}
		defer client.Close()
		cache = redis_cache.NewTreeCache(client, cfg.Redis.TreeTTL)
	}
	if cfg.ES.Enabled {
		client, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
		if err != nil {
			log.FatalErr("error connecting to elasticsearch", err)
		}
		repo := elastic.NewCourseSearchRepository(client, cfg.ES.Index)
		if err := repo.CreateIndexIfNotExist(ctx); err != nil {
			log.FatalErr("error preparing search index", err)
		}
		search = repo
	}
	if cfg.Minio.Enabled {
		store, err := minio_storage.NewMinioStorage(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.MediaBucket)
		if err != nil {
			log.FatalErr("error connecting to minio", err)
		}
		hosts := append([]string{cfg.Minio.Endpoint}, cfg.Minio.PublicHosts...)
		media = minio_storage.NewMediaStorage(store, cfg.Minio.MediaBucket, hosts...)
	}

	u := service.Collection{
		Auth:       auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL),
		Content:    content.NewService(log, tx, cache, search, media),
		Enrollment: enrollment.NewService(log, tx),
		Progress:   progress.NewTracker(log, tx),
	}

	r := http.InitRoutes(log, u, http.RouterOptions{
		CORSOrigins: cfg.HTTPServer.CORSOrigins,
		Ping:        ping,
	})

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("error shutting down http server", err)
	}
}

// openStore returns the transaction runner for the configured driver, a
// health check for it and a cleanup func.
func openStore(ctx context.Context, cfg *config.Config, log logger.Log) (storage.TxRunner, func(context.Context) error, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		db := inmem.New()
		for _, c := range cfg.Storage.Children {
			db.AddChild(models.Child{ID: c.ID, ParentID: c.ParentID, DisplayName: c.DisplayName})
		}
		log.Warn("using in-memory storage, data is lost on restart", "children", len(cfg.Storage.Children))
		return db, nil, func() {}, nil

	case config.DriverPostgres:
		pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if !cfg.Postgres.SkipMigrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		return pg, pg.Pool.Ping, pg.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
