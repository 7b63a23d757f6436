package redis_cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"KidLearn/internal/models"
	custom_json "KidLearn/pkg/custom_serializer/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const treeKeyPrefix = "course_tree:"

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// TreeCache stores published course trees as JSON with a fixed TTL.
type TreeCache struct {
	client redis.Cmdable
	ttl    time.Duration
	json   *custom_json.JSONSerializer
}

func NewTreeCache(client redis.Cmdable, ttl time.Duration) *TreeCache {
	return &TreeCache{client: client, ttl: ttl, json: custom_json.New()}
}

func treeKey(courseID uuid.UUID) string {
	return treeKeyPrefix + courseID.String()
}

// Tree returns nil without an error on a miss.
func (c *TreeCache) Tree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error) {
	data, err := c.client.Get(ctx, treeKey(courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course tree: %w", err)
	}
	var tree models.CourseTree
	if err := c.json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode course tree: %w", err)
	}
	return &tree, nil
}

func (c *TreeCache) SetTree(ctx context.Context, tree *models.CourseTree) error {
	data, err := c.json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode course tree: %w", err)
	}
	return c.client.Set(ctx, treeKey(tree.Course.ID), data, c.ttl).Err()
}

func (c *TreeCache) Invalidate(ctx context.Context, courseID uuid.UUID) error {
	return c.client.Del(ctx, treeKey(courseID)).Err()
}
