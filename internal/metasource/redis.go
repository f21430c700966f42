package metasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbsmedya/crmchart/internal/config"
	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisSource reads serialized entity metadata rows stored under
// prefix + logical name.
type RedisSource struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// NewRedisSource creates a source over an existing client.
func NewRedisSource(client *redis.Client, prefix string, log *logger.Logger) *RedisSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisSource{client: client, prefix: prefix, logger: log}
}

// Key returns the key the entity's row is stored under.
func (s *RedisSource) Key(logicalName string) string {
	return s.prefix + logicalName
}

// FetchEntityMetadata implements metadata.Source.
func (s *RedisSource) FetchEntityMetadata(ctx context.Context, logicalName string) (*metadata.EntityMetadata, error) {
	log := s.logger.WithEntity(logicalName)
	value, err := s.client.Get(ctx, s.Key(logicalName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Debugw("Entity metadata not cached")
			return nil, &metadata.NotFoundError{LogicalName: logicalName}
		}
		return nil, &SourceError{Source: "redis", EntityName: logicalName, Err: err}
	}

	md, err := metadata.ParseEntityRow(value)
	if err != nil {
		return nil, &SourceError{Source: "redis", EntityName: logicalName, Err: err}
	}
	log.Debugw("Entity metadata loaded from cache")
	return md, nil
}

// Put stores md so later lookups find it. A zero ttl keeps it forever.
func (s *RedisSource) Put(ctx context.Context, md *metadata.EntityMetadata, ttl time.Duration) error {
	data, err := json.Marshal(md.Row())
	if err != nil {
		return fmt.Errorf("failed to encode entity metadata: %w", err)
	}
	return s.client.Set(ctx, s.Key(md.LogicalName), data, ttl).Err()
}
