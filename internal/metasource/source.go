// Package metasource provides the entity metadata sources a build falls back
// on for entities its request did not describe.
package metasource

import (
	"context"
	"fmt"
	"io"

	"github.com/dbsmedya/crmchart/internal/config"
	"github.com/dbsmedya/crmchart/internal/database"
	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
)

// StatusUnavailable is reported when a source could not be queried.
const StatusUnavailable = "unavailable"

// SourceError reports a lookup that failed for a reason other than the
// entity being absent.
type SourceError struct {
	Source     string
	EntityName string
	Err        error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s lookup of entity %q failed: %v", e.Source, e.EntityName, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Status reports the failure status carried into metadata resolution errors.
func (e *SourceError) Status() string {
	return StatusUnavailable
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// New opens the source selected by cfg. The returned closer releases its
// connection and must be called once the source is no longer used.
func New(ctx context.Context, cfg *config.MetadataSourceConfig, log *logger.Logger) (metadata.Source, io.Closer, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("metadata source config is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}

	switch cfg.Type {
	case config.SourceNone, "":
		return NewStaticSource(nil), closerFunc(func() error { return nil }), nil

	case config.SourceMySQL:
		manager, err := database.NewManager(&cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		if err := manager.Connect(ctx); err != nil {
			return nil, nil, err
		}
		src, err := NewSQLSource(manager.DB, cfg.MySQL.Table, log)
		if err != nil {
			manager.Close()
			return nil, nil, err
		}
		log.Infow("Metadata source connected",
			"type", cfg.Type,
			"host", cfg.MySQL.Host,
			"database", cfg.MySQL.Database,
			"table", cfg.MySQL.Table,
		)
		return src, manager, nil

	case config.SourceRedis:
		client, err := NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("Metadata source connected", "type", cfg.Type, "addr", cfg.Redis.Addr)
		return NewRedisSource(client, cfg.Redis.KeyPrefix, log), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown metadata source type %q", cfg.Type)
	}
}
