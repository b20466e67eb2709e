package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/config"
)

// Collection names.
const (
	CollectionDepartments = "departments"
	CollectionFeedback    = "feedbacks"
)

// DocumentStore persists each collection as one whole JSON document.
// Load returns nil bytes when the collection has never been saved.
type DocumentStore interface {
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrWriterClaimed means another server process already writes to the store.
var ErrWriterClaimed = errors.New("record store is claimed by another writer")

// WriterClaimer is implemented by stores that several hosts can reach.
// Collections serialize read-modify-write cycles within one process only, so
// a server claims the store before it accepts writes.
type WriterClaimer interface {
	ClaimWriter(ctx context.Context) (release func(), err error)
}

// ClaimWriter claims exclusive write access to a shared store. Stores that
// are local to the host need no claim and get a no-op release.
func ClaimWriter(ctx context.Context, store DocumentStore) (func(), error) {
	claimer, ok := store.(WriterClaimer)
	if !ok {
		return func() {}, nil
	}
	return claimer.ClaimWriter(ctx)
}

// Open builds the document store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (DocumentStore, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.Dir, logger)
	case config.StoreDriverMemory:
		logger.Warn("using in-memory record store; data is lost on restart")
		return NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case config.StoreDriverSQLite:
		return NewSQLite(ctx, cfg.SQLite, logger)
	case config.StoreDriverRedis:
		return NewRedis(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
