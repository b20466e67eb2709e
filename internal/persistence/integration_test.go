package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/config"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))

	_, err = pg.Pool.Exec(ctx, `DELETE FROM record_collections WHERE name IN ($1, $2)`,
		CollectionDepartments, CollectionFeedback)
	require.NoError(t, err)

	exerciseStore(t, pg)
	exerciseWriterClaim(t, pg, func() WriterClaimer {
		other, err := NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(func() { other.Close() })
		return other
	}())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	store, err := NewRedis(context.Background(), config.RedisConfig{
		Addr:      addr,
		KeyPrefix: "feedback-portal-test:" + uuid.NewString() + ":",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)
	exerciseWriterClaim(t, store, store)
}

func exerciseWriterClaim(t *testing.T, first, second WriterClaimer) {
	t.Helper()
	ctx := context.Background()
	release, err := first.ClaimWriter(ctx)
	require.NoError(t, err)

	_, err = second.ClaimWriter(ctx)
	require.ErrorIs(t, err, ErrWriterClaimed)

	release()
	release()
	again, err := second.ClaimWriter(ctx)
	require.NoError(t, err)
	again()
}
