package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/config"
)

// Redis stores each collection under <prefix><collection>.
type Redis struct {
	Client *redis.Client
	prefix string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))

	return &Redis{Client: client, prefix: cfg.KeyPrefix}, nil
}

func (r *Redis) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := r.Client.Get(ctx, r.prefix+collection).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (r *Redis) Save(ctx context.Context, collection string, data []byte) error {
	return r.Client.Set(ctx, r.prefix+collection, data, 0).Err()
}

const writerLeaseTTL = 30 * time.Second

var (
	renewLease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
	releaseLease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)
)

// ClaimWriter sets <prefix>writer to a random token with a short TTL and
// keeps renewing it until released. A crashed writer's lease lapses on its own.
func (r *Redis) ClaimWriter(ctx context.Context) (func(), error) {
	key := r.prefix + "writer"
	token := uuid.NewString()
	ok, err := r.Client.SetNX(ctx, key, token, writerLeaseTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWriterClaimed
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(writerLeaseTTL / 3)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = renewLease.Run(context.Background(), r.Client, []string{key}, token, writerLeaseTTL.Milliseconds()).Err()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = releaseLease.Run(context.Background(), r.Client, []string{key}, token).Err()
		})
	}, nil
}

// Close closes the client.
func (r *Redis) Close() error {
	if r != nil && r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
