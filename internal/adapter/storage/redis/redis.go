// Package redis holds the Redis-backed stores of the ledger service: the
// audit stream, batch idempotency and rate limiting.
package redis

import (
	"context"
	"fmt"
	"time"

	"transaction-ledger/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const clientName = "transaction-ledger"

// NewClient connects to Redis and fails fast when it is unreachable.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		ClientName:  clientName,
		DialTimeout: 5 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("redis connected")
	return client, nil
}

// HealthCheck pings Redis and makes sure the audit stream key, when present,
// still holds a stream. Any other type would make every XADD fail.
type HealthCheck struct {
	client    goredis.Cmdable
	streamKey string
}

func NewHealthCheck(client goredis.Cmdable, streamKey string) *HealthCheck {
	return &HealthCheck{client: client, streamKey: streamKey}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.client.Ping(ctx).Err(); err != nil {
		return err
	}
	if h.streamKey == "" {
		return nil
	}
	kind, err := h.client.Type(ctx, h.streamKey).Result()
	if err != nil {
		return fmt.Errorf("checking audit stream: %w", err)
	}
	if kind != "none" && kind != "stream" {
		return fmt.Errorf("audit stream key %q holds a %s", h.streamKey, kind)
	}
	return nil
}

func (h *HealthCheck) Name() string { return "redis" }
