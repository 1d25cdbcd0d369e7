package cache

import (
	"context"
	"time"

	"collateral-ledger/internal/infrastructure/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// OpenRedis connects to the store backing the registry, payment channel,
// idempotency keys and the serialization lock.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	logger.For(ctx).WithFields(logrus.Fields{"addr": addr, "db": db}).Info("redis: connected")
	return r, nil
}
