package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"collateral-ledger/internal/infrastructure/logger"

	"github.com/bsm/redislock"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// DefaultSerializeKey is the lock shared by every replica of the service.
const DefaultSerializeKey = "ledger:serialize"

const lockRetryStep = 25 * time.Millisecond

// SerializeMiddleware runs mutating requests one at a time across every
// process sharing rdb. A request that cannot get the lock within wait gets 503.
// ttl bounds how long a crashed holder can block others.
func SerializeMiddleware(rdb *redis.Client, key string, ttl, wait time.Duration) echo.MiddlewareFunc {
	locker := redislock.New(rdb)
	retries := int(wait / lockRetryStep)
	if retries < 1 {
		retries = 1
	}
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryStep), retries),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			ctx := c.Request().Context()
			lock, err := locker.Obtain(ctx, key, ttl, opts)
			if errors.Is(err, redislock.ErrNotObtained) {
				return reject(c, http.StatusServiceUnavailable, "ledger busy, retry later")
			}
			if err != nil {
				logger.For(ctx).WithError(err).Warn("serialize: lock store unavailable")
				return reject(c, http.StatusServiceUnavailable, "lock store unavailable")
			}
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
					logger.For(ctx).WithError(err).Warn("serialize: release failed")
				}
			}()
			return next(c)
		}
	}
}
