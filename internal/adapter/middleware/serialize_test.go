package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func setupSerialized(rdb *redis.Client, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(SerializeMiddleware(rdb, DefaultSerializeKey, 5*time.Second, 50*time.Millisecond))
	e.POST("/loans", handler)
	e.GET("/loans", handler)
	return e
}

func Test_Serialize_HoldsLockDuringHandler(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var heldInside bool
	e := setupSerialized(rdb, func(c echo.Context) error {
		heldInside = mr.Exists(DefaultSerializeKey)
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	rec := doReq(t, e, http.MethodPost, "/loans", nil, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", rec.Code)
	}
	if !heldInside {
		t.Fatalf("lock was not held while the handler ran")
	}
	if mr.Exists(DefaultSerializeKey) {
		t.Fatalf("lock not released after the handler")
	}
}

func Test_Serialize_BusyReturns503(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupSerialized(rdb, okCreatedHandler)

	other, err := redislock.New(rdb).Obtain(context.Background(), DefaultSerializeKey, time.Minute, nil)
	if err != nil {
		t.Fatalf("obtain: %v", err)
	}
	defer other.Release(context.Background())

	rec := doReq(t, e, http.MethodPost, "/loans", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 while another holder has the lock, got %d", rec.Code)
	}

	// reads never wait for the lock
	rec = doReq(t, e, http.MethodGet, "/loans", nil, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("GET should bypass the lock, got %d", rec.Code)
	}
}

func Test_Serialize_StoreUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupSerialized(rdb, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/loans", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
}
