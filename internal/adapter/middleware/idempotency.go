package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"collateral-ledger/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// How long we hold the "in-progress" marker before the handler must finish.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute

	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"
	HeaderCaller    = "Ax-Caller"
)

// ---- Data types ----
type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodyHash    string    `json:"body_hash"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

func reject(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// IdempotencyMiddleware replays the stored response of a mutating request
// retried with the same Ax-Request-Id. The key is method + route + caller + request id.
// Ax-Request-At must be epoch (seconds or ms) or RFC3339/RFC3339Nano with a timezone.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return reject(c, http.StatusBadRequest, "missing "+HeaderRequestID)
			}
			if !validReqID(reqID) {
				return reject(c, http.StatusBadRequest, "invalid "+HeaderRequestID+" format")
			}

			reqAt, err := parseAxRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return reject(c, http.StatusBadRequest, err.Error())
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return reject(c, http.StatusBadRequest, HeaderRequestAt+" too skewed")
			}

			caller := strings.TrimSpace(req.Header.Get(HeaderCaller))
			if caller == "" {
				return reject(c, http.StatusBadRequest, "missing "+HeaderCaller)
			}
			if !common.IsHexAddress(caller) {
				return reject(c, http.StatusBadRequest, "invalid "+HeaderCaller)
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(method, c.Path(), callerKey(caller), reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			log := logger.For(req.Context()).WithFields(logrus.Fields{"idempotency_key": key})

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodyHash:    bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			})
			if err != nil {
				log.WithError(err).Warn("idempotency: store unavailable")
				return reject(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !ok {
				cur, errLoad := loadEntry(ctx, rdb, key)
				if errLoad != nil {
					log.WithError(errLoad).Warn("idempotency: failed to load entry")
				}
				if cur.BodyHash != "" && cur.BodyHash != bhash {
					return reject(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					log.Debug("idempotency: replaying stored response")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return reject(c, http.StatusConflict, "request is already in progress")
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			err = saveFinal(context.WithoutCancel(req.Context()), rdb, key, idempEntry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodyHash:    bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl)
			if err != nil {
				log.WithError(err).Warn("idempotency: failed to store final response")
			}
			return nil
		}
	}
}
