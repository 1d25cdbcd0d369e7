package http

import (
	"context"
	"net/http"
	"time"

	"collateral-ledger/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
)

// Check is one dependency probed by Health.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct{ checks []Check }

func NewHandler(checks ...Check) *Handler { return &Handler{checks: checks} }

// Health answers 200 when every check passes and 503 otherwise.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			logger.For(ctx).WithError(err).WithField("check", chk.Name).Warn("health: check failed")
			results[chk.Name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[chk.Name] = "ok"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	return c.JSON(code, body)
}
