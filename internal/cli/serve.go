package cli

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "collateral-ledger/internal/adapter/http"
	mw "collateral-ledger/internal/adapter/middleware"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "port to serve on (defaults to APP_PORT)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := wire(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		if _, err := d.uc.Summary(cmd.Context()); err != nil {
			logger.For(nil).WithError(err).Warn("ledger state not readable; run bootstrap before serving writes")
		}

		e := echo.New()
		e.HideBanner = true
		e.Validator = httpadp.NewValidator()
		e.Use(middleware.Logger(), middleware.Recover())

		httpadp.RegisterRoutes(e,
			httpadp.NewHandler(d.checks()...),
			httpadp.NewLedgerHandler(d.uc),
			httpadp.NewAdminHandler(d.uc),
			mw.IdempotencyMiddleware(d.rdb, cfg.IdempotencyTTL()),
			mw.SerializeMiddleware(d.rdb, mw.DefaultSerializeKey, cfg.SerializeTTL(), cfg.SerializeWait()),
		)

		addr := ":" + cfg.AppPort
		if port != "" {
			addr = ":" + port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.For(nil).WithFields(logrus.Fields{"addr": addr, "ledger": cfg.LedgerIdentity().Hex()}).Info("listening")
			if err := e.Start(addr); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				logger.For(nil).WithError(err).Error("server stopped")
				stop()
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}
