package cli

import (
	"context"
	"fmt"

	httpadp "collateral-ledger/internal/adapter/http"
	"collateral-ledger/internal/adapter/notify"
	"collateral-ledger/internal/adapter/payment"
	"collateral-ledger/internal/adapter/registry"
	"collateral-ledger/internal/adapter/repository/mysql"
	"collateral-ledger/internal/config"
	"collateral-ledger/internal/infrastructure/cache"
	"collateral-ledger/internal/infrastructure/db"
	"collateral-ledger/internal/usecase/ledger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type deps struct {
	db  *gorm.DB
	rdb *redis.Client
	uc  *ledger.Usecase
}

func openDB(c *config.Config) (*gorm.DB, error) {
	switch c.DBDriver {
	case config.DriverSQLite:
		return db.OpenSQLite(c.SQLitePath)
	default:
		return db.OpenGorm(c.MySQLDSN())
	}
}

// wire opens storage and builds the usecase over the redis-backed adapters.
func wire(c *config.Config) (*deps, error) {
	gdb, err := openDB(c)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	rdb, err := cache.OpenRedis(c.RedisAddr, c.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("open redis: %w", err)
	}
	self := c.LedgerIdentity()
	uc := ledger.NewUsecase(
		mysql.NewRepos(gdb),
		mysql.NewGormUoW(gdb),
		registry.New(rdb, self),
		payment.New(rdb, self),
		notify.NewPublisher(rdb, c.EventsChannel),
		self,
	)
	return &deps{db: gdb, rdb: rdb, uc: uc}, nil
}

func (d *deps) checks() []httpadp.Check {
	return []httpadp.Check{
		{Name: "db", Ping: func(ctx context.Context) error {
			sqlDB, err := d.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		{Name: "redis", Ping: func(ctx context.Context) error { return d.rdb.Ping(ctx).Err() }},
	}
}

func (d *deps) Close() {
	_ = d.rdb.Close()
	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
