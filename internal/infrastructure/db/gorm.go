package db

import (
	"context"
	"time"

	"collateral-ledger/internal/infrastructure/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(mysql.Open(dsn))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	return db, nil
}

// OpenSQLite opens a single-connection database; ":memory:" only survives on one connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(sqlite.Open(path))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// newGormLogger routes gorm's warnings through logrus. A missing row is an
// expected answer here (first loan of a wallet, unknown loan id), not an error.
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(logger.For(context.Background()).WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               newGormLogger(),
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	logger.For(context.Background()).WithField("dialect", dial.Name()).Info("gorm: connected")
	return db, nil
}
