package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	domainLedger "collateral-ledger/internal/domain/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	DBDriver   string
	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs        int
	SerializeLockTTL    int
	SerializeWaitMillis int
	EventsChannel       string

	LedgerAddress string
	LedgerAdmin   string

	FeeRateBps              uint64
	RepaymentWindowSecs     int64
	MaxLoanRatioBps         uint64
	MaxLoansPerWallet       uint64
	ReferencePrice          uint64
	EnforceUniqueCollateral bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "ledger")
	v.SetDefault("MYSQL_USER", "ledger")
	v.SetDefault("MYSQL_PASS", "ledger")
	v.SetDefault("SQLITE_PATH", "ledger.db")

	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)
	v.SetDefault("SERIALIZE_LOCK_TTL_SECONDS", 30)
	v.SetDefault("SERIALIZE_WAIT_MILLIS", 2000)
	v.SetDefault("EVENTS_CHANNEL", "ledger:events")

	v.SetDefault("LEDGER_ADDRESS", "")
	v.SetDefault("LEDGER_ADMIN", "")
	v.SetDefault("LEDGER_FEE_RATE_BPS", 500)
	v.SetDefault("LEDGER_REPAYMENT_WINDOW_SECONDS", 30*24*60*60)
	v.SetDefault("LEDGER_MAX_LOAN_RATIO_BPS", 5000)
	v.SetDefault("LEDGER_MAX_LOANS_PER_WALLET", 2)
	v.SetDefault("LEDGER_REFERENCE_PRICE", domainLedger.DefaultReferencePrice)
	v.SetDefault("LEDGER_ENFORCE_UNIQUE_COLLATERAL", false)
}

// Load resolves configuration from the environment, falling back to defaults.
func Load() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:   v.GetString("APP_ENV"),
		AppPort:  v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		MySQLHost:  v.GetString("MYSQL_HOST"),
		MySQLPort:  v.GetString("MYSQL_PORT"),
		MySQLDB:    v.GetString("MYSQL_DB"),
		MySQLUser:  v.GetString("MYSQL_USER"),
		MySQLPass:  v.GetString("MYSQL_PASS"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),

		IdempTTLSecs:        v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		SerializeLockTTL:    v.GetInt("SERIALIZE_LOCK_TTL_SECONDS"),
		SerializeWaitMillis: v.GetInt("SERIALIZE_WAIT_MILLIS"),
		EventsChannel:       v.GetString("EVENTS_CHANNEL"),

		LedgerAddress: v.GetString("LEDGER_ADDRESS"),
		LedgerAdmin:   v.GetString("LEDGER_ADMIN"),

		FeeRateBps:              v.GetUint64("LEDGER_FEE_RATE_BPS"),
		RepaymentWindowSecs:     v.GetInt64("LEDGER_REPAYMENT_WINDOW_SECONDS"),
		MaxLoanRatioBps:         v.GetUint64("LEDGER_MAX_LOAN_RATIO_BPS"),
		MaxLoansPerWallet:       v.GetUint64("LEDGER_MAX_LOANS_PER_WALLET"),
		ReferencePrice:          v.GetUint64("LEDGER_REFERENCE_PRICE"),
		EnforceUniqueCollateral: v.GetBool("LEDGER_ENFORCE_UNIQUE_COLLATERAL"),
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if !common.IsHexAddress(c.LedgerAddress) {
		return fmt.Errorf("invalid LEDGER_ADDRESS %q", c.LedgerAddress)
	}
	if c.SerializeLockTTL <= 0 {
		return errors.New("SERIALIZE_LOCK_TTL_SECONDS must be positive")
	}
	return c.LedgerParams().Validate()
}

// ValidateBootstrap additionally requires the initial administrator.
func (c *Config) ValidateBootstrap() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !common.IsHexAddress(c.LedgerAdmin) || common.HexToAddress(c.LedgerAdmin) == (common.Address{}) {
		return fmt.Errorf("invalid LEDGER_ADMIN %q", c.LedgerAdmin)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) LedgerParams() domainLedger.Params {
	return domainLedger.Params{
		FeeRateBps:              c.FeeRateBps,
		RepaymentWindow:         c.RepaymentWindowSecs,
		MaxLoanRatioBps:         c.MaxLoanRatioBps,
		MaxLoansPerWallet:       c.MaxLoansPerWallet,
		ReferencePrice:          c.ReferencePrice,
		EnforceUniqueCollateral: c.EnforceUniqueCollateral,
	}
}

func (c *Config) LedgerIdentity() common.Address { return common.HexToAddress(c.LedgerAddress) }

func (c *Config) AdminIdentity() common.Address { return common.HexToAddress(c.LedgerAdmin) }

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) SerializeTTL() time.Duration {
	return time.Duration(c.SerializeLockTTL) * time.Second
}

func (c *Config) SerializeWait() time.Duration {
	return time.Duration(c.SerializeWaitMillis) * time.Millisecond
}
