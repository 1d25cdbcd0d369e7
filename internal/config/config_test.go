package config

import (
	"errors"
	"math"
	"strings"
	"testing"

	domainLedger "collateral-ledger/internal/domain/ledger"
)

const ledgerHex = "0x00000000000000000000000000000000000001ed"

func TestLoad_Defaults(t *testing.T) {
	c := Load()

	if c.AppPort != "8080" || c.DBDriver != DriverMySQL {
		t.Fatalf("unexpected defaults: port=%q driver=%q", c.AppPort, c.DBDriver)
	}
	p := c.LedgerParams()
	want := domainLedger.Params{
		FeeRateBps:        500,
		RepaymentWindow:   2_592_000,
		MaxLoanRatioBps:   5000,
		MaxLoansPerWallet: 2,
		ReferencePrice:    domainLedger.DefaultReferencePrice,
	}
	if p != want {
		t.Fatalf("params = %+v, want %+v", p, want)
	}
	if c.IdempotencyTTL().Seconds() != 300 {
		t.Fatalf("idempotency ttl = %v", c.IdempotencyTTL())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/l.db")
	t.Setenv("LEDGER_ADDRESS", ledgerHex)
	t.Setenv("LEDGER_FEE_RATE_BPS", "250")
	t.Setenv("LEDGER_ENFORCE_UNIQUE_COLLATERAL", "true")
	t.Setenv("REDIS_DB", "3")

	c := Load()
	if c.DBDriver != DriverSQLite || c.SQLitePath != "/tmp/l.db" {
		t.Fatalf("db config not read: %+v", c)
	}
	if c.FeeRateBps != 250 || !c.EnforceUniqueCollateral || c.RedisDB != 3 {
		t.Fatalf("ledger config not read: %+v", c)
	}
	if got := strings.ToLower(c.LedgerIdentity().Hex()); got != ledgerHex {
		t.Fatalf("ledger identity = %s", got)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := Load()
		c.LedgerAddress = ledgerHex
		return c
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}

	cases := map[string]func(c *Config){
		"missing mysql host": func(c *Config) { c.MySQLHost = "" },
		"bad mysql port":     func(c *Config) { c.MySQLPort = "not-a-port" },
		"unknown driver":     func(c *Config) { c.DBDriver = "postgres" },
		"bad ledger address": func(c *Config) { c.LedgerAddress = "0x1234" },
		"zero lock ttl":      func(c *Config) { c.SerializeLockTTL = 0 },
		"fee above 100%":     func(c *Config) { c.FeeRateBps = 10_001 },
		"zero window":        func(c *Config) { c.RepaymentWindowSecs = 0 },
		"huge window":        func(c *Config) { c.RepaymentWindowSecs = math.MaxInt64 },
	}
	for name, mutate := range cases {
		c := base()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	c := base()
	c.RepaymentWindowSecs = -1
	if err := c.Validate(); !errors.Is(err, domainLedger.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}

func TestValidateBootstrap_RequiresAdmin(t *testing.T) {
	c := Load()
	c.LedgerAddress = ledgerHex
	if err := c.ValidateBootstrap(); err == nil {
		t.Fatalf("expected missing admin error")
	}
	c.LedgerAdmin = "0x" + strings.Repeat("0", 40)
	if err := c.ValidateBootstrap(); err == nil {
		t.Fatalf("expected zero admin error")
	}
	c.LedgerAdmin = "0x00000000000000000000000000000000000000a1"
	if err := c.ValidateBootstrap(); err != nil {
		t.Fatalf("ValidateBootstrap: %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "ledger"}
	want := "u:p@tcp(db:3306)/ledger?"
	if got := c.MySQLDSN(); !strings.HasPrefix(got, want) || !strings.Contains(got, "parseTime=true") {
		t.Fatalf("dsn = %q", got)
	}
}
