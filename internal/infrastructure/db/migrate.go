package db

import (
	"collateral-ledger/internal/domain/custody"
	"collateral-ledger/internal/domain/event"
	"collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/wallet"

	"gorm.io/gorm"
)

// Migrate creates or updates every ledger table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ledger.State{},
		&loan.Loan{},
		&custody.Entry{},
		&wallet.Counter{},
		&event.Event{},
	)
}
