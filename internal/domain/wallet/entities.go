package wallet

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Counter is the lifetime number of loans a wallet has opened. It never goes down.
type Counter struct {
	Wallet    common.Address `gorm:"primaryKey;column:wallet;type:varbinary(20)" json:"wallet"`
	LoanCount uint64         `gorm:"column:loan_count;not null" json:"loan_count"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Counter) TableName() string { return "wallet_counters" }
