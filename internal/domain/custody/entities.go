package custody

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Entry marks whether (Collection, AssetID) is currently held as collateral.
// LoanID names the loan that last changed the flag.
type Entry struct {
	Collection common.Address `gorm:"primaryKey;column:collection;type:varbinary(20)" json:"collection"`
	AssetID    uint64         `gorm:"primaryKey;column:asset_id;autoIncrement:false" json:"asset_id"`
	Held       bool           `gorm:"column:held;not null" json:"held"`
	LoanID     uint64         `gorm:"column:loan_id;not null" json:"loan_id"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Entry) TableName() string { return "custody" }
