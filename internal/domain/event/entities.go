package event

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Name string

const (
	LoanCreated Name = "LoanCreated"
	LoanRepaid  Name = "LoanRepaid"
	NFTClaimed  Name = "NFTClaimed"
)

// Event is a committed ledger notification. Actor is the borrower for
// LoanCreated/LoanRepaid and the administrator for NFTClaimed; Amount is only
// set for LoanCreated.
type Event struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	EventID   string         `gorm:"column:event_id;size:32;not null;uniqueIndex:ux_events_event_id" json:"event_id"`
	Name      Name           `gorm:"column:name;size:32;not null" json:"name"`
	Actor     common.Address `gorm:"column:actor;type:varbinary(20);not null" json:"actor"`
	LoanID    uint64         `gorm:"column:loan_id;not null;index:idx_events_loan_id" json:"loan_id"`
	AssetID   uint64         `gorm:"column:asset_id;not null" json:"asset_id"`
	Amount    uint64         `gorm:"column:amount;not null" json:"amount,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "events" }
