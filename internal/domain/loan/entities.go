package loan

import (
	"math"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type State string

const (
	StateActive  State = "active"
	StateRepaid  State = "repaid"
	StateClaimed State = "claimed"
)

// Loan is one entry of the append-only loan registry. Rows are never deleted.
type Loan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID         uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Borrower       common.Address `gorm:"column:borrower;type:varbinary(20);not null;index:idx_loans_borrower" json:"borrower"`
	Collection     common.Address `gorm:"column:collection;type:varbinary(20);not null;index:idx_loans_asset,priority:1" json:"collection"`
	AssetID        uint64         `gorm:"column:asset_id;not null;index:idx_loans_asset,priority:2" json:"asset_id"`
	Principal      uint64         `gorm:"column:principal;not null" json:"principal"`
	LoanStart      int64          `gorm:"column:loan_start;not null" json:"loan_start"`
	Active         bool           `gorm:"column:active;not null" json:"active"`
	State          State          `gorm:"column:state;size:16;not null" json:"state"`
	StateUpdatedAt time.Time      `gorm:"column:state_updated_at" json:"state_updated_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Deadline is the last unix second at which the borrower may still repay.
// It saturates at math.MaxInt64 instead of wrapping.
func (l *Loan) Deadline(window int64) int64 {
	if window > 0 && l.LoanStart > math.MaxInt64-window {
		return math.MaxInt64
	}
	return l.LoanStart + window
}

// Expired reports whether now lies strictly after the repayment window.
func (l *Loan) Expired(now, window int64) bool { return now > l.Deadline(window) }
