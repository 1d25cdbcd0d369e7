package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultReferencePrice values every collateral asset until an oracle prices them.
const DefaultReferencePrice uint64 = 1_000_000_000_000_000_000

// MaxRepaymentWindow bounds the window so loanStart+window stays far from int64 overflow.
const MaxRepaymentWindow int64 = 100 * 365 * 24 * 60 * 60

// StateID is the primary key of the single ledger state row.
const StateID uint64 = 1

var (
	ErrNotBootstrapped = errors.New("ledger state not bootstrapped")
	ErrInvalidParams   = errors.New("invalid ledger params")
)

// Params are fixed when the ledger is bootstrapped and never change afterwards.
type Params struct {
	FeeRateBps        uint64 `gorm:"column:fee_rate_bps;not null" json:"fee_rate_bps"`
	RepaymentWindow   int64  `gorm:"column:repayment_window;not null" json:"repayment_window_seconds"`
	MaxLoanRatioBps   uint64 `gorm:"column:max_loan_ratio_bps;not null" json:"max_loan_ratio_bps"`
	MaxLoansPerWallet uint64 `gorm:"column:max_loans_per_wallet;not null" json:"max_loans_per_wallet"`
	ReferencePrice    uint64 `gorm:"column:reference_price;not null" json:"reference_price"`
	// EnforceUniqueCollateral turns on the check that rejects a loan against an
	// asset the custody set already marks as held. Off by default: with it off a
	// re-approved asset can back two loans at once.
	EnforceUniqueCollateral bool `gorm:"column:enforce_unique_collateral;not null" json:"enforce_unique_collateral"`
}

func (p Params) Validate() error {
	switch {
	case p.FeeRateBps > 10_000:
		return fmt.Errorf("%w: fee rate %d bps above 10000", ErrInvalidParams, p.FeeRateBps)
	case p.MaxLoanRatioBps > 10_000:
		return fmt.Errorf("%w: loan ratio %d bps above 10000", ErrInvalidParams, p.MaxLoanRatioBps)
	case p.RepaymentWindow <= 0:
		return fmt.Errorf("%w: repayment window must be positive", ErrInvalidParams)
	case p.RepaymentWindow > MaxRepaymentWindow:
		return fmt.Errorf("%w: repayment window %ds above %ds", ErrInvalidParams, p.RepaymentWindow, MaxRepaymentWindow)
	}
	return nil
}

// State is the singleton row holding the administrator, the pause switch and
// the loan counter, which is also the next loan id to allocate.
type State struct {
	ID            uint64         `gorm:"primaryKey;column:id;autoIncrement:false" json:"-"`
	Administrator common.Address `gorm:"column:administrator;type:varbinary(20);not null" json:"administrator"`
	Paused        bool           `gorm:"column:paused;not null" json:"paused"`
	TotalLoans    uint64         `gorm:"column:total_loans;not null" json:"total_loans"`
	Params        `gorm:"embedded"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (State) TableName() string { return "ledger_state" }
