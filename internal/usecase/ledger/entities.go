package ledger

import (
	"time"

	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"

	"github.com/ethereum/go-ethereum/common"
)

type CreateLoanInput struct {
	Caller     common.Address
	Collection common.Address
	AssetID    uint64
	Principal  uint64
}

type RepayLoanInput struct {
	Caller common.Address
	LoanID uint64
	// Value is what the caller sends; anything above the repayment amount stays with the ledger.
	Value uint64
}

type LoanDTO struct {
	LoanID     uint64         `json:"loan_id"`
	Borrower   common.Address `json:"borrower"`
	Collection common.Address `json:"collection"`
	AssetID    uint64         `json:"asset_id"`
	Principal  uint64         `json:"principal"`
	LoanStart  int64          `json:"loan_start"`
	Deadline   int64          `json:"deadline"`
	Active     bool           `json:"active"`
	State      string         `json:"state"`
	CreatedAt  time.Time      `json:"created_at"`
}

type LedgerDTO struct {
	Administrator common.Address `json:"administrator"`
	Paused        bool           `json:"paused"`
	TotalLoans    uint64         `json:"total_loans"`
	Balance       uint64         `json:"balance"`
	domainLedger.Params
}

func toLoanDTO(l *loan.Loan, window int64) *LoanDTO {
	return &LoanDTO{
		LoanID:     l.LoanID,
		Borrower:   l.Borrower,
		Collection: l.Collection,
		AssetID:    l.AssetID,
		Principal:  l.Principal,
		LoanStart:  l.LoanStart,
		Deadline:   l.Deadline(window),
		Active:     l.Active,
		State:      string(l.State),
		CreatedAt:  l.CreatedAt,
	}
}
