package loan

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	// GetByLoanID returns ErrLoanNotFound when no record carries the id.
	GetByLoanID(ctx context.Context, loanID uint64) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	ListByBorrower(ctx context.Context, borrower common.Address) ([]Loan, error)
}
