package loanmock

import (
	domain "collateral-ledger/internal/domain/loan"
	"context"

	"github.com/ethereum/go-ethereum/common"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups report ErrLoanNotFound; unset writes are no-ops.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	ListByBorrowerFn       func(ctx context.Context, borrower common.Address) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrLoanNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrLoanNotFound
}

func (m *Repo) ListByBorrower(ctx context.Context, borrower common.Address) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrower)
	}
	return nil, nil
}
