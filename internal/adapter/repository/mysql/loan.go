package mysql

import (
	"context"
	"errors"

	loanDomain "collateral-ledger/internal/domain/loan"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	return r.first(r.db.WithContext(ctx), loanID)
}

// GetByLoanIDForUpdate locks the row; sqlite ignores the locking clause.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), loanID)
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrower common.Address) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower = ?", borrower).
		Order("loan_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) first(q *gorm.DB, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	err := q.Where("loan_id = ?", loanID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
