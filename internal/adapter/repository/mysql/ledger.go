package mysql

import (
	"context"
	"errors"

	ledgerDomain "collateral-ledger/internal/domain/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Get(ctx context.Context) (*ledgerDomain.State, error) {
	return r.first(r.db.WithContext(ctx))
}

func (r *LedgerRepository) GetForUpdate(ctx context.Context) (*ledgerDomain.State, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *LedgerRepository) Create(ctx context.Context, s *ledgerDomain.State) error {
	s.ID = ledgerDomain.StateID
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *LedgerRepository) Save(ctx context.Context, s *ledgerDomain.State) error {
	s.ID = ledgerDomain.StateID
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *LedgerRepository) first(q *gorm.DB) (*ledgerDomain.State, error) {
	var out ledgerDomain.State
	err := q.Where("id = ?", ledgerDomain.StateID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledgerDomain.ErrNotBootstrapped
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
