package mysql

import (
	"collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/uow"
	"context"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:   &LoanRepository{db: db},
		Custody: &CustodyRepository{db: db},
		Wallets: &WalletRepository{db: db},
		Ledger:  &LedgerRepository{db: db},
		Events:  &EventRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinLedgerTx(ctx context.Context, fn func(r uow.Repos, s *ledger.State) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the ledger row up-front so every transition is serialized on it
		s, err := r.Ledger.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}
