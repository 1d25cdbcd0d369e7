package mysql

import (
	"context"
	"errors"

	walletDomain "collateral-ledger/internal/domain/wallet"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) Count(ctx context.Context, w common.Address) (uint64, error) {
	var out walletDomain.Counter
	err := r.db.WithContext(ctx).Where("wallet = ?", w).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return out.LoanCount, nil
}

// Increment reads then upserts; callers run it inside the ledger transaction.
func (r *WalletRepository) Increment(ctx context.Context, w common.Address) (uint64, error) {
	n, err := r.Count(ctx, w)
	if err != nil {
		return 0, err
	}
	c := &walletDomain.Counter{Wallet: w, LoanCount: n + 1}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wallet"}},
			DoUpdates: clause.AssignmentColumns([]string{"loan_count", "updated_at"}),
		}).
		Create(c).Error
	if err != nil {
		return 0, err
	}
	return c.LoanCount, nil
}
