package mysql

import (
	"context"
	"errors"

	custodyDomain "collateral-ledger/internal/domain/custody"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustodyRepository struct{ db *gorm.DB }

func NewCustodyRepository(db *gorm.DB) *CustodyRepository { return &CustodyRepository{db: db} }

func (r *CustodyRepository) IsHeld(ctx context.Context, collection common.Address, assetID uint64) (bool, error) {
	var out custodyDomain.Entry
	err := r.db.WithContext(ctx).
		Where("collection = ? AND asset_id = ?", collection, assetID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Held, nil
}

func (r *CustodyRepository) Set(ctx context.Context, e *custodyDomain.Entry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"held", "loan_id", "updated_at"}),
		}).
		Create(e).Error
}
