package custody

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type Repository interface {
	// IsHeld is false for pairs that were never collateralized.
	IsHeld(ctx context.Context, collection common.Address, assetID uint64) (bool, error)
	// Set inserts or overwrites the entry for (e.Collection, e.AssetID).
	Set(ctx context.Context, e *Entry) error
}
