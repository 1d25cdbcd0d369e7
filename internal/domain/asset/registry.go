package asset

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnknownAsset        = errors.New("asset does not exist")
	ErrNotCurrentOwner     = errors.New("from is not the current owner")
	ErrTransferNotApproved = errors.New("transfer not approved")
)

// Registry is the external ownership registry for collateral assets.
type Registry interface {
	OwnerOf(ctx context.Context, collection common.Address, id uint64) (common.Address, error)
	IsApprovedForTransfer(ctx context.Context, collection common.Address, id uint64, operator common.Address) (bool, error)
	// MoveCustody fails with ErrNotCurrentOwner or ErrTransferNotApproved.
	MoveCustody(ctx context.Context, collection common.Address, id uint64, from, to common.Address) error
}
