package chainfake

import (
	"context"
	"sync"

	"collateral-ledger/internal/domain/asset"

	"github.com/ethereum/go-ethereum/common"
)

var _ asset.Registry = (*Registry)(nil)

type tokenKey struct {
	collection common.Address
	id         uint64
}

// Registry is an in-memory asset.Registry. Operator is the identity that calls
// MoveCustody (the ledger). BeforeMove runs outside the lock before every move;
// a non-nil return aborts the move.
type Registry struct {
	Operator   common.Address
	BeforeMove func(ctx context.Context, collection common.Address, id uint64, from, to common.Address) error

	mu        sync.Mutex
	owners    map[tokenKey]common.Address
	approvals map[tokenKey]common.Address
	moves     int
}

func NewRegistry(operator common.Address) *Registry {
	return &Registry{
		Operator:  operator,
		owners:    map[tokenKey]common.Address{},
		approvals: map[tokenKey]common.Address{},
	}
}

func (r *Registry) Mint(collection common.Address, id uint64, owner common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[tokenKey{collection, id}] = owner
}

func (r *Registry) Approve(collection common.Address, id uint64, operator common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approvals[tokenKey{collection, id}] = operator
}

// Moves counts successful MoveCustody calls.
func (r *Registry) Moves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moves
}

func (r *Registry) OwnerOf(_ context.Context, collection common.Address, id uint64) (common.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[tokenKey{collection, id}]
	if !ok {
		return common.Address{}, asset.ErrUnknownAsset
	}
	return owner, nil
}

func (r *Registry) IsApprovedForTransfer(_ context.Context, collection common.Address, id uint64, operator common.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := tokenKey{collection, id}
	if _, ok := r.owners[k]; !ok {
		return false, asset.ErrUnknownAsset
	}
	return r.approvals[k] == operator, nil
}

func (r *Registry) MoveCustody(ctx context.Context, collection common.Address, id uint64, from, to common.Address) error {
	if r.BeforeMove != nil {
		if err := r.BeforeMove(ctx, collection, id, from, to); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := tokenKey{collection, id}
	owner, ok := r.owners[k]
	if !ok {
		return asset.ErrUnknownAsset
	}
	if owner != from {
		return asset.ErrNotCurrentOwner
	}
	if r.Operator != from && r.approvals[k] != r.Operator {
		return asset.ErrTransferNotApproved
	}
	r.owners[k] = to
	delete(r.approvals, k)
	r.moves++
	return nil
}
