package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"collateral-ledger/internal/domain/asset"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// maxRetries bounds optimistic retries when a watched key changes under us.
const maxRetries = 8

var _ asset.Registry = (*Registry)(nil)

// Registry keeps asset ownership in redis:
//
//	registry:<collection>:<id>:owner     owner address
//	registry:<collection>:<id>:approved  single approved operator
//	registry:<collection>:operators:<owner>  set of operators approved for all
//
// operator is the identity MoveCustody acts as.
type Registry struct {
	rdb      *redis.Client
	operator common.Address
}

func New(rdb *redis.Client, operator common.Address) *Registry {
	return &Registry{rdb: rdb, operator: operator}
}

func ownerKey(collection common.Address, id uint64) string {
	return "registry:" + strings.ToLower(collection.Hex()) + ":" + strconv.FormatUint(id, 10) + ":owner"
}

func approvedKey(collection common.Address, id uint64) string {
	return "registry:" + strings.ToLower(collection.Hex()) + ":" + strconv.FormatUint(id, 10) + ":approved"
}

func operatorsKey(collection, owner common.Address) string {
	return "registry:" + strings.ToLower(collection.Hex()) + ":operators:" + strings.ToLower(owner.Hex())
}

// Mint assigns a fresh asset to owner. Minting an existing id fails.
func (r *Registry) Mint(ctx context.Context, collection common.Address, id uint64, owner common.Address) error {
	ok, err := r.rdb.SetNX(ctx, ownerKey(collection, id), owner.Hex(), 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("registry: asset %d already minted", id)
	}
	return nil
}

// Approve lets operator move a single asset. Only the current owner may approve.
func (r *Registry) Approve(ctx context.Context, collection common.Address, id uint64, owner, operator common.Address) error {
	cur, err := r.OwnerOf(ctx, collection, id)
	if err != nil {
		return err
	}
	if cur != owner {
		return asset.ErrNotCurrentOwner
	}
	return r.rdb.Set(ctx, approvedKey(collection, id), operator.Hex(), 0).Err()
}

// SetApprovalForAll lets operator move every asset owner holds in collection.
func (r *Registry) SetApprovalForAll(ctx context.Context, collection, owner, operator common.Address, approved bool) error {
	key := operatorsKey(collection, owner)
	if approved {
		return r.rdb.SAdd(ctx, key, operator.Hex()).Err()
	}
	return r.rdb.SRem(ctx, key, operator.Hex()).Err()
}

func (r *Registry) OwnerOf(ctx context.Context, collection common.Address, id uint64) (common.Address, error) {
	return readOwner(ctx, r.rdb, collection, id)
}

func (r *Registry) IsApprovedForTransfer(ctx context.Context, collection common.Address, id uint64, operator common.Address) (bool, error) {
	owner, err := r.OwnerOf(ctx, collection, id)
	if err != nil {
		return false, err
	}
	return approved(ctx, r.rdb, collection, id, owner, operator)
}

// MoveCustody transfers the asset from -> to as the registry's operator. The
// single-asset approval is cleared on every move.
func (r *Registry) MoveCustody(ctx context.Context, collection common.Address, id uint64, from, to common.Address) error {
	keys := []string{ownerKey(collection, id), approvedKey(collection, id), operatorsKey(collection, from)}
	txf := func(tx *redis.Tx) error {
		owner, err := readOwner(ctx, tx, collection, id)
		if err != nil {
			return err
		}
		if owner != from {
			return asset.ErrNotCurrentOwner
		}
		if from != r.operator {
			ok, err := approved(ctx, tx, collection, id, from, r.operator)
			if err != nil {
				return err
			}
			if !ok {
				return asset.ErrTransferNotApproved
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keys[0], to.Hex(), 0)
			pipe.Del(ctx, keys[1])
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		logger.For(ctx).WithField("attempt", i+1).Debug("registry: move raced, retrying")
	}
	return fmt.Errorf("registry: move of asset %d: %w", id, redis.TxFailedErr)
}

func readOwner(ctx context.Context, c redis.Cmdable, collection common.Address, id uint64) (common.Address, error) {
	v, err := c.Get(ctx, ownerKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		return common.Address{}, asset.ErrUnknownAsset
	}
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(v), nil
}

func approved(ctx context.Context, c redis.Cmdable, collection common.Address, id uint64, owner, operator common.Address) (bool, error) {
	v, err := c.Get(ctx, approvedKey(collection, id)).Result()
	switch {
	case err == nil && common.HexToAddress(v) == operator:
		return true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		return false, err
	}
	return c.SIsMember(ctx, operatorsKey(collection, owner), operator.Hex()).Result()
}
