package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type Repository interface {
	Count(ctx context.Context, w common.Address) (uint64, error)
	// Increment bumps the counter and returns the new value.
	Increment(ctx context.Context, w common.Address) (uint64, error)
}
