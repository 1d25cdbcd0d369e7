package payment

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Channel moves native value in and out of the ledger's own account.
type Channel interface {
	// Balance is the ledger's spendable balance.
	Balance(ctx context.Context) (uint64, error)
	Pay(ctx context.Context, to common.Address, amount uint64) error
	Receive(ctx context.Context, from common.Address, amount uint64) error
}
