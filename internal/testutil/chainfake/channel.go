package chainfake

import (
	"context"
	"sync"

	"collateral-ledger/internal/domain/payment"

	"github.com/ethereum/go-ethereum/common"
)

var _ payment.Channel = (*Channel)(nil)

// Channel is an in-memory payment.Channel holding balances per identity.
// BeforePay and BeforeReceive run outside the lock; a non-nil return aborts
// the transfer.
type Channel struct {
	Self          common.Address
	BeforePay     func(ctx context.Context, to common.Address, amount uint64) error
	BeforeReceive func(ctx context.Context, from common.Address, amount uint64) error

	mu       sync.Mutex
	balances map[common.Address]uint64
}

func NewChannel(self common.Address) *Channel {
	return &Channel{Self: self, balances: map[common.Address]uint64{}}
}

func (c *Channel) Credit(who common.Address, amount uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[who] += amount
}

func (c *Channel) BalanceOf(who common.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balances[who]
}

func (c *Channel) Balance(_ context.Context) (uint64, error) {
	return c.BalanceOf(c.Self), nil
}

func (c *Channel) Pay(ctx context.Context, to common.Address, amount uint64) error {
	if c.BeforePay != nil {
		if err := c.BeforePay(ctx, to, amount); err != nil {
			return err
		}
	}
	return c.move(c.Self, to, amount)
}

func (c *Channel) Receive(ctx context.Context, from common.Address, amount uint64) error {
	if c.BeforeReceive != nil {
		if err := c.BeforeReceive(ctx, from, amount); err != nil {
			return err
		}
	}
	return c.move(from, c.Self, amount)
}

func (c *Channel) move(from, to common.Address, amount uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balances[from] < amount {
		return payment.ErrInsufficientFunds
	}
	c.balances[from] -= amount
	c.balances[to] += amount
	return nil
}
