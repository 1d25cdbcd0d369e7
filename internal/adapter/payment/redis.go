package payment

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	domain "collateral-ledger/internal/domain/payment"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

const (
	balancesKey = "payments:balances"
	maxRetries  = 8
)

var (
	_ domain.Channel = (*Channel)(nil)

	ErrBalanceOverflow = errors.New("balance overflow")
)

// Channel is a balance book in a single redis hash keyed by lowercase address.
// self is the account the ledger spends from and receives into.
type Channel struct {
	rdb  *redis.Client
	self common.Address
}

func New(rdb *redis.Client, self common.Address) *Channel {
	return &Channel{rdb: rdb, self: self}
}

func field(a common.Address) string { return strings.ToLower(a.Hex()) }

func (c *Channel) Balance(ctx context.Context) (uint64, error) {
	return c.BalanceOf(ctx, c.self)
}

func (c *Channel) BalanceOf(ctx context.Context, who common.Address) (uint64, error) {
	return readBalance(ctx, c.rdb, who)
}

// Credit mints amount into who's account. Used to fund wallets in development.
func (c *Channel) Credit(ctx context.Context, who common.Address, amount uint64) error {
	return c.update(ctx, func(ctx context.Context, tx *redis.Tx) (map[string]interface{}, error) {
		bal, err := readBalance(ctx, tx, who)
		if err != nil {
			return nil, err
		}
		next, carry := bits.Add64(bal, amount, 0)
		if carry != 0 {
			return nil, ErrBalanceOverflow
		}
		return map[string]interface{}{field(who): strconv.FormatUint(next, 10)}, nil
	})
}

func (c *Channel) Pay(ctx context.Context, to common.Address, amount uint64) error {
	return c.transfer(ctx, c.self, to, amount)
}

func (c *Channel) Receive(ctx context.Context, from common.Address, amount uint64) error {
	return c.transfer(ctx, from, c.self, amount)
}

func (c *Channel) transfer(ctx context.Context, from, to common.Address, amount uint64) error {
	if from == to {
		return nil
	}
	return c.update(ctx, func(ctx context.Context, tx *redis.Tx) (map[string]interface{}, error) {
		src, err := readBalance(ctx, tx, from)
		if err != nil {
			return nil, err
		}
		if src < amount {
			return nil, domain.ErrInsufficientFunds
		}
		dst, err := readBalance(ctx, tx, to)
		if err != nil {
			return nil, err
		}
		next, carry := bits.Add64(dst, amount, 0)
		if carry != 0 {
			return nil, ErrBalanceOverflow
		}
		return map[string]interface{}{
			field(from): strconv.FormatUint(src-amount, 10),
			field(to):   strconv.FormatUint(next, 10),
		}, nil
	})
}

// update applies the fields computed by fn with optimistic locking on the hash.
func (c *Channel) update(ctx context.Context, fn func(ctx context.Context, tx *redis.Tx) (map[string]interface{}, error)) error {
	txf := func(tx *redis.Tx) error {
		values, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, balancesKey, values)
			return nil
		})
		return err
	}
	for i := 0; i < maxRetries; i++ {
		err := c.rdb.Watch(ctx, txf, balancesKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		logger.For(ctx).WithField("attempt", i+1).Debug("payments: balance update raced, retrying")
	}
	return fmt.Errorf("payments: %w", redis.TxFailedErr)
}

func readBalance(ctx context.Context, c redis.Cmdable, who common.Address) (uint64, error) {
	v, err := c.HGet(ctx, balancesKey, field(who)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(v, 10, 64)
}
