package ledger

import (
	"context"
	"errors"
	"sync/atomic"

	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/infrastructure/logger"
)

// guard rejects nested entry into any mutating ledger operation. It never
// blocks: callers are serialized upstream, so a held guard can only mean a
// collaborator called back into the ledger mid-operation.
type guard struct{ entered atomic.Bool }

func (g *guard) enter() (release func(), err error) {
	if !g.entered.CompareAndSwap(false, true) {
		return nil, loan.ErrReentrantCall
	}
	return func() { g.entered.Store(false) }, nil
}

// compensator records how to reverse external side effects taken during an
// operation. The ledger's own rows roll back with the transaction; these do not.
type compensator struct {
	steps []step
}

type step struct {
	name string
	undo func(ctx context.Context) error
}

func (c *compensator) add(name string, undo func(ctx context.Context) error) {
	c.steps = append(c.steps, step{name: name, undo: undo})
}

// rollback runs the recorded steps newest first and returns cause joined
// with any step that could not be reversed.
func (c *compensator) rollback(ctx context.Context, cause error) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{cause}
	for i := len(c.steps) - 1; i >= 0; i-- {
		s := c.steps[i]
		if err := s.undo(ctx); err != nil {
			logger.For(ctx).WithError(err).WithField("step", s.name).Error("ledger: compensation failed")
			errs = append(errs, err)
		}
	}
	c.steps = nil
	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}
