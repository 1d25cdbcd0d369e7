package uowmock

import (
	"context"
	"errors"

	"collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLedgerTxFn func(ctx context.Context, fn func(r uow.Repos, s *ledger.State) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinLedgerTx(fn func(context.Context, func(uow.Repos, *ledger.State) error) error) *UoW {
	m.WithinLedgerTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinLedgerTx(ctx context.Context, fn func(r uow.Repos, s *ledger.State) error) error {
	if m.WithinLedgerTxFn != nil {
		return m.WithinLedgerTxFn(ctx, fn)
	}
	return errUnimplemented
}

// Wrap delegates to inner and lets mutate swap repositories before fn runs.
// after, when set, replaces the result of a successful fn (a failed commit).
func Wrap(inner uow.UnitOfWork, mutate func(r *uow.Repos), after error) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return inner.WithinTx(ctx, func(r uow.Repos) error {
				if mutate != nil {
					mutate(&r)
				}
				if err := fn(r); err != nil {
					return err
				}
				return after
			})
		},
		WithinLedgerTxFn: func(ctx context.Context, fn func(r uow.Repos, s *ledger.State) error) error {
			return inner.WithinLedgerTx(ctx, func(r uow.Repos, s *ledger.State) error {
				if mutate != nil {
					mutate(&r)
				}
				if err := fn(r, s); err != nil {
					return err
				}
				return after
			})
		},
	}
}
