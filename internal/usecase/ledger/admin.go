package ledger

import (
	"context"

	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/uow"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// DepositFunds adds value from the administrator to the ledger balance.
func (u *Usecase) DepositFunds(ctx context.Context, caller common.Address, value uint64) error {
	return u.asAdministrator(ctx, "deposit_funds", caller, func(r uow.Repos, s *domainLedger.State, c *compensator) error {
		if err := u.payments.Receive(ctx, caller, value); err != nil {
			return paymentErr(err)
		}
		c.add("refund deposit", func(ctx context.Context) error {
			return u.payments.Pay(ctx, caller, value)
		})
		logger.For(ctx).WithField("value", value).Info("ledger: funds deposited")
		return nil
	})
}

// WithdrawFunds pays amount out of the ledger balance to the administrator.
func (u *Usecase) WithdrawFunds(ctx context.Context, caller common.Address, amount uint64) error {
	return u.asAdministrator(ctx, "withdraw_funds", caller, func(r uow.Repos, s *domainLedger.State, c *compensator) error {
		bal, err := u.payments.Balance(ctx)
		if err != nil {
			return err
		}
		if amount > bal {
			return loan.ErrInsufficientContractBalance
		}
		if err := u.payments.Pay(ctx, caller, amount); err != nil {
			return paymentErr(err)
		}
		c.add("return withdrawal", func(ctx context.Context) error {
			return u.payments.Receive(ctx, caller, amount)
		})
		logger.For(ctx).WithField("amount", amount).Info("ledger: funds withdrawn")
		return nil
	})
}

func (u *Usecase) Pause(ctx context.Context, caller common.Address) error {
	return u.asAdministrator(ctx, "pause", caller, func(r uow.Repos, s *domainLedger.State, _ *compensator) error {
		if s.Paused {
			return loan.ErrPaused
		}
		s.Paused = true
		if err := r.Ledger.Save(ctx, s); err != nil {
			return err
		}
		logger.For(ctx).Warn("ledger: paused")
		return nil
	})
}

func (u *Usecase) Unpause(ctx context.Context, caller common.Address) error {
	return u.asAdministrator(ctx, "unpause", caller, func(r uow.Repos, s *domainLedger.State, _ *compensator) error {
		if !s.Paused {
			return loan.ErrNotPaused
		}
		s.Paused = false
		if err := r.Ledger.Save(ctx, s); err != nil {
			return err
		}
		logger.For(ctx).Info("ledger: unpaused")
		return nil
	})
}

// TransferOwnership hands the administrator role to next.
func (u *Usecase) TransferOwnership(ctx context.Context, caller, next common.Address) error {
	return u.asAdministrator(ctx, "transfer_ownership", caller, func(r uow.Repos, s *domainLedger.State, _ *compensator) error {
		if next == (common.Address{}) {
			return loan.ErrInvalidOwner
		}
		prev := s.Administrator
		s.Administrator = next
		if err := r.Ledger.Save(ctx, s); err != nil {
			return err
		}
		logger.For(ctx).WithFields(logrus.Fields{
			"from": prev.Hex(),
			"to":   next.Hex(),
		}).Info("ledger: ownership transferred")
		return nil
	})
}

// Receive accepts value from anyone. It is open to every caller and ignores
// the pause switch.
func (u *Usecase) Receive(ctx context.Context, from common.Address, value uint64) error {
	release, err := u.guard.enter()
	if err != nil {
		return err
	}
	defer release()

	if err := u.payments.Receive(ctx, from, value); err != nil {
		err = paymentErr(err)
		logger.For(ctx).WithError(err).WithField("from", from.Hex()).Info("ledger: receive rejected")
		return err
	}
	return nil
}

// asAdministrator runs fn under the guard with the ledger row locked, once the
// caller has been checked against the administrator.
func (u *Usecase) asAdministrator(ctx context.Context, op string, caller common.Address, fn func(r uow.Repos, s *domainLedger.State, c *compensator) error) error {
	release, err := u.guard.enter()
	if err != nil {
		return err
	}
	defer release()

	var c compensator
	err = u.uow.WithinLedgerTx(ctx, func(r uow.Repos, s *domainLedger.State) error {
		if caller != s.Administrator {
			return loan.ErrNotAdministrator
		}
		return fn(r, s, &c)
	})
	if err != nil {
		return u.abort(ctx, &c, op, err)
	}
	return nil
}
