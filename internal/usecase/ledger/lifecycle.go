package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collateral-ledger/internal/domain/asset"
	"collateral-ledger/internal/domain/custody"
	"collateral-ledger/internal/domain/event"
	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/uow"
	"collateral-ledger/internal/infrastructure/logger"
	"collateral-ledger/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// CreateLoan locks the caller's asset with the ledger and pays out the principal.
// Checks run in a fixed order so callers always see the first failing one.
func (u *Usecase) CreateLoan(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	release, err := u.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	now := u.now()
	var (
		c       compensator
		created *loan.Loan
		ev      *event.Event
		window  int64
	)
	err = u.uow.WithinLedgerTx(ctx, func(r uow.Repos, s *domainLedger.State) error {
		if s.Paused {
			return loan.ErrPaused
		}

		owner, err := u.registry.OwnerOf(ctx, in.Collection, in.AssetID)
		if errors.Is(err, asset.ErrUnknownAsset) {
			return loan.ErrNotOwner
		}
		if err != nil {
			return fmt.Errorf("owner lookup: %w", err)
		}
		if owner != in.Caller {
			return loan.ErrNotOwner
		}

		bal, err := u.payments.Balance(ctx)
		if err != nil {
			return fmt.Errorf("balance: %w", err)
		}
		if bal < in.Principal {
			return loan.ErrInsufficientContractBalance
		}

		approved, err := u.registry.IsApprovedForTransfer(ctx, in.Collection, in.AssetID, u.self)
		if err != nil {
			return fmt.Errorf("approval lookup: %w", err)
		}
		if !approved {
			return loan.ErrUnauthorizedTransfer
		}

		count, err := r.Wallets.Count(ctx, in.Caller)
		if err != nil {
			return err
		}
		if count >= s.MaxLoansPerWallet {
			return loan.ErrTooManyLoans
		}

		maxPrincipal, err := loan.MaxPrincipal(s.ReferencePrice, s.MaxLoanRatioBps)
		if err != nil {
			return err
		}
		if in.Principal > maxPrincipal {
			return loan.ErrLoanAmountTooHigh
		}

		if s.EnforceUniqueCollateral {
			held, err := r.Custody.IsHeld(ctx, in.Collection, in.AssetID)
			if err != nil {
				return err
			}
			if held {
				return loan.ErrAssetAlreadyCollateralized
			}
		}

		l := &loan.Loan{
			LoanID:         s.TotalLoans,
			Borrower:       in.Caller,
			Collection:     in.Collection,
			AssetID:        in.AssetID,
			Principal:      in.Principal,
			LoanStart:      now.Unix(),
			Active:         true,
			State:          loan.StateActive,
			StateUpdatedAt: now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if _, err := r.Wallets.Increment(ctx, in.Caller); err != nil {
			return err
		}
		if err := r.Custody.Set(ctx, &custody.Entry{Collection: in.Collection, AssetID: in.AssetID, Held: true, LoanID: l.LoanID}); err != nil {
			return err
		}
		s.TotalLoans++
		if err := r.Ledger.Save(ctx, s); err != nil {
			return err
		}
		ev = &event.Event{
			EventID: id.NewID32(),
			Name:    event.LoanCreated,
			Actor:   in.Caller,
			LoanID:  l.LoanID,
			AssetID: in.AssetID,
			Amount:  in.Principal,
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}

		if err := u.registry.MoveCustody(ctx, in.Collection, in.AssetID, in.Caller, u.self); err != nil {
			return custodyErr(err)
		}
		c.add("return collateral", func(ctx context.Context) error {
			return u.registry.MoveCustody(ctx, in.Collection, in.AssetID, u.self, in.Caller)
		})
		if err := u.payments.Pay(ctx, in.Caller, in.Principal); err != nil {
			return paymentErr(err)
		}
		c.add("recover principal", func(ctx context.Context) error {
			return u.payments.Receive(ctx, in.Caller, in.Principal)
		})

		created, window = l, s.RepaymentWindow
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, &c, "create_loan", err)
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"loan_id":   created.LoanID,
		"borrower":  created.Borrower.Hex(),
		"asset_id":  created.AssetID,
		"principal": created.Principal,
	}).Info("ledger: loan created")
	u.publish(ctx, ev)
	return toLoanDTO(created, window), nil
}

// RepayLoan takes the repayment and hands the collateral back. Value above the
// repayment amount is kept.
func (u *Usecase) RepayLoan(ctx context.Context, in RepayLoanInput) (*LoanDTO, error) {
	release, err := u.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	now := u.now()
	var (
		c      compensator
		repaid *loan.Loan
		ev     *event.Event
		window int64
	)
	err = u.uow.WithinLedgerTx(ctx, func(r uow.Repos, s *domainLedger.State) error {
		if s.Paused {
			return loan.ErrPaused
		}
		l, err := activeLoan(ctx, r, in.LoanID)
		if err != nil {
			return err
		}
		if l.Borrower != in.Caller {
			return loan.ErrUnauthorizedBorrower
		}
		if l.Expired(now.Unix(), s.RepaymentWindow) {
			return loan.ErrLoanExpired
		}
		due, err := loan.RepaymentAmount(l.Principal, s.FeeRateBps)
		if err != nil {
			return err
		}
		if in.Value < due {
			return loan.ErrInsufficientAmount
		}

		if err := closeLoan(ctx, r, l, loan.StateRepaid, now); err != nil {
			return err
		}
		ev = &event.Event{
			EventID: id.NewID32(),
			Name:    event.LoanRepaid,
			Actor:   l.Borrower,
			LoanID:  l.LoanID,
			AssetID: l.AssetID,
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}

		if err := u.payments.Receive(ctx, in.Caller, in.Value); err != nil {
			return paymentErr(err)
		}
		c.add("refund repayment", func(ctx context.Context) error {
			return u.payments.Pay(ctx, in.Caller, in.Value)
		})
		if err := u.registry.MoveCustody(ctx, l.Collection, l.AssetID, u.self, l.Borrower); err != nil {
			return custodyErr(err)
		}
		c.add("retake collateral", func(ctx context.Context) error {
			return u.registry.MoveCustody(ctx, l.Collection, l.AssetID, l.Borrower, u.self)
		})

		repaid, window = l, s.RepaymentWindow
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, &c, "repay_loan", err)
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"loan_id":  repaid.LoanID,
		"borrower": repaid.Borrower.Hex(),
		"value":    in.Value,
	}).Info("ledger: loan repaid")
	u.publish(ctx, ev)
	return toLoanDTO(repaid, window), nil
}

// ClaimNFT moves the collateral of an expired loan to the administrator. It
// stays available while the ledger is paused.
func (u *Usecase) ClaimNFT(ctx context.Context, caller common.Address, loanID uint64) (*LoanDTO, error) {
	release, err := u.guard.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	now := u.now()
	var (
		c       compensator
		claimed *loan.Loan
		ev      *event.Event
		window  int64
	)
	err = u.uow.WithinLedgerTx(ctx, func(r uow.Repos, s *domainLedger.State) error {
		if caller != s.Administrator {
			return loan.ErrNotAdministrator
		}
		l, err := activeLoan(ctx, r, loanID)
		if err != nil {
			return err
		}
		if !l.Expired(now.Unix(), s.RepaymentWindow) {
			return loan.ErrLoanNotExpired
		}

		if err := closeLoan(ctx, r, l, loan.StateClaimed, now); err != nil {
			return err
		}
		ev = &event.Event{
			EventID: id.NewID32(),
			Name:    event.NFTClaimed,
			Actor:   s.Administrator,
			LoanID:  l.LoanID,
			AssetID: l.AssetID,
		}
		if err := r.Events.Append(ctx, ev); err != nil {
			return err
		}

		if err := u.registry.MoveCustody(ctx, l.Collection, l.AssetID, u.self, s.Administrator); err != nil {
			return custodyErr(err)
		}
		admin := s.Administrator
		c.add("retake collateral", func(ctx context.Context) error {
			return u.registry.MoveCustody(ctx, l.Collection, l.AssetID, admin, u.self)
		})

		claimed, window = l, s.RepaymentWindow
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, &c, "claim_nft", err)
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"loan_id":  claimed.LoanID,
		"asset_id": claimed.AssetID,
	}).Info("ledger: collateral claimed")
	u.publish(ctx, ev)
	return toLoanDTO(claimed, window), nil
}

// activeLoan loads and locks a loan; a missing loan reads as inactive.
func activeLoan(ctx context.Context, r uow.Repos, loanID uint64) (*loan.Loan, error) {
	l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
	if errors.Is(err, loan.ErrLoanNotFound) {
		return nil, loan.ErrLoanDeactive
	}
	if err != nil {
		return nil, err
	}
	if !l.Active {
		return nil, loan.ErrLoanDeactive
	}
	return l, nil
}

func closeLoan(ctx context.Context, r uow.Repos, l *loan.Loan, to loan.State, now time.Time) error {
	l.Active = false
	l.State = to
	l.StateUpdatedAt = now
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}
	return r.Custody.Set(ctx, &custody.Entry{Collection: l.Collection, AssetID: l.AssetID, Held: false, LoanID: l.LoanID})
}
