package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collateral-ledger/internal/domain/asset"
	"collateral-ledger/internal/domain/event"
	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/payment"
	"collateral-ledger/internal/domain/uow"
	"collateral-ledger/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Usecase is the loan ledger. Mutating operations run one at a time under the
// re-entrancy guard and inside a single unit of work.
type Usecase struct {
	repos     uow.Repos
	uow       uow.UnitOfWork
	registry  asset.Registry
	payments  payment.Channel
	publisher event.Publisher
	self      common.Address
	now       func() time.Time
	guard     guard
}

// NewUsecase wires the ledger. self is the identity the ledger holds custody
// and value under; publisher may be nil.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, registry asset.Registry, payments payment.Channel, publisher event.Publisher, self common.Address) *Usecase {
	return &Usecase{
		repos:     repos,
		uow:       tx,
		registry:  registry,
		payments:  payments,
		publisher: publisher,
		self:      self,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Self is the ledger's own identity.
func (u *Usecase) Self() common.Address { return u.self }

// Bootstrap creates the ledger state on first use. Once created, the stored
// params win over the ones passed in.
func (u *Usecase) Bootstrap(ctx context.Context, admin common.Address, params domainLedger.Params) (*domainLedger.State, error) {
	if admin == (common.Address{}) {
		return nil, loan.ErrInvalidOwner
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	var out *domainLedger.State
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Ledger.Get(ctx)
		switch {
		case err == nil:
			if s.Params != params {
				logger.For(ctx).WithFields(logrus.Fields{
					"stored":     s.Params,
					"configured": params,
				}).Warn("ledger: params are fixed at bootstrap, ignoring configured values")
			}
			out = s
			return nil
		case !errors.Is(err, domainLedger.ErrNotBootstrapped):
			return err
		}
		s = &domainLedger.State{Administrator: admin, Params: params}
		if err := r.Ledger.Create(ctx, s); err != nil {
			return err
		}
		logger.For(ctx).WithFields(logrus.Fields{
			"administrator": admin.Hex(),
			"fee_rate_bps":  params.FeeRateBps,
		}).Info("ledger: bootstrapped")
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Summary(ctx context.Context) (*LedgerDTO, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := u.payments.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerDTO{
		Administrator: s.Administrator,
		Paused:        s.Paused,
		TotalLoans:    s.TotalLoans,
		Balance:       bal,
		Params:        s.Params,
	}, nil
}

func (u *Usecase) TotalLoans(ctx context.Context) (uint64, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.TotalLoans, nil
}

func (u *Usecase) FeeRate(ctx context.Context) (uint64, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.FeeRateBps, nil
}

// RepaymentWindow is in seconds.
func (u *Usecase) RepaymentWindow(ctx context.Context) (int64, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.RepaymentWindow, nil
}

func (u *Usecase) Params(ctx context.Context) (domainLedger.Params, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return domainLedger.Params{}, err
	}
	return s.Params, nil
}

func (u *Usecase) Administrator(ctx context.Context) (common.Address, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return s.Administrator, nil
}

func (u *Usecase) Paused(ctx context.Context) (bool, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return false, err
	}
	return s.Paused, nil
}

func (u *Usecase) Balance(ctx context.Context) (uint64, error) {
	return u.payments.Balance(ctx)
}

func (u *Usecase) GetLoan(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return nil, err
	}
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toLoanDTO(l, s.RepaymentWindow), nil
}

func (u *Usecase) LoansOf(ctx context.Context, borrower common.Address) ([]LoanDTO, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := u.repos.Loans.ListByBorrower(ctx, borrower)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toLoanDTO(&loans[i], s.RepaymentWindow))
	}
	return out, nil
}

// RepaymentAmount quotes principal plus the fee at the ledger's fixed rate.
func (u *Usecase) RepaymentAmount(ctx context.Context, principal uint64) (uint64, error) {
	s, err := u.repos.Ledger.Get(ctx)
	if err != nil {
		return 0, err
	}
	return loan.RepaymentAmount(principal, s.FeeRateBps)
}

func (u *Usecase) IsCollateralized(ctx context.Context, collection common.Address, assetID uint64) (bool, error) {
	return u.repos.Custody.IsHeld(ctx, collection, assetID)
}

// LoanCount is the lifetime number of loans opened by w.
func (u *Usecase) LoanCount(ctx context.Context, w common.Address) (uint64, error) {
	return u.repos.Wallets.Count(ctx, w)
}

func (u *Usecase) Events(ctx context.Context, loanID uint64) ([]event.Event, error) {
	return u.repos.Events.ListByLoanID(ctx, loanID)
}

// abort reverses external effects and logs the rejection.
func (u *Usecase) abort(ctx context.Context, c *compensator, op string, err error) error {
	err = c.rollback(ctx, err)
	entry := logger.For(ctx).WithField("op", op).WithError(err)
	if code := loan.Code(err); code != "" {
		entry.WithField("code", code).Info("ledger: operation rejected")
	} else {
		entry.Error("ledger: operation failed")
	}
	return err
}

func (u *Usecase) publish(ctx context.Context, e *event.Event) {
	if u.publisher == nil || e == nil {
		return
	}
	if err := u.publisher.Publish(ctx, *e); err != nil {
		logger.For(ctx).WithError(err).WithField("event_id", e.EventID).Warn("ledger: publish failed")
	}
}

// custodyErr classifies a failed registry call.
func custodyErr(err error) error {
	switch {
	case loan.Code(err) != "":
		return err
	case errors.Is(err, asset.ErrTransferNotApproved):
		return fmt.Errorf("%w: %w", loan.ErrUnauthorizedTransfer, err)
	default:
		return fmt.Errorf("%w: asset move: %w", loan.ErrTransferFailed, err)
	}
}

// paymentErr classifies a failed value transfer.
func paymentErr(err error) error {
	if loan.Code(err) != "" {
		return err
	}
	return fmt.Errorf("%w: %w", loan.ErrTransferFailed, err)
}
