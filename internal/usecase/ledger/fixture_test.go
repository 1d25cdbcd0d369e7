package ledger

import (
	"context"
	"testing"
	"time"

	"collateral-ledger/internal/adapter/repository/mysql"
	"collateral-ledger/internal/domain/custody"
	"collateral-ledger/internal/domain/event"
	domainLedger "collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/uow"
	"collateral-ledger/internal/testutil/chainfake"
	"collateral-ledger/internal/testutil/eventmock"
	"collateral-ledger/internal/testutil/sqlitedb"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	window  int64  = 2_592_000
	deposit uint64 = 100_000_000
)

var (
	admin      = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	borrower   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	stranger   = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	ledgerAddr = common.HexToAddress("0x00000000000000000000000000000000000001ed")
	collection = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	t0         = time.Unix(1_700_000_000, 0).UTC()
)

func defaultParams() domainLedger.Params {
	return domainLedger.Params{
		FeeRateBps:        500,
		RepaymentWindow:   window,
		MaxLoanRatioBps:   5000,
		MaxLoansPerWallet: 2,
		ReferencePrice:    domainLedger.DefaultReferencePrice,
	}
}

type fixture struct {
	uc        *Usecase
	db        *gorm.DB
	registry  *chainfake.Registry
	channel   *chainfake.Channel
	publisher *eventmock.Publisher
	now       time.Time
}

type option func(*fixtureConfig)

type fixtureConfig struct {
	params domainLedger.Params
	wrap   func(inner uow.UnitOfWork) uow.UnitOfWork
}

func withParams(mutate func(p *domainLedger.Params)) option {
	return func(c *fixtureConfig) { mutate(&c.params) }
}

func withUoW(wrap func(inner uow.UnitOfWork) uow.UnitOfWork) option {
	return func(c *fixtureConfig) { c.wrap = wrap }
}

// newFixture bootstraps a ledger with the administrator's deposit already in
// and asset #1 minted to the borrower and approved for the ledger.
func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	cfg := fixtureConfig{params: defaultParams()}
	for _, o := range opts {
		o(&cfg)
	}

	gdb := sqlitedb.Open(t)
	f := &fixture{
		db:        gdb,
		registry:  chainfake.NewRegistry(ledgerAddr),
		channel:   chainfake.NewChannel(ledgerAddr),
		publisher: &eventmock.Publisher{},
		now:       t0,
	}
	var tx uow.UnitOfWork = mysql.NewGormUoW(gdb)
	if cfg.wrap != nil {
		tx = cfg.wrap(tx)
	}
	f.uc = NewUsecase(mysql.NewRepos(gdb), mysql.NewGormUoW(gdb), f.registry, f.channel, f.publisher, ledgerAddr).
		WithClock(func() time.Time { return f.now })

	ctx := context.Background()
	_, err := f.uc.Bootstrap(ctx, admin, cfg.params)
	require.NoError(t, err)
	f.channel.Credit(admin, deposit)
	require.NoError(t, f.uc.DepositFunds(ctx, admin, deposit))

	f.mintApproved(1, borrower)
	// swap the unit of work only after setup so the wrapper sees lifecycle calls alone
	f.uc.uow = tx
	return f
}

func (f *fixture) mintApproved(assetID uint64, owner common.Address) {
	f.registry.Mint(collection, assetID, owner)
	f.registry.Approve(collection, assetID, ledgerAddr)
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) owner(t *testing.T, assetID uint64) common.Address {
	t.Helper()
	o, err := f.registry.OwnerOf(context.Background(), collection, assetID)
	require.NoError(t, err)
	return o
}

type snapshot struct {
	TotalLoans uint64
	Loans      int64
	Held       int64
	Events     int64
	Balance    uint64
	Borrower   uint64
	Owner      common.Address
}

func (f *fixture) snapshot(t *testing.T) snapshot {
	t.Helper()
	ctx := context.Background()
	var s snapshot
	var err error
	s.TotalLoans, err = f.uc.TotalLoans(ctx)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&loan.Loan{}).Count(&s.Loans).Error)
	require.NoError(t, f.db.Model(&custody.Entry{}).Where("held = ?", true).Count(&s.Held).Error)
	require.NoError(t, f.db.Model(&event.Event{}).Count(&s.Events).Error)
	s.Balance, err = f.uc.Balance(ctx)
	require.NoError(t, err)
	s.Borrower = f.channel.BalanceOf(borrower)
	s.Owner = f.owner(t, 1)
	return s
}

func (f *fixture) borrow(t *testing.T, assetID, principal uint64) *LoanDTO {
	t.Helper()
	got, err := f.uc.CreateLoan(context.Background(), CreateLoanInput{
		Caller:     borrower,
		Collection: collection,
		AssetID:    assetID,
		Principal:  principal,
	})
	require.NoError(t, err)
	return got
}
