package uow

import (
	"context"

	"collateral-ledger/internal/domain/custody"
	"collateral-ledger/internal/domain/event"
	"collateral-ledger/internal/domain/ledger"
	"collateral-ledger/internal/domain/loan"
	"collateral-ledger/internal/domain/wallet"
)

type Repos struct {
	Loans   loan.Repository
	Custody custody.Repository
	Wallets wallet.Repository
	Ledger  ledger.Repository
	Events  event.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the ledger state row first, then pass it in
	WithinLedgerTx(ctx context.Context, fn func(r Repos, s *ledger.State) error) error
}
