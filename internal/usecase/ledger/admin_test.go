package ledger

import (
	"context"
	"errors"
	"testing"

	"collateral-ledger/internal/domain/loan"

	"github.com/ethereum/go-ethereum/common"
)

func TestAdministratorOnlyOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.channel.Credit(stranger, 10)

	calls := map[string]func() error{
		"deposit":  func() error { return f.uc.DepositFunds(ctx, stranger, 10) },
		"withdraw": func() error { return f.uc.WithdrawFunds(ctx, stranger, 10) },
		"pause":    func() error { return f.uc.Pause(ctx, stranger) },
		"unpause":  func() error { return f.uc.Unpause(ctx, stranger) },
		"owner":    func() error { return f.uc.TransferOwnership(ctx, stranger, stranger) },
		"claim": func() error {
			_, err := f.uc.ClaimNFT(ctx, stranger, 0)
			return err
		},
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, loan.ErrNotAdministrator) {
			t.Fatalf("%s: err = %v, want ErrNotAdministrator", name, err)
		}
	}
	if got := f.channel.BalanceOf(stranger); got != 10 {
		t.Fatalf("stranger balance = %d, want 10", got)
	}
}

func TestWithdrawFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.uc.WithdrawFunds(ctx, admin, deposit+1); !errors.Is(err, loan.ErrInsufficientContractBalance) {
		t.Fatalf("over-withdraw err = %v", err)
	}
	if err := f.uc.WithdrawFunds(ctx, admin, deposit); err != nil {
		t.Fatalf("WithdrawFunds: %v", err)
	}
	if got := f.channel.BalanceOf(admin); got != deposit {
		t.Fatalf("admin balance = %d, want %d", got, deposit)
	}
	bal, _ := f.uc.Balance(ctx)
	if bal != 0 {
		t.Fatalf("ledger balance = %d, want 0", bal)
	}
}

func TestDepositFunds_PaymentFailure(t *testing.T) {
	f := newFixture(t)
	err := f.uc.DepositFunds(context.Background(), admin, 1)
	if !errors.Is(err, loan.ErrTransferFailed) {
		t.Fatalf("err = %v, want ErrTransferFailed", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.uc.TransferOwnership(ctx, admin, common.Address{}); !errors.Is(err, loan.ErrInvalidOwner) {
		t.Fatalf("zero owner err = %v", err)
	}
	if err := f.uc.TransferOwnership(ctx, admin, stranger); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	got, err := f.uc.Administrator(ctx)
	if err != nil {
		t.Fatalf("Administrator: %v", err)
	}
	if got != stranger {
		t.Fatalf("administrator = %s, want %s", got.Hex(), stranger.Hex())
	}
	if err := f.uc.Pause(ctx, admin); !errors.Is(err, loan.ErrNotAdministrator) {
		t.Fatalf("old admin pause err = %v", err)
	}
	if err := f.uc.Pause(ctx, stranger); err != nil {
		t.Fatalf("new admin pause: %v", err)
	}
	paused, _ := f.uc.Paused(ctx)
	if !paused {
		t.Fatalf("expected paused")
	}
}

func TestReceive_OpenToAnyone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.channel.Credit(stranger, 25)
	if err := f.uc.Pause(ctx, admin); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	if err := f.uc.Receive(ctx, stranger, 25); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	bal, _ := f.uc.Balance(ctx)
	if bal != deposit+25 {
		t.Fatalf("balance = %d, want %d", bal, deposit+25)
	}
	if err := f.uc.Receive(ctx, stranger, 1); !errors.Is(err, loan.ErrTransferFailed) {
		t.Fatalf("unfunded receive err = %v", err)
	}
}
