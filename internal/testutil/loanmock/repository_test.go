package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "collateral-ledger/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: 1}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanID_DefaultNotFound(t *testing.T) {
	m := &Repo{}
	if _, err := m.GetByLoanID(context.Background(), 3); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("want ErrLoanNotFound, got %v", err)
	}
	if _, err := m.GetByLoanIDForUpdate(context.Background(), 3); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("want ErrLoanNotFound, got %v", err)
	}
}

func TestRepo_GetByLoanID_UsesFunc(t *testing.T) {
	want := &domain.Loan{LoanID: 2}
	m := &Repo{
		GetByLoanIDFn: func(_ context.Context, loanID uint64) (*domain.Loan, error) {
			if loanID != 2 {
				t.Fatalf("GetByLoanID loanID mismatch: got %d", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanID(context.Background(), 2)
	if err != nil || got != want {
		t.Fatalf("GetByLoanID: got (%v, %v)", got, err)
	}
}
