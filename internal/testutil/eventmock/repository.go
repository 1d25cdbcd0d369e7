package eventmock

import (
	domain "collateral-ledger/internal/domain/event"
	"context"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	AppendFn       func(ctx context.Context, e *domain.Event) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Event, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Event) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Event, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

// Publisher records what it is asked to publish.
type Publisher struct {
	PublishFn func(ctx context.Context, e domain.Event) error
	Published []domain.Event
}

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	p.Published = append(p.Published, e)
	if p.PublishFn != nil {
		return p.PublishFn(ctx, e)
	}
	return nil
}
