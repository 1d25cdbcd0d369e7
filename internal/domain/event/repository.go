package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Event, error)
}

// Publisher fans committed events out to listeners.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
