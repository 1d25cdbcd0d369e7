package ledger

import "context"

type Repository interface {
	// Get returns ErrNotBootstrapped until Create has run once.
	Get(ctx context.Context) (*State, error)
	GetForUpdate(ctx context.Context) (*State, error)
	Create(ctx context.Context, s *State) error
	Save(ctx context.Context, s *State) error
}
