package mysql

import (
	"context"
	"fmt"

	eventDomain "collateral-ledger/internal/domain/event"
	"collateral-ledger/pkg/id"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

// Append stores e, assigning an event id when the caller left it empty.
func (r *EventRepository) Append(ctx context.Context, e *eventDomain.Event) error {
	if e.EventID == "" {
		e.EventID = id.NewID32()
	} else if !id.Valid(e.EventID) {
		return fmt.Errorf("malformed event id %q", e.EventID)
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]eventDomain.Event, error) {
	var out []eventDomain.Event
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
