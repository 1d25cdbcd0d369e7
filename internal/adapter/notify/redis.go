package notify

import (
	"context"
	"encoding/json"

	"collateral-ledger/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is where committed ledger events are published.
const DefaultChannel = "ledger:events"

var _ event.Publisher = (*Publisher)(nil)

// Publisher broadcasts committed events as JSON over redis pub/sub.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{rdb: rdb, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}
