package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/unessa/fundraiser-api/internal/database"
)

// PaymentChannel carries captured-payment events to dashboard clients.
const PaymentChannel = "payments.captured"

// PaymentEvent notifies dashboards that a donation was captured. RefName is
// empty for unreferred donations.
type PaymentEvent struct {
	RefName string `json:"refName,omitempty"`
	Amount  int64  `json:"amount"`
}

// Publisher fans payment events out over Redis pub/sub.
type Publisher struct {
	rdb *database.Redis
}

// NewPublisher creates a Publisher.
func NewPublisher(rdb *database.Redis) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishPayment broadcasts a captured payment.
func (p *Publisher) PublishPayment(ctx context.Context, ev PaymentEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: failed to encode payment event: %w", err)
	}
	if err := p.rdb.Publish(ctx, PaymentChannel, payload); err != nil {
		return fmt.Errorf("events: failed to publish payment event: %w", err)
	}
	return nil
}

// Subscribe opens a subscription on the payment channel. The caller owns it
// and must close it.
func (p *Publisher) Subscribe(ctx context.Context) *redis.PubSub {
	return p.rdb.Subscribe(ctx, PaymentChannel)
}
