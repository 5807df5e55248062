// Package events publishes billing lifecycle events to NATS.
// The publisher is optional; when no NATS URL is configured a no-op
// publisher is used and the rest of the system behaves identically.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for billing lifecycle events.
const (
	SubjectSubscriptionCreated  = "billing.subscription.created"
	SubjectSubscriptionCanceled = "billing.subscription.canceled"
	SubjectSubscriptionStatus   = "billing.subscription.status_changed"
	SubjectInvoicePaid          = "billing.invoice.paid"
)

// Publisher emits billing events. Implementations must be safe for
// concurrent use. Publish failures must never fail the calling operation.
type Publisher interface {
	Publish(subject string, payload interface{}) error
	Close()
}

// NATSPublisher publishes JSON-encoded events to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

var _ Publisher = (*NATSPublisher)(nil)

// Connect establishes a NATS connection with reconnect handling.
func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// Publish marshals the payload to JSON and publishes it.
func (p *NATSPublisher) Publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close drains and closes the underlying connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NoopPublisher discards all events. Used when NATS is not configured.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

// Publish discards the event.
func (NoopPublisher) Publish(subject string, payload interface{}) error { return nil }

// Close is a no-op.
func (NoopPublisher) Close() {}
