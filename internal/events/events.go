// Package events publishes domain events for other services to consume.
// Publishing is fire-and-forget: a failed publish never fails the request
// that triggered it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/forever/internal/domain"
	"github.com/nats-io/nats.go"
)

// Subjects.
const (
	ProductCreated = "forever.product.created"
	ProductUpdated = "forever.product.updated"
	ProductDeleted = "forever.product.deleted"
	CartUpdated    = "forever.cart.updated"
	CartCleared    = "forever.cart.cleared"
)

// Publisher sends an event on subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// Envelope is the wire format of every event.
type Envelope struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	RequestID  string    `json:"requestId,omitempty"`
	Data       any       `json:"data"`
}

// Encode wraps data in an Envelope and marshals it.
func Encode(ctx context.Context, subject string, data any) ([]byte, error) {
	return json.Marshal(Envelope{
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		RequestID:  domain.RequestIDFromContext(ctx),
		Data:       data,
	})
}

// ProductEvent is the payload of the product subjects.
type ProductEvent struct {
	ProductID string          `json:"productId"`
	Product   *domain.Product `json:"product,omitempty"`
}

// CartEvent is the payload of the cart subjects.
type CartEvent struct {
	UserID    string  `json:"userId"`
	ItemCount int     `json:"itemCount"`
	CartTotal float64 `json:"cartTotal"`
}

// NATSPublisher publishes events as core NATS messages.
type NATSPublisher struct {
	conn *nats.Conn
}

// Connect dials url and returns a publisher that owns the connection.
func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("forever"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := Encode(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Noop discards every event. Used when NATS_URL is not set.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
