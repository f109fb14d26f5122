// Package events publishes bookkeeping domain events after their database
// transaction commits. Delivery is best-effort: a failed publish is logged by
// the caller and never undoes the change that produced it.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event names double as routing keys.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	ProductLowStock    = "product.low_stock"
)

// Event is the envelope sent for every domain event.
type Event struct {
	Name       string    `json:"name"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New stamps an event with the current time.
func New(name, userID string, payload any) Event {
	return Event{Name: name, UserID: userID, OccurredAt: time.Now().UTC(), Payload: payload}
}

// ToJSON encodes the envelope.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
