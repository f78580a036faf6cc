package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	CartCheckedOutSchemaPath   = "contracts/events/cart/CartCheckedOut.v1.enveloped.schema.json"
)

type EventEnvelope struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CausationID   string    `json:"causationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      int64     `json:"sequence"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       any       `json:"payload"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return errors.New("missing partitionKey")
	}
	if e.EventID == "" {
		return errors.New("missing eventId")
	}
	if e.Payload == nil {
		return errors.New("missing payload")
	}
	return nil
}

type CartCheckedOutPayload struct {
	OrderID     string               `json:"orderId"`
	UserID      string               `json:"userId"`
	Items       []CartCheckedOutItem `json:"items"`
	Subtotal    float64              `json:"subtotal"`
	Discount    float64              `json:"discount"`
	Tax         float64              `json:"tax"`
	TotalAmount float64              `json:"totalAmount"`
	CouponCode  string               `json:"couponCode,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
}

type CartCheckedOutItem struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type EnvelopeOptions struct {
	// PartitionKey defaults to the order id.
	PartitionKey  string
	Sequence      int64
	Producer      string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildCartCheckedOutEvent wraps p in the shared envelope.
func BuildCartCheckedOutEvent(p CartCheckedOutPayload, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = occurredAt
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}
	if p.Items == nil {
		p.Items = []CartCheckedOutItem{}
	}
	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = p.OrderID
	}

	return EventEnvelope{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        CartCheckedOutSchemaPath,
		Payload:       p,
	}
}
