package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// Publisher emits storefront domain events.
type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, ev EventEnvelope) error
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	exchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	mu     sync.Mutex
	ch     channel
	logger *zap.Logger
}

// NewAMQPPublisher opens a channel on conn and declares the events
// exchange.
func NewAMQPPublisher(conn *amqp.Connection, logger *zap.Logger) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newAMQPPublisher(ch, logger)
}

func newAMQPPublisher(ch channel, logger *zap.Logger) (*AMQPPublisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{ch: ch, logger: logger}, nil
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func (p *AMQPPublisher) PublishCartCheckedOut(ctx context.Context, ev EventEnvelope) error {
	if err := ev.Validate(CartCheckedOutEventName, CartCheckedOutEventVersion); err != nil {
		return fmt.Errorf("invalid CartCheckedOut envelope: %w", err)
	}
	return p.publishJSON(ctx, CartCheckedOutRoutingKey, ev.EventID, ev.CorrelationID, ev)
}

func (p *AMQPPublisher) publishJSON(ctx context.Context, routingKey, messageID, correlationID string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.Debug("event published", zap.String("routing_key", routingKey), zap.String("event_id", messageID))
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) NoopPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NoopPublisher{logger: logger}
}

func (n NoopPublisher) PublishCartCheckedOut(_ context.Context, ev EventEnvelope) error {
	n.logger.Debug("event publishing disabled, dropping event",
		zap.String("event_name", ev.EventName),
		zap.String("event_id", ev.EventID),
	)
	return nil
}
