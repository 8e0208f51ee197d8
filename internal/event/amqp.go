package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Envelope is the wire form of an event forwarded to the broker.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Encode wraps evt in an Envelope and marshals it to JSON.
func Encode(evt Event, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s payload: %w", evt.Name(), err)
	}

	return json.Marshal(Envelope{
		ID:         uuid.New().String(),
		Name:       evt.Name(),
		OccurredAt: at.UTC(),
		Payload:    payload,
	})
}

// AMQPForwarder publishes every bus event to a durable RabbitMQ queue.
type AMQPForwarder struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPForwarder dials the broker and declares the target queue.
func NewAMQPForwarder(url, queue string) (*AMQPForwarder, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("rabbitmq queue is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring queue %q: %w", queue, err)
	}

	return &AMQPForwarder{conn: conn, channel: ch, queue: queue}, nil
}

// Handle is a bus Handler that forwards evt to the queue.
func (f *AMQPForwarder) Handle(ctx context.Context, evt Event) error {
	now := time.Now()
	body, err := Encode(evt, now)
	if err != nil {
		return err
	}

	err = f.channel.PublishWithContext(ctx, "", f.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         evt.Name(),
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing %s: %w", evt.Name(), err)
	}

	slog.Debug("event forwarded", "event", evt.Name(), "queue", f.queue)
	return nil
}

// Close closes the channel and the connection.
func (f *AMQPForwarder) Close() error {
	if f.channel != nil {
		_ = f.channel.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
