// Package messaging publishes and consumes messages without tying callers to
// a specific broker. NATS, NSQ, Kafka, RabbitMQ and Google Pub/Sub are
// supported.
package messaging

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"
)

// ErrUnsupported is returned when the selected broker cannot honour a request.
var ErrUnsupported = errors.New("messaging: unsupported operation")

var (
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
)

// Messaging is a broker client that can publish and consume.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

type Consumer interface {
	// Consume blocks until ctx is done or the subscription fails.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto-ack enabled a nil error
// acks and a non-nil error nacks.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to publish. Headers are dropped by brokers
// without header support (NSQ).
type OutgoingMessage struct {
	Body    []byte
	Key     []byte
	Headers map[string]string
}

type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	ID() string
	Body() []byte
	Headers() map[string]string
	Timestamp() time.Time
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}

// delivery adapts a broker message to Message. Only the first Ack or Nack
// reaches the broker.
type delivery struct {
	id         string
	body       []byte
	headers    map[string]string
	receivedAt time.Time

	ack  func(ctx context.Context) error
	nack func(ctx context.Context) error

	responded atomic.Bool
}

func (d *delivery) ID() string                 { return d.id }
func (d *delivery) Body() []byte               { return d.body }
func (d *delivery) Headers() map[string]string { return d.headers }
func (d *delivery) Timestamp() time.Time       { return d.receivedAt }

func (d *delivery) Ack(ctx context.Context) error {
	return d.respond(ctx, d.ack)
}

func (d *delivery) Nack(ctx context.Context) error {
	return d.respond(ctx, d.nack)
}

func (d *delivery) respond(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) {
		return nil
	}
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
