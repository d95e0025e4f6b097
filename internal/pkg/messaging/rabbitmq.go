package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrRabbitMQURLRequired = errors.New("messaging: rabbitmq url is required")

type RabbitMQConfig struct {
	URL string
}

// RabbitMQ is a Messaging implementation on durable AMQP queues published
// through the default exchange. Publishes share one channel; each Consume
// call opens its own.
type RabbitMQ struct {
	conn *amqp.Connection

	mu       sync.Mutex
	pubCh    *amqp.Channel
	declared map[string]bool
	closed   bool
}

func NewRabbitMQ(cfg RabbitMQConfig) (*RabbitMQ, error) {
	if cfg.URL == "" {
		return nil, ErrRabbitMQURLRequired
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("messaging: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("messaging: rabbitmq channel: %w", err)
	}

	return &RabbitMQ{conn: conn, pubCh: ch, declared: map[string]bool{}}, nil
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	ch := r.pubCh
	r.mu.Unlock()

	return errors.Join(ch.Close(), r.conn.Close())
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (r *RabbitMQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return PublishResult{}, io.ErrClosedPipe
	}
	if !r.declared[destination] {
		if err := declareQueue(r.pubCh, destination); err != nil {
			return PublishResult{}, fmt.Errorf("messaging: rabbitmq declare %s: %w", destination, err)
		}
		r.declared[destination] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    string(msg.Key),
		Timestamp:    time.Now(),
		Body:         msg.Body,
	}
	if len(msg.Headers) > 0 {
		pub.Headers = make(amqp.Table, len(msg.Headers))
		for k, v := range msg.Headers {
			pub.Headers[k] = v
		}
	}

	if err := r.pubCh.PublishWithContext(ctx, "", destination, false, false, pub); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: rabbitmq publish: %w", err)
	}
	return PublishResult{MessageID: pub.MessageId, Topic: destination, Timestamp: pub.Timestamp}, nil
}

// Consume reads the queue source. WithMaxInFlight sets the prefetch count.
// A Nack requeues the message.
func (r *RabbitMQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return io.ErrClosedPipe
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("messaging: rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, source); err != nil {
		return fmt.Errorf("messaging: rabbitmq declare %s: %w", source, err)
	}
	if co.maxInFlight > 0 {
		if err := ch.Qos(co.maxInFlight, 0, false); err != nil {
			return fmt.Errorf("messaging: rabbitmq qos: %w", err)
		}
	}

	deliveries, err := ch.Consume(source, co.group, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("messaging: rabbitmq consume: %w", err)
	}
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	msgCh := make(chan amqp.Delivery)
	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for d := range msgCh {
				_ = handle(ctx, DriverRabbitMQ, handler, rabbitDelivery(d), co.autoAck)
			}
		})
	}

	var consumeErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case amqpErr := <-chClosed:
			consumeErr = fmt.Errorf("messaging: rabbitmq channel closed: %v", amqpErr)
			break loop
		case d, ok := <-deliveries:
			if !ok {
				consumeErr = errors.New("messaging: rabbitmq deliveries closed")
				break loop
			}
			msgCh <- d
		}
	}
	close(msgCh)
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return consumeErr
}

func rabbitDelivery(d amqp.Delivery) *delivery {
	out := &delivery{
		id:         d.MessageId,
		body:       d.Body,
		receivedAt: d.Timestamp,
		ack:        func(context.Context) error { return d.Ack(false) },
		nack:       func(context.Context) error { return d.Nack(false, true) },
	}
	if len(d.Headers) > 0 {
		out.headers = make(map[string]string, len(d.Headers))
		for k, v := range d.Headers {
			if s, ok := v.(string); ok {
				out.headers[k] = s
			}
		}
	}
	return out
}
