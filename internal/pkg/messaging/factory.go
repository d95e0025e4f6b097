package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNone         = "none"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
	DriverRabbitMQ     = "rabbitmq"
)

var ErrUnknownDriver = errors.New("messaging: unknown driver")

type FactoryOptions struct {
	NSQ      NSQConfig
	Kafka    KafkaConfig
	NATS     NATSConfig
	PubSub   PubSubConfig
	RabbitMQ RabbitMQConfig
}

// NewFromDriver constructs a Messaging implementation by driver name. The
// "none" driver and an empty name return a nil Messaging and no error.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverNone:
		return nil, nil
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverGooglePubSub:
		return NewPubSub(ctx, opts.PubSub)
	case DriverRabbitMQ:
		return NewRabbitMQ(opts.RabbitMQ)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
