package inbound

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/shared/event"
)

// RegisterMQConsumer subscribes to check requests when
// modules.expiry.consumer.enabled is set. A failed subscription is retried
// with Fibonacci backoff until ctx is done.
func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc ucRunner,
	ins instrument.Instrumentation,
) {
	if messenger == nil || !cfg.GetBool("modules.expiry.consumer.enabled") {
		return
	}

	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	topic := cfg.GetString("modules.expiry.topics.check_requested")
	if topic == "" {
		topic = event.CheckRequestedDestination
	}
	name := event.CheckRequestedConsumerExpiry

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running job for handling consumer", "consumer", name, "topic", topic)

		b := retry.NewFibonacci(200 * time.Millisecond)
		b = retry.WithCappedDuration(30*time.Second, b)

		return retry.Do(pCtx, b, func(rCtx context.Context) error {
			err := messenger.Consume(rCtx,
				topic,
				mqHandler.CheckRequested,
				messaging.WithChannel(name),
				messaging.WithQueueGroup(name),
				messaging.WithGroup(name),
				messaging.WithSubscription(name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(1),
				messaging.WithMaxInFlight(1),
			)
			if err == nil || errors.Is(err, context.Canceled) || rCtx.Err() != nil {
				return nil
			}

			slog.ErrorContext(rCtx, "consumer stopped, restarting", "consumer", name, "error", err)
			return retry.RetryableError(err)
		})
	})
}
