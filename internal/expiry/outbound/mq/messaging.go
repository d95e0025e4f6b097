package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client      messaging.Publisher
	destination string
	ins         instrument.Instrumentation
}

// NewMessaging builds the publisher. An empty destination falls back to
// event.CheckCompletedDestination.
func NewMessaging(client messaging.Publisher, destination string, ins instrument.Instrumentation) *Messaging {
	if destination == "" {
		destination = event.CheckCompletedDestination
	}
	return &Messaging{client: client, destination: destination, ins: ins}
}

func (m *Messaging) PublishCheckCompleted(ctx context.Context, r entity.RunReport) error {
	ctx, span := m.ins.Tracer("expiry.outbound.mq").Start(ctx, "PublishCheckCompleted")
	defer span.End()

	body, err := json.Marshal(event.CheckCompletedMessage{
		RunID:      r.RunID,
		Date:       r.Date.String(),
		Sent:       r.Sent,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
		Issues:     len(r.Issues),
		FinishedAt: r.FinishedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, m.destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(r.RunID, 10)),
		Headers: map[string]string{keyOfCorrelationID: cID},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
