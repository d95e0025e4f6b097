package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucRunner
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers map[string]string) context.Context {
	if cID := headers[keyOfCorrelationID]; cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// CheckRequested runs a check for the requested date. Malformed payloads are
// dropped; a failed run is returned so the broker redelivers it.
func (h *MQHandler) CheckRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("expiry.inbound.mq").Start(ctx, "CheckRequested")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: expiry check requested", "msg_body", string(body))

	var payload event.CheckRequestedMessage
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			slog.ErrorContext(ctx, "failed to parse message body of expiry check requested", "msg_body", string(body), "error", err)
			return nil
		}
	}

	in := usecase.CheckExpiryInput{Source: "mq"}
	if payload.Source != "" {
		in.Source = "mq:" + payload.Source
	}
	if payload.Date != "" {
		date, err := dateonly.Parse(payload.Date)
		if err != nil {
			slog.ErrorContext(ctx, "invalid date in expiry check requested", "date", payload.Date, "error", err)
			return nil
		}
		in.Date = date
	}

	report, err := h.uc.CheckExpiry(ctx, in)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run expiry check", "msg_body", string(body), "error", err)
		return err
	}

	slog.InfoContext(ctx, "expiry check finished", "run_id", report.RunID, "sent", report.Sent, "failed", report.Failed)
	return nil
}
