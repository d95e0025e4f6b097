package chat

import (
	"context"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/chat"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Chat struct {
	client chat.Chat
	ins    instrument.Instrumentation
}

func New(client chat.Chat, ins instrument.Instrumentation) *Chat {
	return &Chat{client: client, ins: ins}
}

// Send pushes n to the relay; n.Recipient is the owner's token.
func (c *Chat) Send(ctx context.Context, n entity.Notification) (map[string]any, error) {
	ctx, span := c.ins.Tracer("expiry.outbound.chat").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("asset_id", n.AssetID), attribute.String("severity", n.Severity.String()))

	resp, err := c.client.Send(ctx, chat.Message{
		Token:   n.Recipient,
		Title:   n.Subject,
		Content: n.Body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	return resp, nil
}
