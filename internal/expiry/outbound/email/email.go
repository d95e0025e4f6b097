package email

import (
	"context"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	from   string
	ins    instrument.Instrumentation
}

// New wraps client. An empty from leaves the provider default sender in place.
func New(client mail.Mail, from string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, from: from, ins: ins}
}

func (m *Mail) Send(ctx context.Context, n entity.Notification) (map[string]any, error) {
	ctx, span := m.ins.Tracer("expiry.outbound.email").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("asset_id", n.AssetID), attribute.String("severity", n.Severity.String()))

	resp, err := m.client.Send(ctx, mail.Message{
		From:     m.from,
		To:       []string{n.Recipient},
		Subject:  n.Subject,
		HTMLBody: n.Body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	return resp, nil
}
