package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Archive stores run reports as JSON objects under reports/{date}/{runID}.json.
type Archive struct {
	client storage.Storage
	bucket string
	ins    instrument.Instrumentation
}

func New(client storage.Storage, bucket string, ins instrument.Instrumentation) *Archive {
	return &Archive{client: client, bucket: bucket, ins: ins}
}

func ObjectKey(r entity.RunReport) string {
	return fmt.Sprintf("reports/%s/%d.json", r.Date, r.RunID)
}

// Save returns the bucket-qualified location of the stored report.
func (a *Archive) Save(ctx context.Context, r entity.RunReport) (_ string, err error) {
	ctx, span := a.ins.Tracer("expiry.outbound.report").Start(ctx, "Save")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	key := ObjectKey(r)
	span.SetAttributes(attribute.String("bucket", a.bucket), attribute.String("key", key))

	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"run-id": fmt.Sprint(r.RunID),
			"date":   r.Date.String(),
		},
	})
	if err != nil {
		return "", err
	}

	return info.Bucket + "/" + info.Key, nil
}
