package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
)

func (s *DB) CreateDispatchLogs(ctx context.Context, logs []entity.DispatchLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDispatchLogs")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.CopyFrom(ctx,
		pgx.Identifier{"notification_logs"},
		[]string{"id", "created_at", "type", "recipient", "asset_name", "status"},
		pgx.CopyFromSlice(len(logs), func(i int) ([]any, error) {
			l := logs[i]
			return []any{l.ID, l.CreatedAt, l.Channel.LogType(), l.Recipient, l.AssetName, l.Status.String()}, nil
		}),
	)

	return s.mapError(err)
}
