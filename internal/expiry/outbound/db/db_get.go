package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
)

const (
	queryListAssets = `SELECT id::text, user_id::text, name, coalesce(type, ''),
	coalesce(to_char(expiry_date, 'YYYY-MM-DD'), ''), coalesce(notification_enabled, true),
	coalesce(notify_advance_days, '{}')
FROM assets
ORDER BY expiry_date, id`

	queryListOwners = `SELECT id::text, coalesce(email, '') FROM auth.users`

	queryListPreferences = `SELECT id::text, coalesce(wechat_webhook, ''), notify_days IS NOT NULL, coalesce(notify_days, '{}')
FROM profiles`

	queryListDispatchLogs = `SELECT id, created_at, type, recipient, asset_name, status
FROM notification_logs
ORDER BY created_at DESC, id DESC
LIMIT $1`

	queryCountDispatchLogsSince = `SELECT type, status, count(*)
FROM notification_logs
WHERE created_at >= $1
GROUP BY type, status`
)

func (s *DB) ListAssets(ctx context.Context) (_ []entity.Asset, err error) {
	ctx, span := s.startSpan(ctx, "ListAssets")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListAssets)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Asset, error) {
		var a entity.Asset
		var days []int32
		err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Type, &a.ExpiryDate, &a.NotificationEnabled, &days)
		a.NotifyDaysOverride = toInts(days)
		return a, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) ListOwners(ctx context.Context) (_ []entity.Owner, err error) {
	ctx, span := s.startSpan(ctx, "ListOwners")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListOwners)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Owner, error) {
		var o entity.Owner
		err := row.Scan(&o.ID, &o.Email)
		return o, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) ListPreferences(ctx context.Context) (_ []entity.OwnerPreference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListPreferences)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.OwnerPreference, error) {
		var p entity.OwnerPreference
		var set bool
		var days []int32
		err := row.Scan(&p.OwnerID, &p.ChatToken, &set, &days)
		if set {
			p.NotifyDays = lo.Map(days, func(d int32, _ int) int { return int(d) })
		}
		return p, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) ListDispatchLogs(ctx context.Context, limit int) (_ []entity.DispatchLog, err error) {
	ctx, span := s.startSpan(ctx, "ListDispatchLogs")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListDispatchLogs, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DispatchLog, error) {
		var l entity.DispatchLog
		var typ, status string
		err := row.Scan(&l.ID, &l.CreatedAt, &typ, &l.Recipient, &l.AssetName, &status)
		l.Channel = entity.ChannelFromString(typ)
		l.Status = entity.DispatchStatusFromString(status)
		return l, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) CountDispatchLogsSince(ctx context.Context, since time.Time) (_ []entity.DispatchCount, err error) {
	ctx, span := s.startSpan(ctx, "CountDispatchLogsSince")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryCountDispatchLogsSince, since)
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DispatchCount, error) {
		var c entity.DispatchCount
		var typ, status string
		var n int64
		err := row.Scan(&typ, &status, &n)
		c.Channel = entity.ChannelFromString(typ)
		c.Status = entity.DispatchStatusFromString(status)
		c.Count = int(n)
		return c, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func toInts(days []int32) []int {
	if len(days) == 0 {
		return nil
	}
	return lo.Map(days, func(d int32, _ int) int { return int(d) })
}
