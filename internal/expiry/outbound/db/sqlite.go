package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLite is the single-file variant of DB for local runs. Owners live in a
// plain users table and integer lists are stored as JSON text.
type SQLite struct {
	db  *sqlx.DB
	ins instrument.Instrumentation
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string, ins instrument.Instrumentation) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	s, err := NewSQLite(ctx, db, ins)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite applies the connection pragmas and the schema to an open
// handle. The handle stays owned by the caller.
func NewSQLite(ctx context.Context, db *sqlx.DB, ins instrument.Instrumentation) (*SQLite, error) {
	// sqlite is a single-writer engine and each :memory: connection is its own database
	db.SetMaxOpenConns(1)

	for _, p := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLite{db: db, ins: ins}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("expiry.outbound.db.sqlite").Start(ctx, name)
}

func (s *SQLite) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type sqliteAsset struct {
	ID                  string `db:"id"`
	UserID              string `db:"user_id"`
	Name                string `db:"name"`
	Type                string `db:"type"`
	ExpiryDate          string `db:"expiry_date"`
	NotificationEnabled bool   `db:"notification_enabled"`
	NotifyAdvanceDays   string `db:"notify_advance_days"`
}

type sqliteProfile struct {
	ID            string         `db:"id"`
	WechatWebhook string         `db:"wechat_webhook"`
	NotifyDays    sql.NullString `db:"notify_days"`
}

type sqliteLog struct {
	ID        int64  `db:"id"`
	CreatedAt int64  `db:"created_at"`
	Type      string `db:"type"`
	Recipient string `db:"recipient"`
	AssetName string `db:"asset_name"`
	Status    string `db:"status"`
}

type sqliteCount struct {
	Type   string `db:"type"`
	Status string `db:"status"`
	Count  int    `db:"n"`
}

func (s *SQLite) ListAssets(ctx context.Context) (_ []entity.Asset, err error) {
	ctx, span := s.startSpan(ctx, "ListAssets")
	defer func() { s.endSpan(span, err) }()

	var rows []sqliteAsset
	if err = s.db.SelectContext(ctx, &rows, `SELECT id, user_id, name, type, expiry_date,
		notification_enabled, notify_advance_days FROM assets ORDER BY expiry_date, id`); err != nil {
		return nil, err
	}

	items := make([]entity.Asset, 0, len(rows))
	for _, r := range rows {
		days, err := decodeDays(r.NotifyAdvanceDays)
		if err != nil {
			return nil, fmt.Errorf("asset %s notify_advance_days: %w", r.ID, err)
		}
		if len(days) == 0 {
			days = nil
		}
		items = append(items, entity.Asset{
			ID:                  r.ID,
			OwnerID:             r.UserID,
			Name:                r.Name,
			Type:                r.Type,
			ExpiryDate:          r.ExpiryDate,
			NotificationEnabled: r.NotificationEnabled,
			NotifyDaysOverride:  days,
		})
	}

	return items, nil
}

func (s *SQLite) ListOwners(ctx context.Context) (_ []entity.Owner, err error) {
	ctx, span := s.startSpan(ctx, "ListOwners")
	defer func() { s.endSpan(span, err) }()

	var items []entity.Owner
	err = s.db.SelectContext(ctx, &items, `SELECT id, email FROM users`)
	return items, err
}

func (s *SQLite) ListPreferences(ctx context.Context) (_ []entity.OwnerPreference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer func() { s.endSpan(span, err) }()

	var rows []sqliteProfile
	if err = s.db.SelectContext(ctx, &rows, `SELECT id, wechat_webhook, notify_days FROM profiles`); err != nil {
		return nil, err
	}

	items := make([]entity.OwnerPreference, 0, len(rows))
	for _, r := range rows {
		var days []int
		if r.NotifyDays.Valid {
			days, err = decodeDays(r.NotifyDays.String)
			if err != nil {
				return nil, fmt.Errorf("profile %s notify_days: %w", r.ID, err)
			}
		}
		items = append(items, entity.OwnerPreference{OwnerID: r.ID, ChatToken: r.WechatWebhook, NotifyDays: days})
	}

	return items, nil
}

func (s *SQLite) CreateDispatchLogs(ctx context.Context, logs []entity.DispatchLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDispatchLogs")
	defer func() { s.endSpan(span, err) }()

	if len(logs) == 0 {
		return nil
	}

	rows := make([]sqliteLog, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, sqliteLog{
			ID:        l.ID,
			CreatedAt: l.CreatedAt.UnixMilli(),
			Type:      l.Channel.LogType(),
			Recipient: l.Recipient,
			AssetName: l.AssetName,
			Status:    l.Status.String(),
		})
	}

	_, err = s.db.NamedExecContext(ctx, `INSERT INTO notification_logs
		(id, created_at, type, recipient, asset_name, status)
		VALUES (:id, :created_at, :type, :recipient, :asset_name, :status)`, rows)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return goerror.ErrConflict
	}

	return err
}

func (s *SQLite) ListDispatchLogs(ctx context.Context, limit int) (_ []entity.DispatchLog, err error) {
	ctx, span := s.startSpan(ctx, "ListDispatchLogs")
	defer func() { s.endSpan(span, err) }()

	var rows []sqliteLog
	if err = s.db.SelectContext(ctx, &rows, `SELECT id, created_at, type, recipient, asset_name, status
		FROM notification_logs ORDER BY created_at DESC, id DESC LIMIT ?`, limit); err != nil {
		return nil, err
	}

	items := make([]entity.DispatchLog, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.DispatchLog{
			ID:        r.ID,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
			Channel:   entity.ChannelFromString(r.Type),
			Recipient: r.Recipient,
			AssetName: r.AssetName,
			Status:    entity.DispatchStatusFromString(r.Status),
		})
	}

	return items, nil
}

func (s *SQLite) CountDispatchLogsSince(ctx context.Context, since time.Time) (_ []entity.DispatchCount, err error) {
	ctx, span := s.startSpan(ctx, "CountDispatchLogsSince")
	defer func() { s.endSpan(span, err) }()

	var rows []sqliteCount
	if err = s.db.SelectContext(ctx, &rows, `SELECT type, status, count(*) AS n
		FROM notification_logs WHERE created_at >= ? GROUP BY type, status`, since.UnixMilli()); err != nil {
		return nil, err
	}

	items := make([]entity.DispatchCount, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.DispatchCount{
			Channel: entity.ChannelFromString(r.Type),
			Status:  entity.DispatchStatusFromString(r.Status),
			Count:   r.Count,
		})
	}

	return items, nil
}

// decodeDays keeps "[]" as an empty, non-nil list so callers can tell it
// apart from an unset value.
func decodeDays(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, err
	}
	return days, nil
}
