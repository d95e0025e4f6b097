// Package ledger remembers which notifications went out on a given day so a
// re-run of the same date does not repeat them.
package ledger

import (
	"context"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/idempotency"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	KeyPrefix = "expiry:dispatch:"

	defaultLockDuration = 10 * time.Minute
	defaultTTL          = 48 * time.Hour
)

type Ledger struct {
	tracker      idempotency.Idempotency
	lockDuration time.Duration
	ttl          time.Duration
	ins          instrument.Instrumentation
}

// New builds a Ledger. ttl is how long a sent mark is kept; zero means 48h.
func New(tracker idempotency.Idempotency, ttl time.Duration, ins instrument.Instrumentation) *Ledger {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Ledger{tracker: tracker, lockDuration: defaultLockDuration, ttl: ttl, ins: ins}
}

// Key is the tracker key for one asset, channel and day, without KeyPrefix.
func Key(date dateonly.Date, assetID string, ch entity.Channel) string {
	return date.String() + ":" + assetID + ":" + ch.String()
}

func (l *Ledger) startSpan(ctx context.Context, name string, date dateonly.Date, assetID string, ch entity.Channel) (context.Context, trace.Span) {
	ctx, span := l.ins.Tracer("expiry.outbound.ledger").Start(ctx, name)
	span.SetAttributes(
		attribute.String("date", date.String()),
		attribute.String("asset_id", assetID),
		attribute.String("channel", ch.String()),
	)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Acquire claims the send. False means another run holds it or already sent it.
func (l *Ledger) Acquire(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) (_ bool, err error) {
	ctx, span := l.startSpan(ctx, "Acquire", date, assetID, ch)
	defer func() { endSpan(span, err) }()

	state, err := l.tracker.Acquire(ctx, Key(date, assetID, ch), l.lockDuration)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.String("state", state.String()))

	return state == idempotency.StateNone, nil
}

func (l *Ledger) MarkSent(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) (err error) {
	ctx, span := l.startSpan(ctx, "MarkSent", date, assetID, ch)
	defer func() { endSpan(span, err) }()

	return l.tracker.MarkCompleted(ctx, Key(date, assetID, ch), l.ttl)
}

func (l *Ledger) Release(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) (err error) {
	ctx, span := l.startSpan(ctx, "Release", date, assetID, ch)
	defer func() { endSpan(span, err) }()

	return l.tracker.Release(ctx, Key(date, assetID, ch))
}
