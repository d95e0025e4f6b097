package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/throttle"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	ListAssets(ctx context.Context) ([]entity.Asset, error)
	ListOwners(ctx context.Context) ([]entity.Owner, error)
	ListPreferences(ctx context.Context) ([]entity.OwnerPreference, error)

	CreateDispatchLogs(ctx context.Context, logs []entity.DispatchLog) error
	ListDispatchLogs(ctx context.Context, limit int) ([]entity.DispatchLog, error)
	CountDispatchLogsSince(ctx context.Context, since time.Time) ([]entity.DispatchCount, error)
}

// sender delivers one rendered notification and returns the provider
// acknowledgement.
type sender interface {
	Send(ctx context.Context, n entity.Notification) (map[string]any, error)
}

type repoLedger interface {
	Acquire(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) (bool, error)
	MarkSent(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) error
	Release(ctx context.Context, date dateonly.Date, assetID string, ch entity.Channel) error
}

type repoReport interface {
	Save(ctx context.Context, report entity.RunReport) (string, error)
}

type repoEvent interface {
	PublishCheckCompleted(ctx context.Context, report entity.RunReport) error
}

type Usecase struct {
	repoDB      repoDB
	repoMail    sender
	repoChat    sender
	repoLedger  repoLedger
	repoReport  repoReport
	repoEvent   repoEvent
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	validator   validator.Validator
	ins         instrument.Instrumentation
	newThrottle func(time.Duration) throttle.Throttle

	sentCounter   metric.Int64Counter
	failedCounter metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// Dependency wires a Usecase. RepoMail, RepoChat, RepoLedger, RepoReport and
// RepoEvent are optional; a nil value disables that step.
type Dependency struct {
	RepoDB     repoDB
	RepoMail   sender
	RepoChat   sender
	RepoLedger repoLedger
	RepoReport repoReport
	RepoEvent  repoEvent
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	// Throttle builds the spacing between email sends for one run. Defaults
	// to throttle.NewInterval.
	Throttle func(time.Duration) throttle.Throttle
}

func NewExpiry(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}
	newThrottle := dep.Throttle
	if newThrottle == nil {
		newThrottle = throttle.NewInterval
	}

	uc := &Usecase{
		repoDB:      dep.RepoDB,
		repoMail:    dep.RepoMail,
		repoChat:    dep.RepoChat,
		repoLedger:  dep.RepoLedger,
		repoReport:  dep.RepoReport,
		repoEvent:   dep.RepoEvent,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		validator:   dep.Validator,
		ins:         ins,
		newThrottle: newThrottle,
	}
	uc.initMetrics()

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("expiry.usecase").Start(ctx, name)
}

func (s *Usecase) initMetrics() {
	meter := s.ins.Meter("expiry.usecase")

	var err error
	if s.sentCounter, err = meter.Int64Counter("expiry.notifications.sent",
		metric.WithDescription("Notification send attempts that succeeded")); err != nil {
		slog.Warn("failed to create metric", "name", "expiry.notifications.sent", "error", err)
	}
	if s.failedCounter, err = meter.Int64Counter("expiry.notifications.failed",
		metric.WithDescription("Notification send attempts that failed")); err != nil {
		slog.Warn("failed to create metric", "name", "expiry.notifications.failed", "error", err)
	}
	if s.runDuration, err = meter.Float64Histogram("expiry.run.duration",
		metric.WithDescription("Duration of a full check run"), metric.WithUnit("s")); err != nil {
		slog.Warn("failed to create metric", "name", "expiry.run.duration", "error", err)
	}
}

// policy reads the evaluation settings on every call so a config reload takes
// effect on the next run.
func (s *Usecase) policy() Policy {
	p := Policy{
		DefaultNotifyDays: entity.DefaultNotifyDays,
		OverdueLimitDays:  s.cfg.GetInt("modules.expiry.overdue_limit_days"),
	}
	if days := s.cfg.GetIntSlice("modules.expiry.default_notify_days"); len(days) > 0 {
		p.DefaultNotifyDays = days
	}
	return p
}

func (s *Usecase) today() dateonly.Date {
	return dateonly.Of(s.clock.Now())
}
