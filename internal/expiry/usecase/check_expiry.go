package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type CheckExpiryInput struct {
	// Date overrides the evaluation date; today in the configured timezone
	// when zero.
	Date dateonly.Date
	// Source names what triggered the run, for logs.
	Source string
}

// CheckExpiry runs one full cycle: load, decide, dispatch, record. A load
// failure aborts the run; the returned report still carries the log lines
// written so far.
func (s *Usecase) CheckExpiry(ctx context.Context, in CheckExpiryInput) (*entity.RunReport, error) {
	ctx, span := s.startSpan(ctx, "CheckExpiry")
	defer span.End()

	report := &entity.RunReport{
		RunID:     s.uid.Generate(),
		Date:      in.Date,
		StartedAt: s.clock.Now(),
	}
	if report.Date.IsZero() {
		report.Date = s.today()
	}
	span.SetAttributes(
		attribute.Int64("run_id", report.RunID),
		attribute.String("date", report.Date.String()),
		attribute.String("source", in.Source),
	)

	rl := &runLog{}
	defer func() { report.Logs = rl.lines }()

	rl.add(ctx, "Starting check-expiry run %d for %s", report.RunID, report.Date)
	if s.repoMail == nil {
		rl.add(ctx, "ERROR: email provider is not configured")
	} else {
		rl.add(ctx, "Email provider is present")
	}

	notes, issues, err := s.evaluate(ctx, report.Date, rl)
	report.Issues = issues
	if err != nil {
		rl.add(ctx, "FATAL ERROR: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		report.FinishedAt = s.clock.Now()
		return report, err
	}

	d := &dispatcher{
		mail:     s.repoMail,
		chat:     s.repoChat,
		ledger:   s.repoLedger,
		throttle: s.newThrottle(s.emailInterval()),
		date:     report.Date,
		log:      rl,
	}
	report.Details = d.dispatch(ctx, notes)
	report.FinishedAt = s.clock.Now()

	for _, r := range report.Details {
		switch {
		case r.Skipped:
			report.Skipped++
		case r.Failed():
			report.Sent++
			report.Failed++
		default:
			report.Sent++
		}
	}
	rl.add(ctx, "Run %d finished: %d sent, %d failed, %d skipped, %d issues",
		report.RunID, report.Sent, report.Failed, report.Skipped, len(report.Issues))

	s.recordDispatchLogs(ctx, report, rl)
	s.archiveReport(ctx, report, rl)
	s.publishCompleted(ctx, report)
	s.recordMetrics(ctx, report)

	return report, nil
}

// evaluate loads assets and owners and returns the notifications due on
// date. Assets with bad data are left out and reported as issues.
func (s *Usecase) evaluate(ctx context.Context, date dateonly.Date, rl *runLog) ([]entity.Notification, []entity.Issue, error) {
	assets, err := s.repoDB.ListAssets(ctx)
	if err != nil {
		rl.add(ctx, "Error fetching assets: %v", err)
		return nil, nil, goerror.NewBusinessWrap(err, "failed to load assets", goerror.CodeInvalidFormat)
	}
	rl.add(ctx, "Fetched %d assets", len(assets))

	owners, err := s.repoDB.ListOwners(ctx)
	if err != nil {
		rl.add(ctx, "Error fetching owners: %v", err)
		return nil, nil, goerror.NewBusinessWrap(err, "failed to load owners", goerror.CodeInvalidFormat)
	}
	rl.add(ctx, "Fetched %d owners", len(owners))

	prefs, err := s.repoDB.ListPreferences(ctx)
	if err != nil {
		rl.add(ctx, "Error fetching preferences: %v", err)
		return nil, nil, goerror.NewBusinessWrap(err, "failed to load preferences", goerror.CodeInvalidFormat)
	}

	emails := lo.SliceToMap(owners, func(o entity.Owner) (string, string) { return o.ID, o.Email })
	prefByOwner := lo.KeyBy(prefs, func(p entity.OwnerPreference) string { return p.OwnerID })

	policy := s.policy()
	renderer := NewRenderer(s.cfg.GetString("modules.expiry.locale"))

	var notes []entity.Notification
	var issues []entity.Issue
	for _, asset := range assets {
		email := emails[asset.OwnerID]

		rl.add(ctx, "Checking asset: %s (ID: %s)", asset.Name, asset.ID)
		rl.add(ctx, "  Owner ID: %s", asset.OwnerID)
		rl.add(ctx, "  Owner Email: %s", lo.Ternary(email == "", "NOT FOUND", email))
		rl.add(ctx, "  Notification Enabled: %t", asset.NotificationEnabled)
		rl.add(ctx, "  Expiry Date: %s", asset.ExpiryDate)

		if !asset.NotificationEnabled {
			rl.add(ctx, "  Skipping: Notification disabled")
			continue
		}

		if err := s.validator.Validate(asset); err != nil {
			issues = append(issues, issue(asset, "invalid asset: "+err.Error()))
			rl.add(ctx, "  Skipping: Invalid asset record (%v)", err)
			continue
		}

		expiry, err := dateonly.Parse(asset.ExpiryDate)
		if err != nil {
			issues = append(issues, issue(asset, "invalid expiry date: "+asset.ExpiryDate))
			rl.add(ctx, "  Skipping: Invalid expiry date")
			continue
		}

		if email == "" {
			issues = append(issues, issue(asset, "owner email not found"))
			rl.add(ctx, "  Skipping: User email not found")
			continue
		}

		decision, ok := Decide(DecideInput{
			Asset:      asset,
			Expiry:     expiry,
			OwnerEmail: email,
			Preference: prefByOwner[asset.OwnerID],
			Today:      date,
		}, policy)
		rl.add(ctx, "  Days until expiry: %d", dateonly.DaysUntil(date, expiry))
		if !ok {
			rl.add(ctx, "  Not notifying today (lead days: %s)", joinInts(entity.LeadDays(asset, prefByOwner[asset.OwnerID], policy.DefaultNotifyDays)))
			continue
		}

		rendered, err := renderer.Render(decision)
		if err != nil {
			issues = append(issues, issue(asset, "render failed: "+err.Error()))
			slog.ErrorContext(ctx, "failed to render notification", "asset_id", asset.ID, "error", err)
			continue
		}

		rl.add(ctx, "  >>> Adding to notification list")
		if decision.ChatToken == "" {
			rl.add(ctx, "  Skipping chat for %s: No token", asset.Name)
		}
		notes = append(notes, rendered...)
	}

	return notes, issues, nil
}

func (s *Usecase) emailInterval() time.Duration {
	if d := s.cfg.GetMillisecond("modules.expiry.email_interval_ms"); d > 0 {
		return d
	}
	return defaultEmailInterval
}

func (s *Usecase) recordDispatchLogs(ctx context.Context, report *entity.RunReport, rl *runLog) {
	logs := make([]entity.DispatchLog, 0, len(report.Details))
	for _, r := range report.Details {
		if r.Skipped {
			continue
		}
		logs = append(logs, entity.DispatchLog{
			ID:        s.uid.Generate(),
			CreatedAt: report.FinishedAt,
			Channel:   r.Channel,
			Recipient: r.Recipient,
			AssetName: r.AssetName,
			Status:    lo.Ternary(r.Failed(), entity.DispatchStatusFailed, entity.DispatchStatusSuccess),
		})
	}
	if len(logs) == 0 {
		return
	}

	if err := s.repoDB.CreateDispatchLogs(ctx, logs); err != nil {
		slog.ErrorContext(ctx, "failed to repo create dispatch logs", "run_id", report.RunID, "error", err)
		rl.add(ctx, "Error recording dispatch logs: %v", err)
	}
}

func (s *Usecase) archiveReport(ctx context.Context, report *entity.RunReport, rl *runLog) {
	if s.repoReport == nil {
		return
	}

	// the archived copy carries every log line up to this point
	report.Logs = rl.lines
	key, err := s.repoReport.Save(ctx, *report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to archive run report", "run_id", report.RunID, "error", err)
		rl.add(ctx, "Error archiving run report: %v", err)
		return
	}
	rl.add(ctx, "Run report archived at %s", key)
}

func (s *Usecase) publishCompleted(ctx context.Context, report *entity.RunReport) {
	if s.repoEvent == nil {
		return
	}
	if err := s.repoEvent.PublishCheckCompleted(ctx, *report); err != nil {
		slog.ErrorContext(ctx, "failed to publish check completed", "run_id", report.RunID, "error", err)
	}
}

func (s *Usecase) recordMetrics(ctx context.Context, report *entity.RunReport) {
	for _, r := range report.Details {
		if r.Skipped {
			continue
		}
		attrs := metric.WithAttributes(attribute.String("channel", r.Channel.String()))
		if r.Failed() {
			if s.failedCounter != nil {
				s.failedCounter.Add(ctx, 1, attrs)
			}
		} else if s.sentCounter != nil {
			s.sentCounter.Add(ctx, 1, attrs)
		}
	}
	if s.runDuration != nil {
		s.runDuration.Record(ctx, report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
}

func issue(a entity.Asset, reason string) entity.Issue {
	return entity.Issue{AssetID: a.ID, AssetName: a.Name, Reason: reason}
}

func joinInts(xs []int) string {
	return strings.Join(lo.Map(xs, func(x int, _ int) string { return fmt.Sprint(x) }), ", ")
}
