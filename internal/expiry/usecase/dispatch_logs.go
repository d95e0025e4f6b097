package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
)

const defaultDispatchLogLimit = 50

type ListDispatchLogsInput struct {
	Limit int `query:"limit" validate:"gte=0,lte=200"`
}

// ListDispatchLogs returns the newest persisted send attempts first.
func (s *Usecase) ListDispatchLogs(ctx context.Context, in ListDispatchLogsInput) ([]entity.DispatchLog, error) {
	ctx, span := s.startSpan(ctx, "ListDispatchLogs")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	limit := lo.Ternary(in.Limit == 0, defaultDispatchLogLimit, in.Limit)
	logs, err := s.repoDB.ListDispatchLogs(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list dispatch logs", "limit", limit, "error", err)
		return nil, goerror.NewServer(err)
	}

	return logs, nil
}

// DispatchStats counts today's persisted attempts per channel.
func (s *Usecase) DispatchStats(ctx context.Context) (*entity.DispatchStats, error) {
	ctx, span := s.startSpan(ctx, "DispatchStats")
	defer span.End()

	now := s.clock.Now()
	today := dateonly.Of(now)
	since := time.Date(today.Year, today.Month, today.Day, 0, 0, 0, 0, now.Location())

	counts, err := s.repoDB.CountDispatchLogsSince(ctx, since)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count dispatch logs", "since", since, "error", err)
		return nil, goerror.NewServer(err)
	}

	stats := &entity.DispatchStats{Date: today}
	for _, c := range counts {
		switch c.Channel {
		case entity.ChannelEmail:
			stats.Email += c.Count
		case entity.ChannelChat:
			stats.Chat += c.Count
		}
		if c.Status == entity.DispatchStatusFailed {
			stats.Failed += c.Count
		}
	}

	return stats, nil
}
