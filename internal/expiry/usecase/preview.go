package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
)

type PreviewInput struct {
	Date string `query:"date" validate:"omitempty,dateonly"`
}

type PreviewOutput struct {
	Date          dateonly.Date
	Notifications []entity.Notification
	Issues        []entity.Issue
}

// Preview evaluates every asset for a date without sending anything.
func (s *Usecase) Preview(ctx context.Context, in PreviewInput) (*PreviewOutput, error) {
	ctx, span := s.startSpan(ctx, "Preview")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	date := s.today()
	if in.Date != "" {
		date = dateonly.MustParse(in.Date)
	}

	notes, issues, err := s.evaluate(ctx, date, &runLog{})
	if err != nil {
		slog.ErrorContext(ctx, "failed to evaluate assets for preview", "date", date.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PreviewOutput{Date: date, Notifications: notes, Issues: issues}, nil
}
