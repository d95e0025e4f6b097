package inbound

import (
	"context"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
)

type ucRunner interface {
	CheckExpiry(ctx context.Context, in usecase.CheckExpiryInput) (*entity.RunReport, error)
}

type uc interface {
	ucRunner

	Preview(ctx context.Context, in usecase.PreviewInput) (*usecase.PreviewOutput, error)
	ListDispatchLogs(ctx context.Context, in usecase.ListDispatchLogsInput) ([]entity.DispatchLog, error)
	DispatchStats(ctx context.Context) (*entity.DispatchStats, error)
}
