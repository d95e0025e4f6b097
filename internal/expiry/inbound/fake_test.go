package inbound

import (
	"context"
	"sync"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type fakeUC struct {
	mu     sync.Mutex
	inputs []usecase.CheckExpiryInput
	report *entity.RunReport
	err    error
	block  chan struct{}

	previewIn  usecase.PreviewInput
	preview    *usecase.PreviewOutput
	logsIn     usecase.ListDispatchLogsInput
	logs       []entity.DispatchLog
	stats      *entity.DispatchStats
	queryError error
}

func (f *fakeUC) CheckExpiry(ctx context.Context, in usecase.CheckExpiryInput) (*entity.RunReport, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
	return f.report, f.err
}

func (f *fakeUC) calls() []usecase.CheckExpiryInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]usecase.CheckExpiryInput(nil), f.inputs...)
}

func (f *fakeUC) Preview(_ context.Context, in usecase.PreviewInput) (*usecase.PreviewOutput, error) {
	f.previewIn = in
	return f.preview, f.queryError
}

func (f *fakeUC) ListDispatchLogs(_ context.Context, in usecase.ListDispatchLogsInput) ([]entity.DispatchLog, error) {
	f.logsIn = in
	return f.logs, f.queryError
}

func (f *fakeUC) DispatchStats(context.Context) (*entity.DispatchStats, error) {
	return f.stats, f.queryError
}
