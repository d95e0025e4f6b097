package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// runLog is the human-readable trace returned to whoever triggered a run.
// Every line is also written to the structured log.
type runLog struct {
	lines []string
}

func (l *runLog) add(ctx context.Context, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.lines = append(l.lines, line)
	slog.InfoContext(ctx, line)
}
