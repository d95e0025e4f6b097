package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/assetexpiry/internal/pkg/stacktrace"
)

// handle runs handler on msg, turning a panic into an error, and responds to
// the broker when autoAck is set and the handler did not respond itself.
func handle(ctx context.Context, driver string, handler Handler, msg *delivery, autoAck bool) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}

		if !autoAck || msg.responded.Load() {
			return
		}
		var rerr error
		if err == nil {
			rerr = msg.Ack(ctx)
		} else {
			rerr = msg.Nack(ctx)
		}
		if rerr != nil {
			slog.WarnContext(ctx, "failed to respond to message", "driver", driver, "id", msg.id, "error", rerr)
		}
	}()

	return handler(ctx, msg)
}
