// Package stacktrace trims goroutine dumps down to this module's own frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/...go:line" locations found in a raw
// stack trace, in the order they appear.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		idx := strings.Index(line, "/internal/")
		if idx < 0 {
			continue
		}

		frame := line[idx+1:]
		if sp := strings.IndexByte(frame, ' '); sp >= 0 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}
	return paths
}
