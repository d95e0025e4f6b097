package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// correlationHeaders are read in order; the first usable value wins.
var correlationHeaders = []string{HeaderCorrelationID, HeaderRequestID}

func correlationIDFrom(h http.Header) string {
	for _, name := range correlationHeaders {
		v := h.Get(name)
		if v == "" || strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); len(v) > maxCorrelationIDLen {
			v = v[:maxCorrelationIDLen]
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// middlewareCorrelationID echoes the caller's correlation id, or a fresh one,
// in the response and stores it on the request context for log lines.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := correlationIDFrom(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
