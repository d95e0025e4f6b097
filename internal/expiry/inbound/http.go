package inbound

import (
	"net/http"

	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
)

// TriggerPath keeps the path external schedulers were already configured with.
const TriggerPath = "/functions/v1/check-expiry"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.Any(TriggerPath, http.HandlerFunc(end.CheckExpiry))

	r.GET("/api/v1/expiry/logs", end.ListDispatchLogs)
	r.GET("/api/v1/expiry/stats", end.DispatchStats)
	r.GET("/api/v1/expiry/preview", end.Preview)
}
