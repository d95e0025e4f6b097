package inbound

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
)

var triggerCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
}

type HTTPEndpoint struct {
	uc uc
}

// CheckExpiry runs a full check for today, or for the date in the optional
// "date" query. OPTIONS answers the CORS preflight without running. The
// request body is ignored.
// @Summary Run expiry check
// @Description Evaluates every asset for the run date and sends the due email and chat reminders.
// @Tags Expiry
// @Produce json
// @Param date query string false "Run date as YYYY-MM-DD, defaults to today"
// @Success 200 {object} CheckExpiryResponse
// @Failure 400 {object} CheckExpiryErrorResponse "Invalid date or failed run"
// @Router /functions/v1/check-expiry [post]
// @Router /functions/v1/check-expiry [get]
func (h *HTTPEndpoint) CheckExpiry(w http.ResponseWriter, r *http.Request) {
	for k, v := range triggerCORSHeaders {
		w.Header().Set(k, v)
	}

	if r.Method == http.MethodOptions {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	// A run spaces its emails out, so it may outlast the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	var in usecase.CheckExpiryInput
	in.Source = "http"
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err := dateonly.Parse(raw)
		if err != nil {
			router.WriteJSON(w, CheckExpiryErrorResponse{Error: err.Error(), Logs: []string{}}, http.StatusBadRequest)
			return
		}
		in.Date = date
	}

	report, err := h.uc.CheckExpiry(r.Context(), in)
	if err != nil {
		logs := []string{}
		if report != nil && report.Logs != nil {
			logs = report.Logs
		}
		router.WriteJSON(w, CheckExpiryErrorResponse{Error: err.Error(), Logs: logs}, http.StatusBadRequest)
		return
	}

	router.WriteJSON(w, CheckExpiryResponse{
		RunID:   report.RunID,
		Date:    report.Date.String(),
		Sent:    report.Sent,
		Failed:  report.Failed,
		Skipped: report.Skipped,
		Details: orEmpty(report.Details),
		Issues:  orEmpty(report.Issues),
		Logs:    orEmpty(report.Logs),
	}, http.StatusOK)
}

// ListDispatchLogs returns the newest send attempts, 50 unless "limit" says otherwise.
// @Summary List dispatch logs
// @Description Returns the newest email and chat send attempts, newest first.
// @Tags Expiry
// @Produce json
// @Param limit query int false "Maximum rows, defaults to 50"
// @Success 200 {object} router.successResponse{data=DispatchLogsResponse}
// @Failure 400 {object} router.errorResponse "Invalid limit"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/expiry/logs [get]
func (h *HTTPEndpoint) ListDispatchLogs(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt("limit")
	if err != nil {
		return nil, err
	}

	logs, err := h.uc.ListDispatchLogs(r.Context(), usecase.ListDispatchLogsInput{Limit: limit})
	if err != nil {
		return nil, err
	}

	resp := make([]DispatchLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, DispatchLogResponse{
			ID:        strconv.FormatInt(l.ID, 10),
			CreatedAt: l.CreatedAt,
			Type:      l.Channel.LogType(),
			Recipient: l.Recipient,
			AssetName: l.AssetName,
			Status:    l.Status.String(),
		})
	}

	return DispatchLogsResponse{Logs: resp}, nil
}

// DispatchStats counts today's send attempts per channel.
// @Summary Dispatch stats
// @Description Counts successful email and chat sends and failed attempts since midnight.
// @Tags Expiry
// @Produce json
// @Success 200 {object} router.successResponse{data=DispatchStatsResponse}
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/expiry/stats [get]
func (h *HTTPEndpoint) DispatchStats(r *router.Request) (any, error) {
	stats, err := h.uc.DispatchStats(r.Context())
	if err != nil {
		return nil, err
	}

	return DispatchStatsResponse{
		Date:   stats.Date.String(),
		Email:  stats.Email,
		Chat:   stats.Chat,
		Failed: stats.Failed,
	}, nil
}

// Preview shows what a run would send on "date" (default today) without sending.
// @Summary Preview run
// @Description Lists the notifications a run would send on the given date without sending them.
// @Tags Expiry
// @Produce json
// @Param date query string false "Run date as YYYY-MM-DD, defaults to today"
// @Success 200 {object} router.successResponse{data=PreviewResponse}
// @Failure 422 {object} router.errorResponse "Invalid date"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/expiry/preview [get]
func (h *HTTPEndpoint) Preview(r *router.Request) (any, error) {
	out, err := h.uc.Preview(r.Context(), usecase.PreviewInput{Date: r.GetQuery("date")})
	if err != nil {
		return nil, err
	}

	notes := make([]PreviewNotificationResponse, 0, len(out.Notifications))
	for _, n := range out.Notifications {
		notes = append(notes, PreviewNotificationResponse{
			AssetID:   n.AssetID,
			AssetName: n.AssetName,
			Channel:   n.Channel.String(),
			Subject:   n.Subject,
			Severity:  n.Severity.String(),
			DaysUntil: n.DaysUntil,
		})
	}

	return PreviewResponse{
		Date:          out.Date.String(),
		Notifications: notes,
		Issues:        orEmpty(out.Issues),
	}, nil
}

func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
