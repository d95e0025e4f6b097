package inbound

import (
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
)

type CheckExpiryResponse struct {
	RunID   int64                   `json:"run_id"`
	Date    string                  `json:"date"`
	Sent    int                     `json:"sent"`
	Failed  int                     `json:"failed"`
	Skipped int                     `json:"skipped"`
	Details []entity.DispatchResult `json:"details"`
	Issues  []entity.Issue          `json:"issues"`
	Logs    []string                `json:"logs"`
}

type CheckExpiryErrorResponse struct {
	Error string   `json:"error"`
	Logs  []string `json:"logs"`
}

type DispatchLogResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	AssetName string    `json:"asset_name"`
	Status    string    `json:"status"`
}

type DispatchLogsResponse struct {
	Logs []DispatchLogResponse `json:"logs"`
}

func (r DispatchLogsResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Logs)}
}

type DispatchStatsResponse struct {
	Date   string `json:"date"`
	Email  int    `json:"email"`
	Chat   int    `json:"chat"`
	Failed int    `json:"failed"`
}

type PreviewNotificationResponse struct {
	AssetID   string `json:"asset_id"`
	AssetName string `json:"asset_name"`
	Channel   string `json:"channel"`
	Subject   string `json:"subject"`
	Severity  string `json:"severity"`
	DaysUntil int    `json:"days_until_expiry"`
}

type PreviewResponse struct {
	Date          string                        `json:"date"`
	Notifications []PreviewNotificationResponse `json:"notifications"`
	Issues        []entity.Issue                `json:"issues"`
}
