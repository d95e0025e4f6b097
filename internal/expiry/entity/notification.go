package entity

import (
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
)

// Decision is a positive outcome of evaluating one asset on one date.
type Decision struct {
	Asset      Asset
	OwnerEmail string
	ChatToken  string
	Expiry     dateonly.Date
	DaysUntil  int
	Severity   Severity
	LeadDays   []int
}

// OverdueDays is the number of days past expiry, 0 when not overdue.
func (d Decision) OverdueDays() int {
	if d.DaysUntil >= 0 {
		return 0
	}
	return -d.DaysUntil
}

// Notification is one rendered message for one channel.
type Notification struct {
	AssetID   string   `json:"asset_id"`
	AssetName string   `json:"asset_name"`
	Channel   Channel  `json:"channel"`
	Recipient string   `json:"-"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Severity  Severity `json:"severity"`
	DaysUntil int      `json:"days_until_expiry"`
}

// DispatchResult records one send attempt, or a send skipped because the
// dispatch ledger already saw it today.
type DispatchResult struct {
	Channel   Channel        `json:"channel"`
	Recipient string         `json:"recipient"`
	AssetName string         `json:"asset_name"`
	Response  map[string]any `json:"response,omitempty"`
	Error     string         `json:"error,omitempty"`
	Skipped   bool           `json:"skipped,omitempty"`
}

func (r DispatchResult) Failed() bool {
	return r.Error != "" && !r.Skipped
}

// Issue is a data-integrity problem that kept an asset out of evaluation.
type Issue struct {
	AssetID   string `json:"asset_id"`
	AssetName string `json:"asset_name"`
	Reason    string `json:"reason"`
}

// RunReport summarizes one check run. Sent counts attempts, successful or
// not, excluding skipped sends.
type RunReport struct {
	RunID      int64            `json:"run_id"`
	Date       dateonly.Date    `json:"date"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Sent       int              `json:"sent"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
	Details    []DispatchResult `json:"details"`
	Issues     []Issue          `json:"issues"`
	Logs       []string         `json:"logs"`
}

// DispatchLog is a persisted record of one send attempt.
type DispatchLog struct {
	ID        int64
	CreatedAt time.Time
	Channel   Channel
	Recipient string
	AssetName string
	Status    DispatchStatus
}

// DispatchStats counts today's persisted attempts.
type DispatchStats struct {
	Date   dateonly.Date
	Email  int
	Chat   int
	Failed int
}

// DispatchCount is a grouped count of persisted attempts.
type DispatchCount struct {
	Channel Channel
	Status  DispatchStatus
	Count   int
}
