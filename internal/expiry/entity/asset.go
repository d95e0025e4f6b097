package entity

import "slices"

// DefaultNotifyDays applies when neither the asset nor its owner sets lead days.
var DefaultNotifyDays = []int{30, 7, 1}

// Asset is a tracked item with an expiry date. ExpiryDate is kept as read
// from storage and parsed by the evaluator, which reports malformed values.
type Asset struct {
	ID                  string `json:"id" validate:"required"`
	OwnerID             string `json:"owner_id" validate:"required"`
	Name                string `json:"name" validate:"required"`
	Type                string `json:"type"`
	ExpiryDate          string `json:"expiry_date" validate:"required"`
	NotificationEnabled bool   `json:"notification_enabled"`
	NotifyDaysOverride  []int  `json:"notify_days_override" validate:"leaddays"`
}

// Owner is an account directory entry.
type Owner struct {
	ID    string
	Email string
}

// OwnerPreference holds per-owner delivery settings.
// NotifyDays is nil when the owner never set it and empty when they turned
// lead-time reminders off.
type OwnerPreference struct {
	OwnerID    string
	ChatToken  string
	NotifyDays []int
}

// LeadDays resolves the lead-time set for asset: a non-empty asset override
// wins, then the owner's setting, then fallback. An owner setting that is
// present but empty means no lead-time reminders; only a nil one falls back.
func LeadDays(asset Asset, pref OwnerPreference, fallback []int) []int {
	switch {
	case len(asset.NotifyDaysOverride) > 0:
		return slices.Clone(asset.NotifyDaysOverride)
	case pref.NotifyDays != nil:
		return append([]int{}, pref.NotifyDays...)
	default:
		return slices.Clone(fallback)
	}
}
