package usecase

import (
	"slices"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
)

// Policy holds the evaluation settings shared by every asset in a run.
type Policy struct {
	// DefaultNotifyDays applies when neither asset nor owner sets lead days.
	DefaultNotifyDays []int
	// OverdueLimitDays stops overdue reminders this many days after expiry.
	// Zero keeps reminding every day.
	OverdueLimitDays int
}

// DecideInput is everything Decide looks at for one asset.
type DecideInput struct {
	Asset      entity.Asset
	Expiry     dateonly.Date
	OwnerEmail string
	Preference entity.OwnerPreference
	Today      dateonly.Date
}

// Decide reports whether in.Asset is due a notification on in.Today.
//
// A disabled asset or a missing owner email never fires. Otherwise the asset
// fires on the day of expiry, every day after it, and on each day whose
// distance to expiry is one of the effective lead days.
func Decide(in DecideInput, p Policy) (entity.Decision, bool) {
	if !in.Asset.NotificationEnabled {
		return entity.Decision{}, false
	}
	if in.OwnerEmail == "" {
		return entity.Decision{}, false
	}

	days := dateonly.DaysUntil(in.Today, in.Expiry)
	lead := entity.LeadDays(in.Asset, in.Preference, p.DefaultNotifyDays)

	switch {
	case days <= 0:
		if p.OverdueLimitDays > 0 && -days > p.OverdueLimitDays {
			return entity.Decision{}, false
		}
	case !slices.Contains(lead, days):
		return entity.Decision{}, false
	}

	return entity.Decision{
		Asset:      in.Asset,
		OwnerEmail: in.OwnerEmail,
		ChatToken:  in.Preference.ChatToken,
		Expiry:     in.Expiry,
		DaysUntil:  days,
		Severity:   entity.SeverityOf(days),
		LeadDays:   lead,
	}, true
}
