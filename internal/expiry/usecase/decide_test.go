package usecase

import (
	"testing"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	today := dateonly.New(2026, 3, 10)
	policy := Policy{DefaultNotifyDays: entity.DefaultNotifyDays}

	input := func(daysFromToday int) DecideInput {
		return DecideInput{
			Asset:      entity.Asset{ID: "a1", OwnerID: "u1", Name: "Domain X", NotificationEnabled: true},
			Expiry:     today.AddDays(daysFromToday),
			OwnerEmail: "a@b.com",
			Today:      today,
		}
	}

	tests := []struct {
		name     string
		in       func() DecideInput
		policy   Policy
		fires    bool
		days     int
		severity entity.Severity
	}{
		{
			name: "DisabledNeverFires",
			in: func() DecideInput {
				in := input(0)
				in.Asset.NotificationEnabled = false
				return in
			},
			policy: policy,
		},
		{
			name: "DisabledOverdueNeverFires",
			in: func() DecideInput {
				in := input(-10)
				in.Asset.NotificationEnabled = false
				return in
			},
			policy: policy,
		},
		{
			name: "NoEmailNeverFires",
			in: func() DecideInput {
				in := input(7)
				in.OwnerEmail = ""
				return in
			},
			policy: policy,
		},
		{name: "SameDayIsDueToday", in: func() DecideInput { return input(0) }, policy: policy, fires: true, days: 0, severity: entity.SeverityDueToday},
		{name: "YesterdayIsOverdue", in: func() DecideInput { return input(-1) }, policy: policy, fires: true, days: -1, severity: entity.SeverityOverdue},
		{name: "FifteenDaysNotInDefaultSet", in: func() DecideInput { return input(15) }, policy: policy},
		{name: "SevenDaysIsUpcoming", in: func() DecideInput { return input(7) }, policy: policy, fires: true, days: 7, severity: entity.SeverityUpcoming},
		{name: "ThirtyDaysIsUpcoming", in: func() DecideInput { return input(30) }, policy: policy, fires: true, days: 30, severity: entity.SeverityUpcoming},
		{
			name: "OwnerDaysReplaceDefault",
			in: func() DecideInput {
				in := input(15)
				in.Preference = entity.OwnerPreference{OwnerID: "u1", NotifyDays: []int{15}}
				return in
			},
			policy: policy, fires: true, days: 15, severity: entity.SeverityUpcoming,
		},
		{
			name: "OwnerDaysExcludeDefault",
			in: func() DecideInput {
				in := input(7)
				in.Preference = entity.OwnerPreference{OwnerID: "u1", NotifyDays: []int{15}}
				return in
			},
			policy: policy,
		},
		{
			name: "OwnerEmptyDaysTurnOffLeadReminders",
			in: func() DecideInput {
				in := input(7)
				in.Preference = entity.OwnerPreference{OwnerID: "u1", NotifyDays: []int{}}
				return in
			},
			policy: policy,
		},
		{
			name: "OwnerEmptyDaysStillFireOverdue",
			in: func() DecideInput {
				in := input(-2)
				in.Preference = entity.OwnerPreference{OwnerID: "u1", NotifyDays: []int{}}
				return in
			},
			policy: policy, fires: true, days: -2, severity: entity.SeverityOverdue,
		},
		{
			name: "OwnerUnsetDaysUseDefault",
			in: func() DecideInput {
				in := input(7)
				in.Preference = entity.OwnerPreference{OwnerID: "u1", ChatToken: "tok-123456"}
				return in
			},
			policy: policy, fires: true, days: 7, severity: entity.SeverityUpcoming,
		},
		{
			name: "AssetOverrideWinsOverOwner",
			in: func() DecideInput {
				in := input(3)
				in.Asset.NotifyDaysOverride = []int{3}
				in.Preference = entity.OwnerPreference{OwnerID: "u1", NotifyDays: []int{15}}
				return in
			},
			policy: policy, fires: true, days: 3, severity: entity.SeverityUpcoming,
		},
		{
			name: "OverdueFiresRegardlessOfSet",
			in: func() DecideInput {
				in := input(-40)
				in.Asset.NotifyDaysOverride = []int{99}
				return in
			},
			policy: policy, fires: true, days: -40, severity: entity.SeverityOverdue,
		},
		{
			name:   "OverdueLimitStopsReminders",
			in:     func() DecideInput { return input(-4) },
			policy: Policy{DefaultNotifyDays: entity.DefaultNotifyDays, OverdueLimitDays: 3},
		},
		{
			name:   "OverdueWithinLimit",
			in:     func() DecideInput { return input(-3) },
			policy: Policy{DefaultNotifyDays: entity.DefaultNotifyDays, OverdueLimitDays: 3},
			fires:  true, days: -3, severity: entity.SeverityOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Decide(tt.in(), tt.policy)

			require.Equal(t, tt.fires, ok)
			if !tt.fires {
				assert.Equal(t, entity.Decision{}, d)
				return
			}
			assert.Equal(t, tt.days, d.DaysUntil)
			assert.Equal(t, tt.severity, d.Severity)
		})
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	today := dateonly.New(2026, 3, 10)
	in := DecideInput{
		Asset:      entity.Asset{ID: "a1", OwnerID: "u1", Name: "CA cert", NotificationEnabled: true},
		Expiry:     today.AddDays(1),
		OwnerEmail: "a@b.com",
		Preference: entity.OwnerPreference{OwnerID: "u1", ChatToken: "tok-123456"},
		Today:      today,
	}
	policy := Policy{DefaultNotifyDays: entity.DefaultNotifyDays}

	first, ok1 := Decide(in, policy)
	second, ok2 := Decide(in, policy)

	assert.True(t, ok1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestDecideDoesNotAliasLeadDays(t *testing.T) {
	today := dateonly.New(2026, 3, 10)
	override := []int{1}
	in := DecideInput{
		Asset:      entity.Asset{ID: "a1", NotificationEnabled: true, NotifyDaysOverride: override},
		Expiry:     today.AddDays(1),
		OwnerEmail: "a@b.com",
		Today:      today,
	}

	d, ok := Decide(in, Policy{})
	require.True(t, ok)
	d.LeadDays[0] = 42

	assert.Equal(t, []int{1}, override)
}
