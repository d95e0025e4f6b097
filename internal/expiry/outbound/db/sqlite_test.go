package db

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := OpenSQLite(context.Background(), ":memory:", instrument.NewNoop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLiteReadsAssetsOwnersAndPreferences(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email) VALUES ('u1', 'a@b.com'), ('u2', '');
		INSERT INTO profiles (id, wechat_webhook, notify_days) VALUES ('u1', 'tok-123456', '[14, 3]');
		INSERT INTO assets (id, user_id, name, type, expiry_date, notification_enabled, notify_advance_days)
		VALUES ('a2', 'u1', 'Cert', 'ca', '2026-05-01', 0, '[]'),
		       ('a1', 'u1', 'Domain X', 'domain', '2026-03-17', 1, '[10,5]');
	`)
	require.NoError(t, err)

	assets, err := s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Asset{
		{ID: "a1", OwnerID: "u1", Name: "Domain X", Type: "domain", ExpiryDate: "2026-03-17", NotificationEnabled: true, NotifyDaysOverride: []int{10, 5}},
		{ID: "a2", OwnerID: "u1", Name: "Cert", Type: "ca", ExpiryDate: "2026-05-01"},
	}, assets)

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.Owner{{ID: "u1", Email: "a@b.com"}, {ID: "u2"}}, owners)

	prefs, err := s.ListPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.OwnerPreference{{OwnerID: "u1", ChatToken: "tok-123456", NotifyDays: []int{14, 3}}}, prefs)
}

func TestSQLiteKeepsEmptyNotifyDaysApartFromUnset(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, notify_days) VALUES ('off', '[]'), ('null', NULL);
		INSERT INTO profiles (id) VALUES ('unset');
	`)
	require.NoError(t, err)

	prefs, err := s.ListPreferences(ctx)
	require.NoError(t, err)

	byID := make(map[string][]int, len(prefs))
	for _, p := range prefs {
		byID[p.OwnerID] = p.NotifyDays
	}
	require.Len(t, byID, 3)
	assert.NotNil(t, byID["off"])
	assert.Empty(t, byID["off"])
	assert.Nil(t, byID["null"])
	assert.Nil(t, byID["unset"])
}

func TestSQLiteRejectsMalformedDays(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (id, notify_days) VALUES ('u1', 'thirty')`)
	require.NoError(t, err)

	_, err = s.ListPreferences(ctx)
	assert.ErrorContains(t, err, "profile u1 notify_days")
}

func TestSQLiteDispatchLogs(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	morning := time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC)
	yesterday := morning.Add(-24 * time.Hour)

	require.NoError(t, s.CreateDispatchLogs(ctx, []entity.DispatchLog{
		{ID: 1, CreatedAt: yesterday, Channel: entity.ChannelEmail, Recipient: "a@b.com", AssetName: "Old", Status: entity.DispatchStatusSuccess},
		{ID: 2, CreatedAt: morning, Channel: entity.ChannelEmail, Recipient: "a@b.com", AssetName: "Domain X", Status: entity.DispatchStatusSuccess},
		{ID: 3, CreatedAt: morning, Channel: entity.ChannelEmail, Recipient: "c@d.com", AssetName: "Cert", Status: entity.DispatchStatusFailed},
		{ID: 4, CreatedAt: morning.Add(time.Minute), Channel: entity.ChannelChat, Recipient: "tok-1...", AssetName: "Domain X", Status: entity.DispatchStatusSuccess},
	}))
	require.NoError(t, s.CreateDispatchLogs(ctx, nil))

	logs, err := s.ListDispatchLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(4), logs[0].ID)
	assert.Equal(t, entity.ChannelChat, logs[0].Channel)
	assert.Equal(t, morning.Add(time.Minute), logs[0].CreatedAt)
	assert.Equal(t, int64(3), logs[1].ID)
	assert.Equal(t, entity.DispatchStatusFailed, logs[1].Status)

	var stored string
	require.NoError(t, s.db.GetContext(ctx, &stored, `SELECT type FROM notification_logs WHERE id = 4`))
	assert.Equal(t, "wechat", stored)

	counts, err := s.CountDispatchLogsSince(ctx, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.DispatchCount{
		{Channel: entity.ChannelEmail, Status: entity.DispatchStatusSuccess, Count: 1},
		{Channel: entity.ChannelEmail, Status: entity.DispatchStatusFailed, Count: 1},
		{Channel: entity.ChannelChat, Status: entity.DispatchStatusSuccess, Count: 1},
	}, counts)

	err = s.CreateDispatchLogs(ctx, []entity.DispatchLog{{ID: 4, CreatedAt: morning, Channel: entity.ChannelEmail, Status: entity.DispatchStatusSuccess}})
	assert.ErrorIs(t, err, goerror.ErrConflict)
}
