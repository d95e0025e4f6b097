package expiry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/inbound"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/mail"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMail struct {
	got []mail.Message
}

func (*recordingMail) Close() error { return nil }

func (r *recordingMail) Send(_ context.Context, msg mail.Message) (mail.Response, error) {
	r.got = append(r.got, msg)
	return mail.Response{"id": "re_1"}, nil
}

const testConfig = `
mail:
  from: "Reminder <noreply@example.com>"
modules:
  expiry:
    locale: en
    email_interval_ms: 1
`

func newTestDependency(t *testing.T) Dependency {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	snow, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	ins := instrument.NewNoop()
	return Dependency{
		Ctx:        context.Background(),
		Config:     cfg,
		Instrument: ins,
		UID:        snow,
		UUID:       uid.NewUUID(),
		Clock:      clock.NewFixed(time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)),
		Goroutine:  goroutine.NewManager(2),
		Validator:  v,
		Router:     router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: ins}),
	}
}

func TestNewRequiresDatabase(t *testing.T) {
	err := New(newTestDependency(t))

	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestNewServesCheckOnSQLite(t *testing.T) {
	ctx := context.Background()

	conn, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	mailer := &recordingMail{}
	dep := newTestDependency(t)
	dep.SQLiteConn = conn
	dep.Mail = mailer

	require.NoError(t, New(dep))

	_, err = conn.ExecContext(ctx, `
		INSERT INTO users (id, email) VALUES ('u1', 'a@b.com');
		INSERT INTO assets (id, user_id, name, type, expiry_date, notification_enabled, notify_advance_days)
		VALUES ('a1', 'u1', 'Domain X', 'domain', '2026-03-17', 1, '[]'),
		       ('a2', 'u1', 'Cert', 'ca', '2026-03-20', 1, '[]');
	`)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	dep.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, inbound.TriggerPath, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp inbound.CheckExpiryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 0, resp.Failed)

	require.Len(t, mailer.got, 1)
	assert.Equal(t, []string{"a@b.com"}, mailer.got[0].To)
	assert.Equal(t, "Reminder <noreply@example.com>", mailer.got[0].From)

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM notification_logs WHERE type = 'email' AND status = 'success'`))
	assert.Equal(t, 1, count)
}
