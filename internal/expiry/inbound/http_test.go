package inbound

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/expiry/usecase"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(uc *fakeUC) *router.Router {
	r := router.NewRouter(router.Config{UUID: fixedID("cid"), Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, uc)
	return r
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

type deadlineRecorder struct {
	*httptest.ResponseRecorder
	cleared bool
}

func (d *deadlineRecorder) SetWriteDeadline(t time.Time) error {
	d.cleared = t.IsZero()
	return nil
}

func TestCheckExpiryEndpoint(t *testing.T) {
	t.Run("Preflight", func(t *testing.T) {
		uc := &fakeUC{}
		rec := do(newTestServer(uc), http.MethodOptions, TriggerPath)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Empty(t, uc.calls())
	})

	t.Run("AnyMethodRuns", func(t *testing.T) {
		uc := &fakeUC{report: &entity.RunReport{
			RunID: 9,
			Date:  dateonly.New(2026, time.March, 10),
			Sent:  1,
			Details: []entity.DispatchResult{
				{Channel: entity.ChannelEmail, Recipient: "a@b.com", AssetName: "Domain X", Response: map[string]any{"id": "re_1"}},
			},
			Logs: []string{"Sending email to a@b.com for Domain X..."},
		}}
		srv := newTestServer(uc)

		for _, method := range []string{http.MethodPost, http.MethodGet} {
			rec := do(srv, method, TriggerPath)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.JSONEq(t, `{
				"run_id": 9, "date": "2026-03-10", "sent": 1, "failed": 0, "skipped": 0,
				"details": [{"channel":"email","recipient":"a@b.com","asset_name":"Domain X","response":{"id":"re_1"}}],
				"issues": [],
				"logs": ["Sending email to a@b.com for Domain X..."]
			}`, rec.Body.String())
		}

		calls := uc.calls()
		require.Len(t, calls, 2)
		assert.True(t, calls[0].Date.IsZero())
		assert.Equal(t, "http", calls[0].Source)
	})

	t.Run("RunIsNotBoundByServerWriteTimeout", func(t *testing.T) {
		uc := &fakeUC{report: &entity.RunReport{}}
		rec := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}
		newTestServer(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, TriggerPath, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, rec.cleared)
	})

	t.Run("DateQuery", func(t *testing.T) {
		uc := &fakeUC{report: &entity.RunReport{}}
		rec := do(newTestServer(uc), http.MethodPost, TriggerPath+"?date=2026-04-01")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, dateonly.New(2026, time.April, 1), uc.calls()[0].Date)
	})

	t.Run("BadDateQuery", func(t *testing.T) {
		uc := &fakeUC{}
		rec := do(newTestServer(uc), http.MethodPost, TriggerPath+"?date=tomorrow")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"logs":[]`)
		assert.Empty(t, uc.calls())
	})

	t.Run("LoadFailure", func(t *testing.T) {
		uc := &fakeUC{
			report: &entity.RunReport{Logs: []string{"Error fetching assets: connection refused"}},
			err:    goerror.NewBusinessWrap(errors.New("connection refused"), "failed to load assets", goerror.CodeInvalidFormat),
		}
		rec := do(newTestServer(uc), http.MethodPost, TriggerPath)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.JSONEq(t, `{"error":"connection refused","logs":["Error fetching assets: connection refused"]}`, rec.Body.String())
	})
}

func TestDispatchLogEndpoints(t *testing.T) {
	at := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Logs", func(t *testing.T) {
		uc := &fakeUC{logs: []entity.DispatchLog{
			{ID: 12, CreatedAt: at, Channel: entity.ChannelChat, Recipient: "tok-1...", AssetName: "Domain X", Status: entity.DispatchStatusFailed},
		}}
		rec := do(newTestServer(uc), http.MethodGet, "/api/v1/expiry/logs?limit=5")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, uc.logsIn.Limit)
		assert.JSONEq(t, `{
			"message": "request has been successfully",
			"data": {"logs": [{"id":"12","created_at":"2026-03-10T09:00:00Z","type":"wechat","recipient":"tok-1...","asset_name":"Domain X","status":"failed"}]},
			"meta": {"count": 1}
		}`, rec.Body.String())
	})

	t.Run("LogsBadLimit", func(t *testing.T) {
		uc := &fakeUC{}
		rec := do(newTestServer(uc), http.MethodGet, "/api/v1/expiry/logs?limit=many")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Stats", func(t *testing.T) {
		uc := &fakeUC{stats: &entity.DispatchStats{Date: dateonly.New(2026, time.March, 10), Email: 3, Chat: 1, Failed: 1}}
		rec := do(newTestServer(uc), http.MethodGet, "/api/v1/expiry/stats")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"request has been successfully","data":{"date":"2026-03-10","email":3,"chat":1,"failed":1}}`, rec.Body.String())
	})

	t.Run("Preview", func(t *testing.T) {
		uc := &fakeUC{preview: &usecase.PreviewOutput{
			Date: dateonly.New(2026, time.March, 10),
			Notifications: []entity.Notification{{
				AssetID: "a1", AssetName: "Domain X", Channel: entity.ChannelEmail, Recipient: "a@b.com",
				Subject: "[Reminder] Domain X expires in 7 days", Severity: entity.SeverityUpcoming, DaysUntil: 7,
			}},
		}}
		rec := do(newTestServer(uc), http.MethodGet, "/api/v1/expiry/preview?date=2026-03-10")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2026-03-10", uc.previewIn.Date)
		assert.JSONEq(t, `{"message":"request has been successfully","data":{
			"date":"2026-03-10",
			"notifications":[{"asset_id":"a1","asset_name":"Domain X","channel":"email","subject":"[Reminder] Domain X expires in 7 days","severity":"upcoming","days_until_expiry":7}],
			"issues":[]
		}}`, rec.Body.String())
	})

	t.Run("ServerError", func(t *testing.T) {
		uc := &fakeUC{queryError: goerror.NewServer(errors.New("db down"))}
		rec := do(newTestServer(uc), http.MethodGet, "/api/v1/expiry/stats")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
