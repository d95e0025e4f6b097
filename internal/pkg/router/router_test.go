package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type listResponse struct {
	Items []string `json:"items"`
}

func (listResponse) Meta() map[string]any { return map[string]any{"count": 1} }

func newTestRouter() *Router {
	return NewRouter(Config{UUID: fixedID("cid-generated"), Instrument: instrument.NewNoop()})
}

func serve(r *Router, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterEnvelope(t *testing.T) {
	r := newTestRouter()
	r.GET("/items", func(*Request) (any, error) {
		return listResponse{Items: []string{"a"}}, nil
	})

	rec := serve(r, http.MethodGet, "/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"request has been successfully","data":{"items":["a"]},"meta":{"count":1}}`, rec.Body.String())
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
}

func TestRouterErrors(t *testing.T) {
	r := newTestRouter()
	r.GET("/invalid", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "limit", "too large")
	})
	r.GET("/plain", func(*Request) (any, error) {
		return nil, errors.New("raw failure")
	})
	r.GET("/panic", func(*Request) (any, error) {
		panic("boom")
	})

	t.Run("StructuredError", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/invalid", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"message":"Validation error","error":{"limit":"too large"}}`, rec.Body.String())
	})

	t.Run("UnstructuredErrorIsInternal", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/plain", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	})

	t.Run("PanicIsRecovered", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/panic", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/nope", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouterAny(t *testing.T) {
	r := newTestRouter()
	r.Any("/hook", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(req.Method))
	}))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodOptions, http.MethodDelete} {
		rec := serve(r, method, "/hook", nil)

		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, method, rec.Body.String())
	}
}

func TestRouterKeepsIncomingCorrelationID(t *testing.T) {
	r := newTestRouter()
	var seen string
	r.GET("/cid", func(req *Request) (any, error) {
		seen = instrument.GetCorrelationID(req.Context())
		return map[string]string{}, nil
	})

	rec := serve(r, http.MethodGet, "/cid", http.Header{HeaderRequestID: {"from-proxy"}})

	assert.Equal(t, "from-proxy", seen)
	assert.Equal(t, "from-proxy", rec.Header().Get(HeaderCorrelationID))
}

type deadlineRecorder struct {
	*httptest.ResponseRecorder
	cleared bool
}

func (d *deadlineRecorder) SetWriteDeadline(t time.Time) error {
	d.cleared = t.IsZero()
	return nil
}

func TestRawHandlerCanClearWriteDeadline(t *testing.T) {
	r := newTestRouter()
	var setErr error
	r.Raw(http.MethodPost, "/slow", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		setErr = http.NewResponseController(w).SetWriteDeadline(time.Time{})
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/slow", nil))

	require.NoError(t, setErr)
	assert.True(t, rec.cleared)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestGetQueryInt(t *testing.T) {
	r := newTestRouter()
	r.GET("/q", func(req *Request) (any, error) {
		n, err := req.GetQueryInt("limit")
		if err != nil {
			return nil, err
		}
		return map[string]int{"limit": n}, nil
	})

	rec := serve(r, http.MethodGet, "/q?limit=25", nil)
	var body struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 25, body.Data["limit"])

	rec = serve(r, http.MethodGet, "/q?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Invalid query limit"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
