package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string, seen *pushPlusRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPushPlusSend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var seen pushPlusRequest
		srv := newServer(t, http.StatusOK, `{"code":200,"msg":"请求成功","data":"abc"}`, &seen)

		resp, err := NewPushPlus(PushPlusConfig{URL: srv.URL}).Send(context.Background(), Message{
			Token:   "0123456789abcdef",
			Title:   "Domain X expires in 7 days",
			Content: "<b>Domain X</b>",
		})

		require.NoError(t, err)
		assert.Equal(t, "abc", resp["data"])
		assert.Equal(t, pushPlusRequest{
			Token:    "0123456789abcdef",
			Title:    "Domain X expires in 7 days",
			Content:  "<b>Domain X</b>",
			Template: "html",
		}, seen)
	})

	t.Run("BusinessCodeIsFailure", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `{"code":903,"msg":"无效的用户令牌"}`, nil)

		resp, err := NewPushPlus(PushPlusConfig{URL: srv.URL}).Send(context.Background(), Message{Token: "bad"})

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 903, perr.Code)
		assert.Equal(t, "无效的用户令牌", perr.Message)
		assert.EqualValues(t, 903, resp["code"])
	})

	t.Run("HTTPStatusIsFailure", func(t *testing.T) {
		srv := newServer(t, http.StatusBadGateway, `upstream down`, nil)

		_, err := NewPushPlus(PushPlusConfig{URL: srv.URL}).Send(context.Background(), Message{Token: "t"})

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	})

	t.Run("RequiresToken", func(t *testing.T) {
		_, err := NewPushPlus(PushPlusConfig{}).Send(context.Background(), Message{Token: " "})

		assert.ErrorIs(t, err, ErrTokenRequired)
	})
}
