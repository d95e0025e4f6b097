package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var got resendRequest
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
		}))
		defer srv.Close()

		client, err := NewResend(ResendConfig{APIKey: "re_test", From: "Reminder <onboarding@resend.dev>", URL: srv.URL})
		require.NoError(t, err)

		resp, err := client.Send(context.Background(), Message{
			To:       []string{"a@b.com"},
			Subject:  "[Reminder] Domain X expires in 7 days",
			HTMLBody: "<p>hi</p>",
		})

		require.NoError(t, err)
		assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", resp["id"])
		assert.Equal(t, "Bearer re_test", auth)
		assert.Equal(t, resendRequest{
			From:    "Reminder <onboarding@resend.dev>",
			To:      []string{"a@b.com"},
			Subject: "[Reminder] Domain X expires in 7 days",
			HTML:    "<p>hi</p>",
		}, got)
		assert.NoError(t, client.Close())
	})

	t.Run("ProviderRejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
		}))
		defer srv.Close()

		client, err := NewResend(ResendConfig{APIKey: "re_test", From: "x@y.z", URL: srv.URL})
		require.NoError(t, err)

		resp, err := client.Send(context.Background(), Message{To: []string{"bad"}, Subject: "s"})

		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, http.StatusUnprocessableEntity, perr.StatusCode)
		assert.Equal(t, "Invalid to field", perr.Message)
		assert.Equal(t, "validation_error", resp["name"])
	})

	t.Run("RequiresAPIKey", func(t *testing.T) {
		_, err := NewResend(ResendConfig{APIKey: "  "})

		assert.ErrorIs(t, err, ErrResendAPIKeyRequired)
	})

	t.Run("RequiresRecipient", func(t *testing.T) {
		client, err := NewResend(ResendConfig{APIKey: "k", From: "x@y.z"})
		require.NoError(t, err)

		_, err = client.Send(context.Background(), Message{Subject: "s"})

		assert.ErrorIs(t, err, ErrNoRecipients)
	})
}
