package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultResendURL is the Resend send-email endpoint.
const DefaultResendURL = "https://api.resend.com/emails"

// ErrResendAPIKeyRequired is returned by NewResend without an API key.
var ErrResendAPIKeyRequired = errors.New("mail: resend api key is required")

// ResendConfig configures the Resend implementation.
type ResendConfig struct {
	// APIKey is sent as a Bearer token.
	APIKey string
	// From is the default sender, e.g. "Reminder <onboarding@resend.dev>".
	From string
	// URL overrides DefaultResendURL.
	URL string
	// Timeout bounds a single request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Resend is a Mail implementation backed by the Resend HTTP API.
type Resend struct {
	apiKey string
	from   string
	url    string
	client *http.Client
}

// NewResend constructs a Resend sender.
func NewResend(cfg ResendConfig) (*Resend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrResendAPIKeyRequired
	}

	url := cfg.URL
	if url == "" {
		url = DefaultResendURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Resend{apiKey: cfg.APIKey, from: cfg.From, url: url, client: client}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send posts msg to Resend. The decoded JSON body is returned on success; a
// non-2xx answer becomes a *ProviderError.
func (r *Resend) Send(ctx context.Context, msg Message) (Response, error) {
	from, err := resolveSender(msg, r.from)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(resendRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
		Text:    msg.TextBody,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mail: resend request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("mail: resend read response: %w", err)
	}

	var out Response
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			out = Response{"raw": string(body)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &ProviderError{Provider: "resend", StatusCode: resp.StatusCode, Message: providerMessage(out, resp.Status)}
	}

	return out, nil
}

// Close implements io.Closer.
func (r *Resend) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func providerMessage(body Response, fallback string) string {
	for _, key := range []string{"message", "error", "raw"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
