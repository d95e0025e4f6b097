package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultPushPlusURL is the PushPlus send endpoint.
const DefaultPushPlusURL = "http://www.pushplus.plus/send"

const pushPlusOK = 200

// PushPlusConfig configures the PushPlus implementation.
type PushPlusConfig struct {
	// URL overrides DefaultPushPlusURL.
	URL string
	// Template is the PushPlus rendering template; "html" when empty.
	Template string
	// Timeout bounds a single request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// PushPlus is a Chat implementation backed by the PushPlus HTTP API.
type PushPlus struct {
	url      string
	template string
	client   *http.Client
}

// NewPushPlus constructs a PushPlus client.
func NewPushPlus(cfg PushPlusConfig) *PushPlus {
	p := &PushPlus{url: cfg.URL, template: cfg.Template, client: cfg.HTTPClient}
	if p.url == "" {
		p.url = DefaultPushPlusURL
	}
	if p.template == "" {
		p.template = "html"
	}
	if p.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		p.client = &http.Client{Timeout: timeout}
	}
	return p
}

type pushPlusRequest struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Template string `json:"template"`
}

// Send posts msg to PushPlus. A non-2xx status or a body whose "code" is not
// 200 is reported as a *ProviderError alongside the decoded body.
func (p *PushPlus) Send(ctx context.Context, msg Message) (Response, error) {
	if strings.TrimSpace(msg.Token) == "" {
		return nil, ErrTokenRequired
	}

	payload, err := json.Marshal(pushPlusRequest{
		Token:    msg.Token,
		Title:    msg.Title,
		Content:  msg.Content,
		Template: p.template,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat: pushplus request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("chat: pushplus read response: %w", err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		out = Response{"raw": string(body)}
	}

	code := resultCode(out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || code != pushPlusOK {
		msg, _ := out["msg"].(string)
		if msg == "" {
			msg = resp.Status
		}
		return out, &ProviderError{StatusCode: resp.StatusCode, Code: code, Message: msg}
	}

	return out, nil
}

// Close implements io.Closer.
func (p *PushPlus) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func resultCode(body Response) int {
	switch v := body["code"].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
