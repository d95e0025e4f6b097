// Package chat pushes short HTML messages to instant-messaging relays that
// address a recipient by an opaque per-user token.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrTokenRequired is returned when a message has no recipient token.
var ErrTokenRequired = errors.New("chat: recipient token is required")

// Message is a single push to one recipient token.
type Message struct {
	Token   string
	Title   string
	Content string
}

// Response is the relay acknowledgement, decoded as generic JSON-like data.
type Response map[string]any

// Chat abstracts a push relay.
type Chat interface {
	io.Closer
	Send(ctx context.Context, msg Message) (Response, error)
}

// ProviderError is returned when the relay reports a failure, either through
// the HTTP status or through its own result code.
type ProviderError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("chat: relay rejected message (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}
