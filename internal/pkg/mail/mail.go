// Package mail sends email through a provider-agnostic interface.
//
// Two providers are available: Resend (HTTP API) and SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("mail: no recipients provided")

// ErrNoSender is returned when neither the message nor the provider has a sender.
var ErrNoSender = errors.New("mail: no sender provided")

// Message represents an email payload.
type Message struct {
	// From is an optional explicit sender; the provider default is used when empty.
	From string
	// To lists required recipients.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the HTML body.
	HTMLBody string
}

// Response is the provider acknowledgement, decoded as generic JSON-like data.
type Response map[string]any

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches msg and returns what the provider acknowledged.
	Send(ctx context.Context, msg Message) (Response, error)
}

// ProviderError is returned when the provider answers with a failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mail: %s responded %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mail: %s: %s", e.Provider, e.Message)
}

func resolveSender(msg Message, fallback string) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	if msg.From != "" {
		return msg.From, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoSender
}
