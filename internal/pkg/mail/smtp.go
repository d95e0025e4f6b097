package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrSMTPHostPortRequired is returned when Host/Port are missing.
var ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username.
	Username string
	// Password is the SMTP authentication password.
	Password string
	// From is the default sender when Message.From is empty.
	From string
	// InsecureSkipVerify disables certificate checks, for local relays only.
	InsecureSkipVerify bool
}

// SMTP is a Mail implementation backed by gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		//nolint:gosec // opt-in for local relays
		dialer.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host}
	}

	return &SMTP{dialer: dialer, from: cfg.From}, nil
}

// Send delivers msg over a fresh SMTP session. SMTP has no response body, so
// the returned Response records what was handed to the relay.
func (s *SMTP) Send(ctx context.Context, msg Message) (Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from, err := resolveSender(msg, s.from)
	if err != nil {
		return nil, err
	}

	m := buildMessage(from, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return nil, &ProviderError{Provider: "smtp", Message: err.Error()}
	}

	return Response{
		"provider": "smtp",
		"to":       msg.To,
		"sent_at":  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Close implements io.Closer. Sessions are not kept between sends.
func (*SMTP) Close() error {
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m
}
