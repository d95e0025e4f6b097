package entity

import (
	"strings"
)

type Severity int16

const (
	SeverityUnknown  Severity = 0
	SeverityUpcoming Severity = 1
	SeverityDueToday Severity = 2
	SeverityOverdue  Severity = 3
)

// SeverityOf classifies a signed day distance to expiry.
func SeverityOf(daysUntil int) Severity {
	switch {
	case daysUntil > 0:
		return SeverityUpcoming
	case daysUntil == 0:
		return SeverityDueToday
	default:
		return SeverityOverdue
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityUpcoming:
		return "upcoming"
	case SeverityDueToday:
		return "due-today"
	case SeverityOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 1
	ChannelChat    Channel = 2
)

func ChannelFromString(raw string) Channel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "email":
		return ChannelEmail
	case "chat", "wechat":
		return ChannelChat
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelChat:
		return "chat"
	default:
		return "unknown"
	}
}

// LogType is the value stored in the notification log "type" column.
func (c Channel) LogType() string {
	if c == ChannelChat {
		return "wechat"
	}
	return c.String()
}

func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(b []byte) error {
	*c = ChannelFromString(string(b))
	return nil
}

type DispatchStatus int16

const (
	DispatchStatusUnknown DispatchStatus = 0
	DispatchStatusSuccess DispatchStatus = 1
	DispatchStatusFailed  DispatchStatus = 2
)

func DispatchStatusFromString(raw string) DispatchStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return DispatchStatusSuccess
	case "failed":
		return DispatchStatusFailed
	default:
		return DispatchStatusUnknown
	}
}

func (s DispatchStatus) String() string {
	switch s {
	case DispatchStatusSuccess:
		return "success"
	case DispatchStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s DispatchStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
