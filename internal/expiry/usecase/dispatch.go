package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/throttle"
)

const defaultEmailInterval = time.Second

// dispatcher sends rendered notifications one at a time: every email first,
// spaced by the throttle, then every chat message. A failed send is recorded
// and never stops the rest.
type dispatcher struct {
	mail     sender
	chat     sender
	ledger   repoLedger
	throttle throttle.Throttle
	date     dateonly.Date
	log      *runLog
}

func (d *dispatcher) dispatch(ctx context.Context, notes []entity.Notification) []entity.DispatchResult {
	var emails, chats []entity.Notification
	for _, n := range notes {
		switch n.Channel {
		case entity.ChannelEmail:
			emails = append(emails, n)
		case entity.ChannelChat:
			chats = append(chats, n)
		}
	}

	results := make([]entity.DispatchResult, 0, len(notes))

	switch {
	case d.mail == nil:
		d.log.add(ctx, "Skipping email: No API Key")
	case len(emails) == 0:
		d.log.add(ctx, "Skipping email: No notifications to send")
	default:
		for _, n := range emails {
			d.log.add(ctx, "Sending email to %s for %s...", n.Recipient, n.AssetName)
			results = append(results, d.send(ctx, d.mail, d.throttle, n, n.Recipient))
		}
	}

	if d.chat == nil && len(chats) > 0 {
		d.log.add(ctx, "Skipping chat: No chat provider configured")
		return results
	}

	for _, n := range chats {
		masked := maskToken(n.Recipient)
		d.log.add(ctx, "Sending chat to token %s", masked)
		results = append(results, d.send(ctx, d.chat, nil, n, masked))
	}

	return results
}

// send claims the ledger key before waiting on pace, so a send the ledger
// skips never costs a throttle slot. A nil pace sends right away.
func (d *dispatcher) send(ctx context.Context, s sender, pace throttle.Throttle, n entity.Notification, recipient string) entity.DispatchResult {
	if d.ledger != nil {
		acquired, err := d.ledger.Acquire(ctx, d.date, n.AssetID, n.Channel)
		if err != nil {
			slog.WarnContext(ctx, "dispatch ledger unavailable, sending anyway", "asset_id", n.AssetID, "channel", n.Channel.String(), "error", err)
		} else if !acquired {
			d.log.add(ctx, "Skipping %s for %s: already sent on %s", n.Channel, n.AssetName, d.date)
			return entity.DispatchResult{Channel: n.Channel, Recipient: recipient, AssetName: n.AssetName, Skipped: true}
		}
	}

	if pace != nil {
		if err := pace.Wait(ctx); err != nil {
			d.release(ctx, n)
			return d.failure(ctx, n, recipient, err)
		}
	}

	resp, err := s.Send(ctx, n)
	if err != nil {
		d.release(ctx, n)
		res := d.failure(ctx, n, recipient, err)
		res.Response = resp
		return res
	}

	d.log.add(ctx, "%s response: %s", titleOf(n.Channel), encode(resp))
	if d.ledger != nil {
		if err := d.ledger.MarkSent(ctx, d.date, n.AssetID, n.Channel); err != nil {
			slog.WarnContext(ctx, "failed to mark dispatch as sent", "asset_id", n.AssetID, "channel", n.Channel.String(), "error", err)
		}
	}

	return entity.DispatchResult{Channel: n.Channel, Recipient: recipient, AssetName: n.AssetName, Response: resp}
}

func (d *dispatcher) release(ctx context.Context, n entity.Notification) {
	if d.ledger == nil {
		return
	}
	if err := d.ledger.Release(ctx, d.date, n.AssetID, n.Channel); err != nil {
		slog.WarnContext(ctx, "failed to release dispatch ledger key", "asset_id", n.AssetID, "channel", n.Channel.String(), "error", err)
	}
}

func (d *dispatcher) failure(ctx context.Context, n entity.Notification, recipient string, err error) entity.DispatchResult {
	d.log.add(ctx, "%s to %s for %s failed: %v", titleOf(n.Channel), recipient, n.AssetName, err)
	return entity.DispatchResult{Channel: n.Channel, Recipient: recipient, AssetName: n.AssetName, Error: err.Error()}
}

func titleOf(ch entity.Channel) string {
	if ch == entity.ChannelChat {
		return "Chat"
	}
	return "Email"
}

// maskToken keeps the first five characters of a chat token.
func maskToken(token string) string {
	r := []rune(token)
	if len(r) > 5 {
		r = r[:5]
	}
	return string(r) + "..."
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unencodable>"
	}
	return string(b)
}
