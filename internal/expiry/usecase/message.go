package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
)

const (
	LocaleZH = "zh"
	LocaleEN = "en"
)

const (
	colorWarning template.CSS = "#D97706"
	colorDanger  template.CSS = "#DC2626"
)

type messageData struct {
	Name        string
	Type        string
	ExpiryDate  string
	StatusLabel string
	Status      string
	StatusColor template.CSS
	Short       string
}

type locale struct {
	subject     func(name string, sev entity.Severity, days int) string
	statusLabel func(sev entity.Severity) string
	status      func(sev entity.Severity, days int) string
	short       func(sev entity.Severity, days int) string
	email       *template.Template
	chat        *template.Template
}

var locales = map[string]locale{
	LocaleZH: {
		subject: func(name string, sev entity.Severity, days int) string {
			switch sev {
			case entity.SeverityUpcoming:
				return fmt.Sprintf("[提醒] %s 还有 %d 天到期", name, days)
			case entity.SeverityDueToday:
				return fmt.Sprintf("[紧急] %s 今天到期！", name)
			default:
				return fmt.Sprintf("[严重过期] %s 已过期 %d 天！", name, days)
			}
		},
		statusLabel: func(sev entity.Severity) string {
			if sev == entity.SeverityUpcoming {
				return "剩余天数："
			}
			return "状态："
		},
		status: func(sev entity.Severity, days int) string {
			switch sev {
			case entity.SeverityUpcoming:
				return fmt.Sprintf("%d 天", days)
			case entity.SeverityDueToday:
				return "今天到期"
			default:
				return fmt.Sprintf("已过期 %d 天", days)
			}
		},
		short: func(sev entity.Severity, days int) string {
			switch sev {
			case entity.SeverityUpcoming:
				return fmt.Sprintf("%d 天", days)
			case entity.SeverityDueToday:
				return "今天到期"
			default:
				return fmt.Sprintf("过期 %d 天", days)
			}
		},
		email: template.Must(template.New("email_zh").Parse(`<div style="font-family: sans-serif; padding: 20px; color: #333;">
  <h1 style="color: #4F46E5;">🔔 资产状态提醒</h1>
  <p>您好，</p>
  <p>您的资产 <strong>{{.Name}}</strong> 需要关注。</p>
  <div style="background: #FEF2F2; color: #991B1B; padding: 15px; border-radius: 8px; margin: 20px 0; display: inline-block;">
    {{.StatusLabel}}<span style="font-weight: bold; font-size: 1.2em; color: {{.StatusColor}};">{{.Status}}</span>
  </div>
{{- if .Type}}
  <p>资产类型：{{.Type}}</p>
{{- end}}
  <p>到期日期：{{.ExpiryDate}}</p>
  <hr style="border: 0; border-top: 1px solid #eee; margin-top: 30px;">
  <p style="font-size: 12px; color: #888;">来自 U盾/CA 提醒助手</p>
</div>`)),
		chat: template.Must(template.New("chat_zh").Parse(
			`您的资产 <b>{{.Name}}</b> 需要关注。<br/>状态：<b style="color:red">{{.Short}}</b><br/>到期日期：{{.ExpiryDate}}`)),
	},
	LocaleEN: {
		subject: func(name string, sev entity.Severity, days int) string {
			switch sev {
			case entity.SeverityUpcoming:
				return fmt.Sprintf("[Reminder] %s expires in %d days", name, days)
			case entity.SeverityDueToday:
				return fmt.Sprintf("[Urgent] %s expires today!", name)
			default:
				return fmt.Sprintf("[Critical] %s overdue by %d days!", name, days)
			}
		},
		statusLabel: func(entity.Severity) string { return "Status: " },
		status:      enStatus,
		short:       enStatus,
		email: template.Must(template.New("email_en").Parse(`<div style="font-family: sans-serif; padding: 20px; color: #333;">
  <h1 style="color: #4F46E5;">🔔 Asset status reminder</h1>
  <p>Hello,</p>
  <p>Your asset <strong>{{.Name}}</strong> needs attention.</p>
  <div style="background: #FEF2F2; color: #991B1B; padding: 15px; border-radius: 8px; margin: 20px 0; display: inline-block;">
    {{.StatusLabel}}<span style="font-weight: bold; font-size: 1.2em; color: {{.StatusColor}};">{{.Status}}</span>
  </div>
{{- if .Type}}
  <p>Asset type: {{.Type}}</p>
{{- end}}
  <p>Expiry date: {{.ExpiryDate}}</p>
  <hr style="border: 0; border-top: 1px solid #eee; margin-top: 30px;">
  <p style="font-size: 12px; color: #888;">Sent by the U-Key/CA reminder assistant</p>
</div>`)),
		chat: template.Must(template.New("chat_en").Parse(
			`Your asset <b>{{.Name}}</b> needs attention.<br/>Status: <b style="color:red">{{.Short}}</b><br/>Expiry date: {{.ExpiryDate}}`)),
	},
}

func enStatus(sev entity.Severity, days int) string {
	switch sev {
	case entity.SeverityUpcoming:
		return fmt.Sprintf("%d days remaining", days)
	case entity.SeverityDueToday:
		return "Expires today"
	default:
		return fmt.Sprintf("Overdue by %d days", days)
	}
}

// Renderer turns decisions into channel messages for one locale.
type Renderer struct {
	loc locale
}

// NewRenderer returns a Renderer for lang, falling back to zh for an
// unknown or empty value.
func NewRenderer(lang string) *Renderer {
	loc, ok := locales[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		loc = locales[LocaleZH]
	}
	return &Renderer{loc: loc}
}

// Render returns the email notification and, when the owner has a chat
// token, the chat notification for d.
func (r *Renderer) Render(d entity.Decision) ([]entity.Notification, error) {
	days := d.DaysUntil
	if d.Severity == entity.SeverityOverdue {
		days = d.OverdueDays()
	}

	color := colorDanger
	if d.Severity == entity.SeverityUpcoming {
		color = colorWarning
	}

	data := messageData{
		Name:        d.Asset.Name,
		Type:        d.Asset.Type,
		ExpiryDate:  d.Expiry.String(),
		StatusLabel: r.loc.statusLabel(d.Severity),
		Status:      r.loc.status(d.Severity, days),
		StatusColor: color,
		Short:       r.loc.short(d.Severity, days),
	}
	subject := r.loc.subject(d.Asset.Name, d.Severity, days)

	emailBody, err := execute(r.loc.email, data)
	if err != nil {
		return nil, err
	}

	out := []entity.Notification{{
		AssetID:   d.Asset.ID,
		AssetName: d.Asset.Name,
		Channel:   entity.ChannelEmail,
		Recipient: d.OwnerEmail,
		Subject:   subject,
		Body:      emailBody,
		Severity:  d.Severity,
		DaysUntil: d.DaysUntil,
	}}

	if d.ChatToken == "" {
		return out, nil
	}

	chatBody, err := execute(r.loc.chat, data)
	if err != nil {
		return nil, err
	}

	return append(out, entity.Notification{
		AssetID:   d.Asset.ID,
		AssetName: d.Asset.Name,
		Channel:   entity.ChannelChat,
		Recipient: d.ChatToken,
		Subject:   subject,
		Body:      chatBody,
		Severity:  d.Severity,
		DaysUntil: d.DaysUntil,
	}), nil
}

func execute(t *template.Template, data messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
