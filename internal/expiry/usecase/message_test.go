package usecase

import (
	"testing"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decisionFor(name string, days int, token string) entity.Decision {
	today := dateonly.New(2026, 3, 10)
	return entity.Decision{
		Asset:      entity.Asset{ID: "a1", Name: name, Type: "domain", NotificationEnabled: true},
		OwnerEmail: "a@b.com",
		ChatToken:  token,
		Expiry:     today.AddDays(days),
		DaysUntil:  days,
		Severity:   entity.SeverityOf(days),
	}
}

func TestRendererSubjects(t *testing.T) {
	tests := []struct {
		locale string
		days   int
		want   string
	}{
		{LocaleZH, 7, "[提醒] Domain X 还有 7 天到期"},
		{LocaleZH, 0, "[紧急] Domain X 今天到期！"},
		{LocaleZH, -3, "[严重过期] Domain X 已过期 3 天！"},
		{LocaleEN, 7, "[Reminder] Domain X expires in 7 days"},
		{LocaleEN, 0, "[Urgent] Domain X expires today!"},
		{LocaleEN, -3, "[Critical] Domain X overdue by 3 days!"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.want, func(t *testing.T) {
			notes, err := NewRenderer(tt.locale).Render(decisionFor("Domain X", tt.days, ""))

			require.NoError(t, err)
			require.Len(t, notes, 1)
			assert.Equal(t, tt.want, notes[0].Subject)
		})
	}
}

func TestRendererBodies(t *testing.T) {
	t.Run("EmailStatusFragment", func(t *testing.T) {
		notes, err := NewRenderer(LocaleEN).Render(decisionFor("Domain X", -3, ""))
		require.NoError(t, err)

		body := notes[0].Body
		assert.Contains(t, body, "Overdue by 3 days")
		assert.Contains(t, body, "#DC2626")
		assert.Contains(t, body, "Expiry date: 2026-03-07")
		assert.Contains(t, body, "Asset type: domain")
	})

	t.Run("UpcomingUsesWarningColor", func(t *testing.T) {
		notes, err := NewRenderer(LocaleZH).Render(decisionFor("Domain X", 7, ""))
		require.NoError(t, err)

		assert.Contains(t, notes[0].Body, "剩余天数：")
		assert.Contains(t, notes[0].Body, "#D97706")
		assert.Contains(t, notes[0].Body, "7 天")
	})

	t.Run("ChatOnlyWithToken", func(t *testing.T) {
		notes, err := NewRenderer(LocaleZH).Render(decisionFor("Domain X", -3, "tok-abcdef"))
		require.NoError(t, err)

		require.Len(t, notes, 2)
		assert.Equal(t, entity.ChannelEmail, notes[0].Channel)
		assert.Equal(t, "a@b.com", notes[0].Recipient)
		assert.Equal(t, entity.ChannelChat, notes[1].Channel)
		assert.Equal(t, "tok-abcdef", notes[1].Recipient)
		assert.Equal(t, notes[0].Subject, notes[1].Subject)
		assert.Equal(t,
			`您的资产 <b>Domain X</b> 需要关注。<br/>状态：<b style="color:red">过期 3 天</b><br/>到期日期：2026-03-07`,
			notes[1].Body)
	})

	t.Run("EscapesAssetName", func(t *testing.T) {
		notes, err := NewRenderer(LocaleEN).Render(decisionFor("<script>x</script>", 1, "tok"))
		require.NoError(t, err)

		for _, n := range notes {
			assert.NotContains(t, n.Body, "<script>")
			assert.Contains(t, n.Body, "&lt;script&gt;")
		}
	})

	t.Run("UnknownLocaleFallsBackToZH", func(t *testing.T) {
		notes, err := NewRenderer("fr").Render(decisionFor("Domain X", 0, ""))
		require.NoError(t, err)

		assert.Equal(t, "[紧急] Domain X 今天到期！", notes[0].Subject)
	})
}
