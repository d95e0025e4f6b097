package usecase

import (
	"context"
	"testing"

	"github.com/shandysiswandi/assetexpiry/internal/expiry/entity"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsToToday", func(t *testing.T) {
		h := newHarness(t, baseConfig)
		h.repo.assets = []entity.Asset{asset("a1", "Cert A", 7), asset("a2", "Cert B", 8)}
		h.repo.owners = []entity.Owner{{ID: "u1", Email: "a@b.com"}}

		out, err := h.uc.Preview(ctx, PreviewInput{})

		require.NoError(t, err)
		assert.Equal(t, testToday(), out.Date)
		require.Len(t, out.Notifications, 1)
		assert.Equal(t, "a1", out.Notifications[0].AssetID)
		assert.Empty(t, h.mail.sent)
		assert.Empty(t, h.repo.created)
	})

	t.Run("ExplicitDate", func(t *testing.T) {
		h := newHarness(t, baseConfig)
		h.repo.assets = []entity.Asset{asset("a1", "Cert A", 7), asset("a2", "Cert B", 8)}
		h.repo.owners = []entity.Owner{{ID: "u1", Email: "a@b.com"}}

		out, err := h.uc.Preview(ctx, PreviewInput{Date: testToday().AddDays(1).String()})

		require.NoError(t, err)
		require.Len(t, out.Notifications, 1)
		assert.Equal(t, "a2", out.Notifications[0].AssetID)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		h := newHarness(t, baseConfig)

		out, err := h.uc.Preview(ctx, PreviewInput{Date: "2026-13-01"})

		assert.Nil(t, out)
		var gerr *goerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())
	})
}
