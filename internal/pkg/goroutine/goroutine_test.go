package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("CollectsErrorsAndPanics", func(t *testing.T) {
		m := NewManager(4)
		boom := errors.New("boom")

		require.True(t, m.Go(context.Background(), func(context.Context) error { return boom }))
		require.True(t, m.Go(context.Background(), func(context.Context) error { panic("kaput") }))
		require.True(t, m.Go(context.Background(), func(context.Context) error { return nil }))

		err := m.Wait()
		require.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "kaput")
	})

	t.Run("RejectsWhenFull", func(t *testing.T) {
		m := NewManager(1)
		release := make(chan struct{})

		require.True(t, m.Go(context.Background(), func(context.Context) error {
			<-release
			return nil
		}))
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

		close(release)
		assert.NoError(t, m.Wait())
	})

	t.Run("RejectsAfterWait", func(t *testing.T) {
		m := NewManager(1)
		require.NoError(t, m.Wait())

		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	})

	t.Run("RejectsCanceledContext", func(t *testing.T) {
		m := NewManager(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.False(t, m.Go(ctx, func(context.Context) error { return nil }))
	})

	t.Run("NilManager", func(t *testing.T) {
		var m *Manager

		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
		assert.NoError(t, m.Wait())
	})
}
