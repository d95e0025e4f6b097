package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake(t *testing.T) {
	t.Run("MonotonicAndUnique", func(t *testing.T) {
		gen, err := NewSnowflake(1)
		require.NoError(t, err)

		prev := gen.Generate()
		for range 1000 {
			next := gen.Generate()
			require.Greater(t, next, prev)
			prev = next
		}
	})

	t.Run("RejectsNodeOutOfRange", func(t *testing.T) {
		_, err := NewSnowflake(4096)
		assert.Error(t, err)
	})
}

func TestUUID(t *testing.T) {
	raw := NewUUID().Generate()

	id, err := uuid.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
