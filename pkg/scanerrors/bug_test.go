package scanerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustBug(t *testing.T) {
	require.True(t, IsInTests())
	assert.Panics(t, func() {
		err := MustBugf("some error")
		require.Error(t, err)
	}, "The code did not panic")
}

func TestBestEffort(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		calls := 0
		require.True(t, BestEffort("close", func() error {
			calls++
			return nil
		}))
		require.Equal(t, 1, calls)
	})

	t.Run("error is swallowed", func(t *testing.T) {
		t.Parallel()
		require.False(t, BestEffort("close", func() error {
			return errors.New("backend went away")
		}))
	})

	t.Run("panic is swallowed", func(t *testing.T) {
		t.Parallel()
		require.NotPanics(t, func() {
			require.False(t, BestEffort("close", func() error {
				panic("boom")
			}))
		})
	})
}
