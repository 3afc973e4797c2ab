package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	maxBlobSize int
	metadata    bool
	lastCall    string
}

var errTooSmall = errors.New("max blob size must be positive")

func withMaxBlobSize(n int) Option[*readerConfig] {
	return New(func(c *readerConfig) error {
		if n <= 0 {
			return errTooSmall
		}
		c.maxBlobSize = n
		c.lastCall = "maxBlobSize"

		return nil
	})
}

func withMetadata(enabled bool) Option[*readerConfig] {
	return NoError(func(c *readerConfig) {
		c.metadata = enabled
		c.lastCall = "metadata"
	})
}

func TestApply(t *testing.T) {
	t.Run("InOrder", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withMaxBlobSize(1024), withMetadata(true))
		require.NoError(t, err)
		require.Equal(t, 1024, cfg.maxBlobSize)
		require.True(t, cfg.metadata)
		require.Equal(t, "metadata", cfg.lastCall)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		cfg := &readerConfig{}
		err := Apply(cfg, withMetadata(true), withMaxBlobSize(0), withMaxBlobSize(10))
		require.ErrorIs(t, err, errTooSmall)
		require.True(t, cfg.metadata)
		require.Zero(t, cfg.maxBlobSize)
		require.Equal(t, "metadata", cfg.lastCall)
	})

	t.Run("Empty", func(t *testing.T) {
		cfg := &readerConfig{maxBlobSize: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.maxBlobSize)
	})

	t.Run("NilOption", func(t *testing.T) {
		cfg := &readerConfig{}
		require.NoError(t, Apply(cfg, nil, withMetadata(true)))
		require.True(t, cfg.metadata)
	})
}

func TestGenericTargets(t *testing.T) {
	var n int
	require.NoError(t, Apply(&n, Option[*int](NoError(func(p *int) { *p = 42 }))))
	require.Equal(t, 42, n)
}
