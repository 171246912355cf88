package cmd

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompositionRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should reject a correlation ttl shorter than the cascade timeout", func(t *testing.T) {
		config := Config{
			Storage:        StorageMemory,
			CascadeTimeout: 2 * time.Minute,
			CorrelationTTL: time.Minute,
		}

		app, err := NewCompositionRoot(config, nil, logger)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "correlationTtl")
		assert.Nil(t, app)
	})

	t.Run("should reject a cascade timeout above the default correlation ttl", func(t *testing.T) {
		config := Config{Storage: StorageMemory, CascadeTimeout: time.Hour}

		_, err := NewCompositionRoot(config, nil, logger)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should build over the memory store", func(t *testing.T) {
		config := Config{
			Storage:           StorageMemory,
			CascadeTimeout:    time.Minute,
			CorrelationTTL:    time.Minute,
			CascadeStartGrace: 5 * time.Second,
		}

		app, err := NewCompositionRoot(config, nil, logger)

		require.NoError(t, err)
		assert.NotNil(t, app.Dispatcher())
		assert.NotNil(t, app.Registry())
	})
}
