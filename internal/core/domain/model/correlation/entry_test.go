package correlation_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	contact, err := kernel.NewContactAddress("whatsapp:+1 (555) 010-0000")
	require.NoError(t, err)
	jobID := kernel.NewUUID()

	t.Run("should expire exactly ttl after now", func(t *testing.T) {
		e, err := correlation.NewEntry(contact, jobID, now, correlation.DefaultTTL)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, "whatsapp:+15550100000", e.Contact().String())
		assert.True(t, e.JobID().IsEqual(jobID))
		assert.Equal(t, now.Add(5*time.Minute), e.ExpiresAt())
		assert.False(t, e.IsExpired(now.Add(5*time.Minute-time.Nanosecond)))
		assert.True(t, e.IsExpired(now.Add(5*time.Minute)))
	})

	t.Run("should reject a non positive ttl", func(t *testing.T) {
		_, err := correlation.NewEntry(contact, jobID, now, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject missing parts", func(t *testing.T) {
		_, err := correlation.NewEntry(kernel.ContactAddress{}, kernel.UUID{}, now, time.Minute)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "contact address must be created")
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var e correlation.Entry

		require.ErrorIs(t, e.Validate(), correlation.ErrEntryIsNotConstructed)
	})
}
