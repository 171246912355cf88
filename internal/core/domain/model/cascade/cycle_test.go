package cascade_test

import (
	"fmt"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func roster(t *testing.T, n int) []candidate.Candidate {
	t.Helper()
	out := make([]candidate.Candidate, 0, n)
	for i := range n {
		addr, err := kernel.NewContactAddress(fmt.Sprintf("+1555010%d", i))
		require.NoError(t, err)
		c, err := candidate.NewCandidate(kernel.NewUUID(), addr, fmt.Sprintf("Driver %d", i), "north", candidate.Class{})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestNewCycle(t *testing.T) {
	t.Run("should start at the first candidate with a notifying timer", func(t *testing.T) {
		candidates := roster(t, 3)

		c, err := cascade.NewCycle(kernel.NewUUID(), candidates, now.Add(10*time.Second), now)

		require.NoError(t, err)
		assert.Equal(t, 0, c.Index())
		assert.Equal(t, 3, c.Len())
		assert.True(t, c.Current().IsEqual(candidates[0]))
		assert.Equal(t, cascade.ReasonNotifying, c.Timer().Reason)
		assert.False(t, c.IsDue(now))
		assert.True(t, c.IsDue(now.Add(10*time.Second)))
	})

	t.Run("should refuse an empty roster", func(t *testing.T) {
		_, err := cascade.NewCycle(kernel.NewUUID(), nil, now, now)

		require.ErrorIs(t, err, cascade.ErrEmptyRoster)
	})

	t.Run("should keep its own copy of the roster", func(t *testing.T) {
		candidates := roster(t, 2)
		c, err := cascade.NewCycle(kernel.NewUUID(), candidates, now, now)
		require.NoError(t, err)

		candidates[0] = candidates[1]

		assert.False(t, c.Current().IsEqual(candidates[1]))
	})
}

func TestRestoreCycle(t *testing.T) {
	candidates := roster(t, 2)

	c, err := cascade.RestoreCycle(kernel.NewUUID(), candidates, 1,
		cascade.Timer{Reason: cascade.ReasonGatewayFailure, Deadline: now}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, cascade.ReasonGatewayFailure, c.Timer().Reason)

	_, err = cascade.RestoreCycle(kernel.NewUUID(), candidates, 2, cascade.Timer{Reason: cascade.ReasonTimeout, Deadline: now}, now)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = cascade.RestoreCycle(kernel.NewUUID(), candidates, 0, cascade.Timer{Reason: cascade.ReasonDecline, Deadline: now}, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCycle_Advance(t *testing.T) {
	t.Run("should walk the roster and report exhaustion after n steps", func(t *testing.T) {
		c, err := cascade.NewCycle(kernel.NewUUID(), roster(t, 3), now, now)
		require.NoError(t, err)

		steps := 0
		for {
			steps++
			exhausted, err := c.Advance(c.Index(), now)
			require.NoError(t, err)
			if exhausted {
				break
			}
		}

		assert.Equal(t, 3, steps)
	})

	t.Run("a second advance for the same index is stale", func(t *testing.T) {
		c, err := cascade.NewCycle(kernel.NewUUID(), roster(t, 3), now, now)
		require.NoError(t, err)

		_, err = c.Advance(0, now)
		require.NoError(t, err)
		_, err = c.Advance(0, now)

		require.ErrorIs(t, err, cascade.ErrStaleAdvance)
		assert.True(t, errs.IsConflict(err))
		assert.Equal(t, 1, c.Index())
	})
}

func TestCycle_Find(t *testing.T) {
	candidates := roster(t, 3)
	c, err := cascade.NewCycle(kernel.NewUUID(), candidates, now, now)
	require.NoError(t, err)

	found, idx, ok := c.Find(candidates[2].Contact())
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.True(t, found.IsEqual(candidates[2]))
	assert.True(t, c.IsCurrent(candidates[0].Contact()))
	assert.False(t, c.IsCurrent(candidates[2].Contact()))

	stranger, _ := kernel.NewContactAddress("+19990000000")
	_, idx, ok = c.Find(stranger)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestCycle_Arm(t *testing.T) {
	c, err := cascade.NewCycle(kernel.NewUUID(), roster(t, 1), now, now)
	require.NoError(t, err)

	require.NoError(t, c.Arm(cascade.ReasonTimeout, now.Add(time.Minute), now))
	assert.Equal(t, cascade.Timer{Reason: cascade.ReasonTimeout, Deadline: now.Add(time.Minute)}, c.Timer())

	require.Error(t, c.Arm(cascade.ReasonDecline, now, now))
	require.ErrorIs(t, c.Arm(cascade.ReasonTimeout, time.Time{}, now), errs.ErrValueIsRequired)
}

func TestReason_Firing(t *testing.T) {
	assert.Equal(t, cascade.ReasonTimeout, cascade.ReasonNotifying.Firing())
	assert.Equal(t, cascade.ReasonTimeout, cascade.ReasonTimeout.Firing())
	assert.Equal(t, cascade.ReasonGatewayFailure, cascade.ReasonGatewayFailure.Firing())
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want cascade.Action
	}{
		{"REVIEW", cascade.ActionReview},
		{"accept", cascade.ActionAccept},
		{" Decline ", cascade.ActionDecline},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cascade.ParseAction(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, got.Validate())
		})
	}

	t.Run("should reject unknown actions", func(t *testing.T) {
		_, err := cascade.ParseAction("maybe")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require an action", func(t *testing.T) {
		_, err := cascade.ParseAction("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.Error(t, cascade.UnknownAction.Validate())
	})
}
