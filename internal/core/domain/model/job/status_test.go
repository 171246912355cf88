package job_test

import (
	"fmt"
	"testing"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []job.Status{
	job.Pending,
	job.Reviewing,
	job.Accepted,
	job.Declined,
	job.NoCandidates,
	job.PickingUp,
	job.InProgress,
	job.Completed,
	job.Cancelled,
}

func TestStatus_Validate(t *testing.T) {
	for _, status := range allStatuses {
		t.Run(fmt.Sprintf("should validate %s status", status), func(t *testing.T) {
			require.NoError(t, status.Validate())
		})
	}

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := job.Unknown.Validate()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject out of range status", func(t *testing.T) {
		err := job.Status(99).Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "99 is not a valid status")
		assert.Equal(t, "UNKNOWN", job.Status(99).String())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PENDING", job.Pending.String())
	assert.Equal(t, "NO_CANDIDATES", job.NoCandidates.String())
	assert.Equal(t, "PICKING_UP", job.PickingUp.String())
	assert.Equal(t, "IN_PROGRESS", job.InProgress.String())
}

func TestStatus_IsOpen(t *testing.T) {
	open := map[job.Status]bool{job.Pending: true, job.Reviewing: true, job.Declined: true}

	for _, status := range allStatuses {
		assert.Equal(t, open[status], status.IsOpen(), status.String())
	}
}

func TestStatus_ValidateCanHaveAssignee(t *testing.T) {
	for _, status := range allStatuses {
		t.Run(status.String(), func(t *testing.T) {
			if status.HasAssignee() {
				require.NoError(t, status.ValidateCanHaveAssignee(true))
				require.Error(t, status.ValidateCanHaveAssignee(false))
			} else {
				require.NoError(t, status.ValidateCanHaveAssignee(false))
				require.Error(t, status.ValidateCanHaveAssignee(true))
			}
		})
	}
}

func TestStatus_Accept(t *testing.T) {
	t.Run("should accept from pending and reviewing", func(t *testing.T) {
		for _, status := range []job.Status{job.Pending, job.Reviewing} {
			next, err := status.Accept()

			require.NoError(t, err)
			assert.Equal(t, job.Accepted, next)
		}
	})

	t.Run("should report already assigned once someone won", func(t *testing.T) {
		for _, status := range []job.Status{job.Accepted, job.PickingUp, job.InProgress, job.Completed} {
			_, err := status.Accept()

			require.ErrorIs(t, err, job.ErrJobIsAlreadyAssigned)
			assert.True(t, errs.IsConflict(err))
		}
	})

	t.Run("should report closed jobs", func(t *testing.T) {
		for _, status := range []job.Status{job.NoCandidates, job.Cancelled} {
			_, err := status.Accept()

			require.ErrorIs(t, err, job.ErrJobIsClosed)
		}
	})

	t.Run("should report a job that moved on", func(t *testing.T) {
		_, err := job.Declined.Accept()

		require.ErrorIs(t, err, job.ErrJobHasMovedOn)
	})
}

func TestStatus_CascadeTransitions(t *testing.T) {
	t.Run("review keeps reviewing", func(t *testing.T) {
		next, err := job.Reviewing.Review()

		require.NoError(t, err)
		assert.Equal(t, job.Reviewing, next)
	})

	t.Run("rearm moves declined back to pending and leaves others alone", func(t *testing.T) {
		next, err := job.Declined.Rearm()
		require.NoError(t, err)
		assert.Equal(t, job.Pending, next)

		next, err = job.Reviewing.Rearm()
		require.NoError(t, err)
		assert.Equal(t, job.Reviewing, next)
	})

	t.Run("exhaust and cancel only from open statuses", func(t *testing.T) {
		for _, status := range allStatuses {
			_, exhaustErr := status.Exhaust()
			_, cancelErr := status.Cancel()

			assert.Equal(t, status.IsOpen(), exhaustErr == nil, status.String())
			assert.Equal(t, status.IsOpen(), cancelErr == nil, status.String())
		}
	})

	t.Run("decline is not allowed twice", func(t *testing.T) {
		_, err := job.Declined.Decline()

		require.ErrorIs(t, err, job.ErrJobHasMovedOn)
	})
}

func TestStatus_PickupTransitions(t *testing.T) {
	next, err := job.Accepted.IssueCode()
	require.NoError(t, err)
	assert.Equal(t, job.PickingUp, next)

	next, err = job.PickingUp.IssueCode()
	require.NoError(t, err)
	assert.Equal(t, job.PickingUp, next)

	_, err = job.Pending.IssueCode()
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	next, err = job.PickingUp.ConfirmPickup()
	require.NoError(t, err)
	assert.Equal(t, job.InProgress, next)

	_, err = job.Accepted.ConfirmPickup()
	require.Error(t, err)

	next, err = job.InProgress.Complete()
	require.NoError(t, err)
	assert.Equal(t, job.Completed, next)

	_, err = job.PickingUp.Complete()
	require.Error(t, err)
}
