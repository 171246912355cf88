package job_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newCandidate(t *testing.T, contact string) candidate.Candidate {
	t.Helper()
	addr, err := kernel.NewContactAddress(contact)
	require.NoError(t, err)
	c, err := candidate.NewCandidate(kernel.NewUUID(), addr, "Driver "+contact, "north", candidate.Class{Category: "car"})
	require.NoError(t, err)
	return c
}

func newPendingJob(t *testing.T) *job.Job {
	t.Helper()
	req, err := job.NewRequirements(job.Ride, "north", "car", "sedan")
	require.NoError(t, err)
	j, err := job.NewJob(kernel.NewUUID(), job.Ride, req, job.Route{Pickup: "1 Main St", Dropoff: "2 Side St"}, now)
	require.NoError(t, err)
	return j
}

func newPickingUpJob(t *testing.T, driver candidate.Candidate, code string) *job.Job {
	t.Helper()
	j := newPendingJob(t)
	require.NoError(t, j.Accept(driver, now))
	pc, err := job.NewPickupCode(code, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, j.IssueCode(pc, now))
	return j
}

func TestNewJob(t *testing.T) {
	req, _ := job.NewRequirements(job.Delivery, "north", "bike", "ignored")

	t.Run("should create a pending job", func(t *testing.T) {
		id := kernel.NewUUID()

		j, err := job.NewJob(id, job.Delivery, req, job.Route{Pickup: " 1 Main St ", Dropoff: "2 Side St"}, now)

		require.NoError(t, err)
		require.NoError(t, j.Validate())
		assert.True(t, j.ID().IsEqual(id))
		assert.Equal(t, job.Pending, j.Status())
		assert.Equal(t, "1 Main St", j.Route().Pickup)
		assert.Empty(t, j.Requirements().VehicleClass)
		assert.Nil(t, j.Assignee())
		assert.Nil(t, j.Code())
		assert.Equal(t, 0, j.Version())
		assert.Equal(t, now, j.CreatedAt())
		assert.True(t, j.IsOpen())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		j, err := job.NewJob(kernel.UUID{}, job.UnknownKind, job.Requirements{}, job.Route{}, now)

		require.Error(t, err)
		assert.Nil(t, j)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "kind")
		assert.Contains(t, err.Error(), "regionId")
		assert.Contains(t, err.Error(), "pickup")
	})

	t.Run("should reject a job that bypassed the constructor", func(t *testing.T) {
		var j job.Job

		require.ErrorIs(t, j.Validate(), job.ErrJobIsNotConstructed)
		require.ErrorIs(t, j.Review(now), job.ErrJobIsNotConstructed)
	})
}

func TestRestoreJob(t *testing.T) {
	driver := newCandidate(t, "+1 555 0100")
	req, _ := job.NewRequirements(job.Ride, "north", "car", "sedan")
	base := job.State{
		ID:           kernel.NewUUID(),
		Kind:         job.Ride,
		Requirements: req,
		Route:        job.Route{Pickup: "1 Main St"},
		Status:       job.Accepted,
		Assignee:     &driver,
		Version:      4,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("should restore an assigned job", func(t *testing.T) {
		j, err := job.RestoreJob(base)

		require.NoError(t, err)
		assert.Equal(t, job.Accepted, j.Status())
		assert.Equal(t, 4, j.Version())
		assert.True(t, j.Assignee().IsEqual(driver))
	})

	t.Run("should reject an assigned status without assignee", func(t *testing.T) {
		state := base
		state.Assignee = nil

		_, err := job.RestoreJob(state)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an assignee on an open job", func(t *testing.T) {
		state := base
		state.Status = job.Pending

		_, err := job.RestoreJob(state)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "PENDING is not a valid status to have an assignee")
	})
}

func TestJob_Accept(t *testing.T) {
	t.Run("should assign the first candidate only", func(t *testing.T) {
		j := newPendingJob(t)
		a := newCandidate(t, "+1 555 0100")
		b := newCandidate(t, "+1 555 0101")

		require.NoError(t, j.Review(now))
		require.NoError(t, j.Accept(a, now.Add(time.Second)))
		err := j.Accept(b, now.Add(2*time.Second))

		require.ErrorIs(t, err, job.ErrJobIsAlreadyAssigned)
		assert.Equal(t, job.Accepted, j.Status())
		assert.True(t, j.Assignee().IsEqual(a))
		assert.Equal(t, now.Add(time.Second), j.UpdatedAt())
	})

	t.Run("should reject an unconstructed candidate", func(t *testing.T) {
		j := newPendingJob(t)

		err := j.Accept(candidate.Candidate{}, now)

		require.ErrorIs(t, err, candidate.ErrCandidateIsNotConstructed)
		assert.Equal(t, job.Pending, j.Status())
	})
}

func TestJob_Cascade(t *testing.T) {
	j := newPendingJob(t)

	require.NoError(t, j.Decline(now))
	assert.Equal(t, job.Declined, j.Status())

	changed, err := j.Rearm(now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, job.Pending, j.Status())

	changed, err = j.Rearm(now)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, j.Exhaust(now))
	assert.Equal(t, job.NoCandidates, j.Status())
	assert.False(t, j.IsOpen())

	require.ErrorIs(t, j.Cancel(now), job.ErrJobIsClosed)
}

func TestJob_PickupCode(t *testing.T) {
	driver := newCandidate(t, "+1 555 0100")

	t.Run("should reject issuing before acceptance", func(t *testing.T) {
		j := newPendingJob(t)
		pc, _ := job.NewPickupCode("123456", now.Add(time.Hour))

		require.Error(t, j.IssueCode(pc, now))
		assert.Nil(t, j.Code())
	})

	t.Run("a new code replaces the previous one", func(t *testing.T) {
		j := newPickingUpJob(t, driver, "123456")
		replacement, _ := job.NewPickupCode("654321", now.Add(2*time.Hour))

		require.NoError(t, j.IssueCode(replacement, now))

		assert.False(t, j.HasValidCode("123456", now))
		assert.True(t, j.HasValidCode("654321", now))
		assert.True(t, j.HasValidCode("654321", now), "verification does not consume the code")
	})

	t.Run("should confirm pickup with a valid code only", func(t *testing.T) {
		j := newPickingUpJob(t, driver, "000042")

		require.ErrorIs(t, j.ConfirmPickup("000043", now), job.ErrPickupCodeIsInvalid)
		require.ErrorIs(t, j.ConfirmPickup("000042", now.Add(2*time.Hour)), job.ErrPickupCodeIsInvalid)
		require.NoError(t, j.ConfirmPickup("000042", now.Add(time.Minute)))
		assert.Equal(t, job.InProgress, j.Status())

		require.NoError(t, j.Complete(now.Add(time.Hour)))
		assert.Equal(t, job.Completed, j.Status())
		assert.NotNil(t, j.Assignee())
	})
}

func TestJob_ReportPosition(t *testing.T) {
	driver := newCandidate(t, "+1 555 0100")
	pos, err := kernel.NewPosition(52.52, 13.40, now)
	require.NoError(t, err)

	t.Run("should store the assignee position", func(t *testing.T) {
		j := newPickingUpJob(t, driver, "123456")

		require.NoError(t, j.ReportPosition(driver.Contact(), pos))

		require.NotNil(t, j.Position())
		assert.InDelta(t, 52.52, j.Position().Lat(), 1e-9)
	})

	t.Run("should reject another contact", func(t *testing.T) {
		j := newPickingUpJob(t, driver, "123456")
		other := newCandidate(t, "+1 555 0199")

		require.ErrorIs(t, j.ReportPosition(other.Contact(), pos), job.ErrNotTheAssignee)
		assert.Nil(t, j.Position())
	})

	t.Run("should reject positions for unassigned jobs", func(t *testing.T) {
		j := newPendingJob(t)

		require.ErrorIs(t, j.ReportPosition(driver.Contact(), pos), errs.ErrValueIsInvalid)
	})

	t.Run("should reject an unconstructed position", func(t *testing.T) {
		j := newPickingUpJob(t, driver, "123456")

		require.ErrorIs(t, j.ReportPosition(driver.Contact(), kernel.Position{}), kernel.ErrPositionIsNotConstructed)
	})
}

func TestPickupCode(t *testing.T) {
	t.Run("should require six digits", func(t *testing.T) {
		for _, value := range []string{"", "12345", "1234567", "12a456", "١٢٣٤٥٦"} {
			_, err := job.NewPickupCode(value, now)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, value)
		}
	})

	t.Run("should require an expiry", func(t *testing.T) {
		_, err := job.NewPickupCode("123456", time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should match strictly before the expiry", func(t *testing.T) {
		pc, err := job.NewPickupCode("012345", now)
		require.NoError(t, err)

		assert.True(t, pc.Matches("012345", now.Add(-time.Nanosecond)))
		assert.False(t, pc.Matches("012345", now))
		assert.False(t, pc.Matches("12345", now.Add(-time.Minute)))
	})
}
