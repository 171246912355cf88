package cascade

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	ErrCycleIsNotConstructed = errors.New("Cycle must be created via NewCycle constructor")

	// ErrEmptyRoster is returned by NewCycle; an empty roster never gets a cycle.
	ErrEmptyRoster = errs.NewValueIsRequiredError("candidates")

	// ErrStaleAdvance is returned when an advance names an index the cycle already left.
	ErrStaleAdvance = errs.NewConflictError("cascade", "has already advanced past this candidate")

	// ErrNotCurrentCandidate is returned when a roster member other than the one
	// currently offered the job tries to act on it.
	ErrNotCurrentCandidate = errs.NewConflictError("candidate", "is not the one currently offered the job")
)

// Timer is the durable, re-armable deadline of a cycle.
type Timer struct {
	Reason   Reason
	Deadline time.Time
}

// Cycle is the control state of one running cascade: the roster snapshot, the
// candidate currently being offered the job and its deadline. It lives exactly
// as long as the job is open and is persisted so any worker can fire or cancel it.
type Cycle struct {
	jobID      kernel.UUID
	candidates []candidate.Candidate
	index      int
	timer      Timer
	updatedAt  time.Time

	isConstructed bool
}

// NewCycle starts at the first candidate with a NOTIFYING timer due at notifyDeadline.
func NewCycle(jobID kernel.UUID, candidates []candidate.Candidate, notifyDeadline time.Time, now time.Time) (*Cycle, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyRoster
	}
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	return &Cycle{
		jobID:         jobID,
		candidates:    slices.Clone(candidates),
		timer:         Timer{Reason: ReasonNotifying, Deadline: notifyDeadline.UTC()},
		updatedAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreCycle rebuilds a cycle from storage.
func RestoreCycle(
	jobID kernel.UUID,
	candidates []candidate.Candidate,
	index int,
	timer Timer,
	updatedAt time.Time,
) (*Cycle, error) {
	c, err := NewCycle(jobID, candidates, timer.Deadline, updatedAt)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(candidates) {
		return nil, errs.NewValueIsOutOfRangeError("currentIndex", index, 0, len(candidates)-1)
	}
	if err = timer.Reason.ValidateTimer(); err != nil {
		return nil, err
	}
	c.index = index
	c.timer.Reason = timer.Reason
	return c, nil
}

func (c *Cycle) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCycleIsNotConstructed
	}
	return nil
}

func (c *Cycle) JobID() kernel.UUID {
	return c.jobID
}

// Index is the position of the candidate currently offered the job.
func (c *Cycle) Index() int {
	return c.index
}

// Current is the candidate currently offered the job.
func (c *Cycle) Current() candidate.Candidate {
	return c.candidates[c.index]
}

// Candidates returns a copy of the roster snapshot in cascade order.
func (c *Cycle) Candidates() []candidate.Candidate {
	return slices.Clone(c.candidates)
}

func (c *Cycle) Len() int {
	return len(c.candidates)
}

// Find returns the roster member with the given contact address.
func (c *Cycle) Find(contact kernel.ContactAddress) (candidate.Candidate, int, bool) {
	for i, cand := range c.candidates {
		if cand.Contact().IsEqual(contact) {
			return cand, i, true
		}
	}
	return candidate.Candidate{}, -1, false
}

// IsCurrent reports whether contact belongs to the candidate currently offered the job.
func (c *Cycle) IsCurrent(contact kernel.ContactAddress) bool {
	return c.Current().Contact().IsEqual(contact)
}

func (c *Cycle) Timer() Timer {
	return c.timer
}

func (c *Cycle) UpdatedAt() time.Time {
	return c.updatedAt
}

// IsDue reports whether the timer deadline has been reached.
func (c *Cycle) IsDue(now time.Time) bool {
	return !now.Before(c.timer.Deadline)
}

// Advance moves past the candidate at from. A call naming any other index is
// stale and changes nothing. It reports whether the roster is exhausted; an
// exhausted cycle must be discarded by the caller.
func (c *Cycle) Advance(from int, now time.Time) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	if from != c.index {
		return false, ErrStaleAdvance
	}
	if c.index+1 >= len(c.candidates) {
		return true, nil
	}
	c.index++
	c.updatedAt = now.UTC()
	return false, nil
}

// Arm replaces the timer.
func (c *Cycle) Arm(reason Reason, deadline time.Time, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := reason.ValidateTimer(); err != nil {
		return err
	}
	if deadline.IsZero() {
		return errs.NewValueIsRequiredError("deadline")
	}
	c.timer = Timer{Reason: reason, Deadline: deadline.UTC()}
	c.updatedAt = now.UTC()
	return nil
}
