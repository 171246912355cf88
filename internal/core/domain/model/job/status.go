package job

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a job.
//
// State transitions:
//
//	              ┌──────── review ───────┐
//	              v                       │
//	Pending ──> Reviewing ──┬──> Accepted ──> PickingUp ──> InProgress ──> Completed
//	   │  ^         │       │                   │  ^
//	   │  │         │       │                   └──┘ (code re-issued)
//	   │  └─ rearm ─┴─ Declined (cascade moves to the next candidate)
//	   │                    │
//	   └────────────────────┴──> NoCandidates (roster exhausted) | Cancelled
//
// Pending, Reviewing and Declined are "open": the cascade is still running.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending: a candidate is being (or about to be) notified and nobody has opened the job.
	Pending

	// Reviewing: the current candidate pulled up the details but has not answered yet.
	Reviewing

	// Accepted: a candidate took the job. Terminal for the cascade.
	Accepted

	// Declined: the last candidate declined or did not answer; the next one is being notified.
	Declined

	// NoCandidates: the roster was empty or exhausted. Terminal.
	NoCandidates

	// PickingUp: a pickup code was issued to the assigned candidate.
	PickingUp

	// InProgress: the pickup was confirmed with a valid code.
	InProgress

	// Completed: the job finished. Terminal.
	Completed

	// Cancelled: the job was withdrawn before anybody accepted it. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:      "UNKNOWN",
		Pending:      "PENDING",
		Reviewing:    "REVIEWING",
		Accepted:     "ACCEPTED",
		Declined:     "DECLINED",
		NoCandidates: "NO_CANDIDATES",
		PickingUp:    "PICKING_UP",
		InProgress:   "IN_PROGRESS",
		Completed:    "COMPLETED",
		Cancelled:    "CANCELLED",
	}
}

// Validate checks that s is one of the defined statuses other than Unknown.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsOpen reports whether the cascade may still change the job's outcome.
func (s Status) IsOpen() bool {
	return s == Pending || s == Reviewing || s == Declined
}

// HasAssignee reports whether a job in this status must carry an assigned candidate.
func (s Status) HasAssignee() bool {
	return s == Accepted || s == PickingUp || s == InProgress || s == Completed
}

// ValidateCanHaveAssignee enforces that an assignee is present exactly in the
// assigned statuses.
func (s Status) ValidateCanHaveAssignee(assigned bool) error {
	if assigned && !s.HasAssignee() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have an assignee", s),
		)
	}
	if !assigned && s.HasAssignee() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no assignee", s),
		)
	}
	return nil
}

// Review moves an open, undeclined job to Reviewing.
func (s Status) Review() (Status, error) {
	if s != Pending && s != Reviewing {
		return 0, s.closedError("review")
	}
	return Reviewing, nil
}

// Accept is the race guard of the whole cascade: only Pending and Reviewing jobs
// can be accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending && s != Reviewing {
		return 0, s.closedError("accept")
	}
	return Accepted, nil
}

// Decline marks the job as moving on to the next candidate.
func (s Status) Decline() (Status, error) {
	if s != Pending && s != Reviewing {
		return 0, s.closedError("decline")
	}
	return Declined, nil
}

// Rearm returns a declined job to Pending once the next candidate is armed.
// Pending and Reviewing are left untouched.
func (s Status) Rearm() (Status, error) {
	if !s.IsOpen() {
		return 0, s.closedError("rearm")
	}
	if s == Declined {
		return Pending, nil
	}
	return s, nil
}

// Exhaust records that no candidate is left.
func (s Status) Exhaust() (Status, error) {
	if !s.IsOpen() {
		return 0, s.closedError("exhaust")
	}
	return NoCandidates, nil
}

// Cancel withdraws an open job.
func (s Status) Cancel() (Status, error) {
	if !s.IsOpen() {
		return 0, s.closedError("cancel")
	}
	return Cancelled, nil
}

// IssueCode moves an accepted job into the pickup phase. Re-issuing is allowed.
func (s Status) IssueCode() (Status, error) {
	if s != Accepted && s != PickingUp {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to issue a pickup code", s),
		)
	}
	return PickingUp, nil
}

// ConfirmPickup starts the trip.
func (s Status) ConfirmPickup() (Status, error) {
	if s != PickingUp {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to confirm a pickup", s),
		)
	}
	return InProgress, nil
}

// Complete finishes the trip.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
	return Completed, nil
}

// closedError distinguishes a lost race (the job is already decided) from a
// transition that is simply not allowed.
func (s Status) closedError(action string) error {
	switch {
	case s.HasAssignee():
		return ErrJobIsAlreadyAssigned
	case s == NoCandidates || s == Cancelled:
		return ErrJobIsClosed
	case s == Declined:
		return ErrJobHasMovedOn
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to %s", s, action),
		)
	}
}
