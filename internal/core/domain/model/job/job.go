package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job was not created through NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

	// ErrJobIsAlreadyAssigned is the losing side of an accept race.
	ErrJobIsAlreadyAssigned = errs.NewConflictError("job", "is already assigned to someone else")

	// ErrJobIsClosed is returned for jobs that ended without an assignee.
	ErrJobIsClosed = errs.NewConflictError("job", "is no longer open")

	// ErrJobHasMovedOn is returned while the cascade is switching to the next candidate.
	ErrJobHasMovedOn = errs.NewConflictError("job", "has moved on to the next candidate")

	ErrPickupCodeIsInvalid = errs.NewValueIsInvalidErrorWithCause(
		"code", errors.New("code does not match or has expired"))

	ErrNotTheAssignee = errs.NewValueIsInvalidErrorWithCause(
		"contactAddress", errors.New("contact is not the assigned candidate"))
)

// Route holds the free-text pickup and drop-off addresses shown to candidates.
type Route struct {
	Pickup  string
	Dropoff string
}

// Job is the aggregate root of a delivery or ride awaiting (or served by) a driver.
//
// Invariants:
//   - the assignee is set exactly when the status is Accepted, PickingUp, InProgress
//     or Completed, and it is set only once
//   - only the cascade and the pickup code gate mutate a job; jobs are never deleted
//   - version increases by one with every persisted change and is used for
//     compare-and-set updates
type Job struct {
	id           kernel.UUID
	kind         Kind
	requirements Requirements
	route        Route
	status       Status
	assignee     *candidate.Candidate
	code         *PickupCode
	position     *kernel.Position
	version      int
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewJob creates a Pending job.
func NewJob(id kernel.UUID, kind Kind, requirements Requirements, route Route, now time.Time) (*Job, error) {
	j := &Job{
		kind:          kind,
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		kind.Validate(),
		j.setRequirements(requirements),
		j.setRoute(route),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// State is the persisted shape of a job, used to restore it from storage.
type State struct {
	ID           kernel.UUID
	Kind         Kind
	Requirements Requirements
	Route        Route
	Status       Status
	Assignee     *candidate.Candidate
	Code         *PickupCode
	Position     *kernel.Position
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RestoreJob rebuilds a job from storage, re-checking its invariants.
func RestoreJob(state State) (*Job, error) {
	j := &Job{
		kind:          state.Kind,
		status:        state.Status,
		assignee:      state.Assignee,
		code:          state.Code,
		position:      state.Position,
		version:       state.Version,
		createdAt:     state.CreatedAt.UTC(),
		updatedAt:     state.UpdatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(state.ID),
		state.Kind.Validate(),
		state.Status.Validate(),
		state.Status.ValidateCanHaveAssignee(state.Assignee != nil),
		j.setRequirements(state.Requirements),
		j.setRoute(state.Route),
	); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

func (j *Job) ID() kernel.UUID {
	return j.id
}

func (j *Job) Kind() Kind {
	return j.kind
}

func (j *Job) Requirements() Requirements {
	return j.requirements
}

func (j *Job) Route() Route {
	return j.route
}

func (j *Job) Status() Status {
	return j.status
}

// Assignee returns the accepted candidate, nil while the job is unassigned.
func (j *Job) Assignee() *candidate.Candidate {
	return j.assignee
}

// Code returns the current pickup code, nil if none was issued.
func (j *Job) Code() *PickupCode {
	return j.code
}

// Position returns the assignee's last reported position, nil if none.
func (j *Job) Position() *kernel.Position {
	return j.position
}

func (j *Job) Version() int {
	return j.version
}

// IncrementVersion is called by repositories after a successful compare-and-set write.
func (j *Job) IncrementVersion() {
	j.version++
}

func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

func (j *Job) UpdatedAt() time.Time {
	return j.updatedAt
}

// IsOpen reports whether the cascade is still running for this job.
func (j *Job) IsOpen() bool {
	return j.status.IsOpen()
}

// Review records that the current candidate opened the job. Advisory only.
func (j *Job) Review(now time.Time) error {
	return j.transition(j.status.Review, now)
}

// Accept assigns the job to c. It fails with ErrJobIsAlreadyAssigned once any
// candidate has won.
func (j *Job) Accept(c candidate.Candidate, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := j.transition(j.status.Accept, now); err != nil {
		return err
	}
	j.assignee = &c
	return nil
}

// Decline marks the job as moving on to the next candidate.
func (j *Job) Decline(now time.Time) error {
	return j.transition(j.status.Decline, now)
}

// Rearm returns a declined job to Pending. It reports whether the status changed.
func (j *Job) Rearm(now time.Time) (bool, error) {
	before := j.status
	if err := j.transition(j.status.Rearm, now); err != nil {
		return false, err
	}
	return before != j.status, nil
}

// Exhaust closes the job with NoCandidates.
func (j *Job) Exhaust(now time.Time) error {
	return j.transition(j.status.Exhaust, now)
}

// Cancel withdraws an open job.
func (j *Job) Cancel(now time.Time) error {
	return j.transition(j.status.Cancel, now)
}

// IssueCode binds a new pickup code, replacing (and so invalidating) any previous one.
func (j *Job) IssueCode(code PickupCode, now time.Time) error {
	if code.Value() == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if err := j.transition(j.status.IssueCode, now); err != nil {
		return err
	}
	j.code = &code
	return nil
}

// HasValidCode reports whether value is the job's current, unexpired pickup code.
func (j *Job) HasValidCode(value string, now time.Time) bool {
	return j.code != nil && j.code.Matches(value, now)
}

// ConfirmPickup starts the trip once the pickup code checks out.
func (j *Job) ConfirmPickup(value string, now time.Time) error {
	if j.status == PickingUp && !j.HasValidCode(value, now) {
		return ErrPickupCodeIsInvalid
	}
	return j.transition(j.status.ConfirmPickup, now)
}

// Complete finishes the trip.
func (j *Job) Complete(now time.Time) error {
	return j.transition(j.status.Complete, now)
}

// ReportPosition stores the assignee's live position. Only the assignee of an
// ongoing job may report.
func (j *Job) ReportPosition(contact kernel.ContactAddress, pos kernel.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	if j.status != Accepted && j.status != PickingUp && j.status != InProgress {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to report a position", j.status),
		)
	}
	if j.assignee == nil || !j.assignee.Contact().IsEqual(contact) {
		return ErrNotTheAssignee
	}
	j.position = &pos
	j.updatedAt = pos.ReportedAt()
	return nil
}

func (j *Job) transition(next func() (Status, error), now time.Time) error {
	if err := j.Validate(); err != nil {
		return err
	}
	status, err := next()
	if err != nil {
		return err
	}
	j.status = status
	j.updatedAt = now.UTC()
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setRequirements(req Requirements) error {
	if strings.TrimSpace(req.RegionID) == "" {
		return errs.NewValueIsRequiredError("regionId")
	}
	j.requirements = req
	return nil
}

func (j *Job) setRoute(route Route) error {
	route.Pickup = strings.TrimSpace(route.Pickup)
	route.Dropoff = strings.TrimSpace(route.Dropoff)
	if route.Pickup == "" {
		return errs.NewValueIsRequiredError("pickup")
	}
	j.route = route
	return nil
}
