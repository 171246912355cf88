package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/candidate"
	"dispatch/internal/core/domain/model/cascade"
	"dispatch/internal/core/domain/model/correlation"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"
)

// CascadeConfig holds the cascade timings.
type CascadeConfig struct {
	// Timeout is how long a notified candidate has to answer.
	Timeout time.Duration
	// GatewayFailureDelay is the pause before moving on from a candidate the
	// gateway could not reach.
	GatewayFailureDelay time.Duration
	// NotifyBudget bounds a notification in flight, retries included. When it
	// runs out the candidate is treated as timed out.
	NotifyBudget time.Duration
	// CorrelationTTL is how long a notified candidate's answer is routed back.
	CorrelationTTL time.Duration
	// StartGrace is how old an open job without a cascade must be before the
	// timer pass starts one for it.
	StartGrace time.Duration
}

func DefaultCascadeConfig() CascadeConfig {
	return CascadeConfig{
		Timeout:             60 * time.Second,
		GatewayFailureDelay: time.Second,
		NotifyBudget:        30 * time.Second,
		CorrelationTTL:      correlation.DefaultTTL,
		StartGrace:          10 * time.Second,
	}
}

// Validate rejects timings under which an answer could outlive its routing.
func (c CascadeConfig) Validate() error {
	if c.Timeout <= 0 {
		return errs.NewValueIsRequiredError("timeout")
	}
	if c.CorrelationTTL < c.Timeout {
		return errs.NewValueIsInvalidErrorWithCause("correlationTtl",
			fmt.Errorf("%s is shorter than the cascade timeout %s", c.CorrelationTTL, c.Timeout))
	}
	if c.StartGrace < 0 {
		return errs.NewValueIsInvalidError("startGrace")
	}
	return nil
}

// Outcome reports how a candidate response or cascade step ended. Conflicts such
// as a lost accept race are outcomes, not errors.
type Outcome struct {
	JobID  kernel.UUID
	Status job.Status
	Result cascade.Result
}

// CascadeDispatcher walks a job's roster one candidate at a time.
//
// Every state change runs in its own transaction that first locks the job row,
// so work on one job is serialized while different jobs proceed in parallel.
// Notifications are sent outside any transaction, in a background goroutine;
// their outcome is recorded in a second transaction only if the cycle still
// points at the notified candidate.
//
// The timer of a cycle is a persisted deadline. FireDueTimers, driven by a
// scheduler, advances every cycle whose deadline passed, on whichever worker
// runs it.
type CascadeDispatcher struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	observer   ports.CascadeObserver
	resolver   services.RosterResolver
	clock      clock.Clock
	cfg        CascadeConfig
	logger     *slog.Logger

	inflight sync.WaitGroup
}

func NewCascadeDispatcher(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	observer ports.CascadeObserver,
	clk clock.Clock,
	cfg CascadeConfig,
	logger *slog.Logger,
) *CascadeDispatcher {
	if observer == nil {
		observer = nopObserver{}
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &CascadeDispatcher{
		uowFactory: uowFactory,
		notifier:   notifier,
		observer:   observer,
		resolver:   services.NewRosterResolver(),
		clock:      clk,
		cfg:        cfg,
		logger:     logger.With("component", "cascade_dispatcher"),
	}
}

// Wait blocks until every notification started so far has finished and its
// outcome has been recorded.
func (d *CascadeDispatcher) Wait() {
	d.inflight.Wait()
}

// step collects what a transaction decided, so its side effects run only after commit.
type step struct {
	advancedBy cascade.Reason
	finished   job.Status
	notify     *ports.Notification
}

func (d *CascadeDispatcher) afterCommit(ctx context.Context, s step) {
	if s.advancedBy != "" {
		d.observer.CascadeAdvanced(s.advancedBy)
	}
	if s.finished != job.Unknown {
		d.observer.CascadeFinished(s.finished)
	}
	if s.notify != nil {
		d.notifyAsync(ctx, *s.notify)
	}
}

func (d *CascadeDispatcher) start(ctx context.Context, jobID kernel.UUID) (job.Status, error) {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return job.Unknown, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().GetForUpdate(ctx, jobID)
	if err != nil {
		return job.Unknown, err
	}
	if !j.IsOpen() {
		return j.Status(), nil
	}

	_, err = uow.CycleRepository().Get(ctx, jobID)
	if err == nil {
		return j.Status(), nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return job.Unknown, err
	}

	available, err := uow.CandidateRepository().ListAvailable(ctx, j.Requirements().RegionID)
	if err != nil {
		return job.Unknown, err
	}
	roster := d.resolver.Resolve(j.Requirements(), available)

	now := d.clock.Now()
	var s step
	if len(roster) == 0 {
		if err = j.Exhaust(now); err != nil {
			return job.Unknown, err
		}
		if err = uow.JobRepository().Update(ctx, j); err != nil {
			return job.Unknown, err
		}
		s.finished = job.NoCandidates
	} else {
		cycle, cycleErr := cascade.NewCycle(jobID, roster, now.Add(d.cfg.NotifyBudget), now)
		if cycleErr != nil {
			return job.Unknown, cycleErr
		}
		if err = uow.CycleRepository().Save(ctx, cycle); err != nil {
			return job.Unknown, err
		}
		n := d.notification(j, cycle, now)
		s.notify = &n
	}

	if err = uow.Commit(ctx); err != nil {
		return job.Unknown, err
	}

	d.logger.InfoContext(ctx, "Cascade started",
		"jobId", jobID.String(), "candidates", len(roster), "status", j.Status().String())
	d.afterCommit(ctx, s)
	return j.Status(), nil
}

// advance moves past the candidate at from. A stale index yields cascade.ErrStaleAdvance.
func (d *CascadeDispatcher) advance(ctx context.Context, jobID kernel.UUID, from int, reason cascade.Reason) error {
	return d.withCycle(ctx, jobID, func(uow UoW, j *job.Job, cycle *cascade.Cycle, now time.Time) (step, error) {
		return d.advanceInTx(ctx, uow, j, cycle, from, reason, now)
	})
}

// fire advances a cycle whose timer is due, using the reason the timer was armed with.
func (d *CascadeDispatcher) fire(ctx context.Context, jobID kernel.UUID, from int) error {
	return d.withCycle(ctx, jobID, func(uow UoW, j *job.Job, cycle *cascade.Cycle, now time.Time) (step, error) {
		if !cycle.IsDue(now) {
			return step{}, cascade.ErrStaleAdvance
		}
		return d.advanceInTx(ctx, uow, j, cycle, from, cycle.Timer().Reason.Firing(), now)
	})
}

func (d *CascadeDispatcher) withCycle(
	ctx context.Context,
	jobID kernel.UUID,
	fn func(uow UoW, j *job.Job, cycle *cascade.Cycle, now time.Time) (step, error),
) error {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().GetForUpdate(ctx, jobID)
	if err != nil {
		return err
	}
	cycle, err := uow.CycleRepository().Get(ctx, jobID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cascade.ErrStaleAdvance
	}
	if err != nil {
		return err
	}

	s, err := fn(uow, j, cycle, d.clock.Now())
	if err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	d.afterCommit(ctx, s)
	return nil
}

// advanceInTx runs inside a transaction holding the job lock.
func (d *CascadeDispatcher) advanceInTx(
	ctx context.Context,
	uow UoW,
	j *job.Job,
	cycle *cascade.Cycle,
	from int,
	reason cascade.Reason,
	now time.Time,
) (step, error) {
	if !j.IsOpen() {
		return step{}, cascade.ErrStaleAdvance
	}

	leaving := cycle.Current()
	exhausted, err := cycle.Advance(from, now)
	if err != nil {
		return step{}, err
	}
	if err = uow.CorrelationRepository().RemoveIfJob(ctx, leaving.Contact(), j.ID()); err != nil {
		return step{}, err
	}

	s := step{advancedBy: reason}
	if exhausted {
		if err = j.Exhaust(now); err != nil {
			return step{}, err
		}
		if err = uow.JobRepository().Update(ctx, j); err != nil {
			return step{}, err
		}
		if err = uow.CycleRepository().Delete(ctx, j.ID()); err != nil {
			return step{}, err
		}
		d.logger.InfoContext(ctx, "Roster exhausted", "jobId", j.ID().String(), "reason", reason.String())
		s.finished = job.NoCandidates
		return s, nil
	}

	if j.Status() != job.Declined {
		if err = j.Decline(now); err != nil {
			return step{}, err
		}
	}
	if err = uow.JobRepository().Update(ctx, j); err != nil {
		return step{}, err
	}
	if err = cycle.Arm(cascade.ReasonNotifying, now.Add(d.cfg.NotifyBudget), now); err != nil {
		return step{}, err
	}
	if err = uow.CycleRepository().Save(ctx, cycle); err != nil {
		return step{}, err
	}

	n := d.notification(j, cycle, now)
	s.notify = &n
	return s, nil
}

func (d *CascadeDispatcher) notification(j *job.Job, cycle *cascade.Cycle, now time.Time) ports.Notification {
	return ports.Notification{
		JobID:     j.ID(),
		Kind:      j.Kind().String(),
		Pickup:    j.Route().Pickup,
		Dropoff:   j.Route().Dropoff,
		Candidate: cycle.Current(),
		Position:  cycle.Index(),
		RespondBy: now.Add(d.cfg.Timeout),
	}
}

func (d *CascadeDispatcher) notifyAsync(ctx context.Context, n ports.Notification) {
	ctx = context.WithoutCancel(ctx)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.notifyCurrent(ctx, n)
	}()
}

func (d *CascadeDispatcher) notifyCurrent(ctx context.Context, n ports.Notification) {
	started := time.Now()
	err := d.notifier.Notify(ctx, n)
	d.observer.CandidateNotified(err == nil, time.Since(started))
	if err != nil {
		d.logger.WarnContext(ctx, "Candidate could not be notified",
			"jobId", n.JobID.String(), "position", n.Position, "error", err)
	}

	armErr := d.armAfterNotify(ctx, n, err == nil)
	if armErr != nil && !errs.IsConflict(armErr) {
		d.logger.ErrorContext(ctx, "Failed to arm cascade timer",
			"jobId", n.JobID.String(), "position", n.Position, "error", armErr)
	}
}

// armAfterNotify records a notification outcome. Delivered: the candidate gets a
// correlation entry and the answer timeout. Not delivered: a short delay, then
// the cascade moves on as if the candidate declined.
func (d *CascadeDispatcher) armAfterNotify(ctx context.Context, n ports.Notification, delivered bool) error {
	return d.withCycle(ctx, n.JobID, func(uow UoW, j *job.Job, cycle *cascade.Cycle, now time.Time) (step, error) {
		if cycle.Index() != n.Position || !j.IsOpen() {
			return step{}, cascade.ErrStaleAdvance
		}

		if delivered {
			entry, err := correlation.NewEntry(n.Candidate.Contact(), n.JobID, now, d.cfg.CorrelationTTL)
			if err != nil {
				return step{}, err
			}
			if err = uow.CorrelationRepository().Put(ctx, entry); err != nil {
				return step{}, err
			}
			if err = cycle.Arm(cascade.ReasonTimeout, now.Add(d.cfg.Timeout), now); err != nil {
				return step{}, err
			}
		} else if err := cycle.Arm(cascade.ReasonGatewayFailure, now.Add(d.cfg.GatewayFailureDelay), now); err != nil {
			return step{}, err
		}

		changed, err := j.Rearm(now)
		if err != nil {
			return step{}, err
		}
		if changed {
			if err = uow.JobRepository().Update(ctx, j); err != nil {
				return step{}, err
			}
		}
		return step{}, uow.CycleRepository().Save(ctx, cycle)
	})
}

func (d *CascadeDispatcher) fireDueTimers(ctx context.Context, limit int) (int, error) {
	due, err := d.uowFactory.Create().CycleRepository().ListDue(ctx, d.clock.Now(), limit)
	if err != nil {
		return 0, err
	}

	fired := 0
	var failed error
	for _, cycle := range due {
		err = d.fire(ctx, cycle.JobID(), cycle.Index())
		switch {
		case err == nil:
			fired++
		case errs.IsConflict(err):
		default:
			d.logger.ErrorContext(ctx, "Failed to fire cascade timer", "jobId", cycle.JobID().String(), "error", err)
			failed = errors.Join(failed, err)
		}
	}
	restarted, err := d.restartUnstarted(ctx, limit)
	return fired + restarted, errors.Join(failed, err)
}

// restartUnstarted starts the cascade of every open job whose start never
// completed, e.g. because the roster could not be read right after intake.
func (d *CascadeDispatcher) restartUnstarted(ctx context.Context, limit int) (int, error) {
	cutoff := d.clock.Now().Add(-d.cfg.StartGrace)
	ids, err := d.uowFactory.Create().JobRepository().ListUnstarted(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	started := 0
	var failed error
	for _, id := range ids {
		_, err = d.start(ctx, id)
		switch {
		case err == nil:
			started++
		case errs.IsConflict(err):
		default:
			d.logger.ErrorContext(ctx, "Failed to restart cascade", "jobId", id.String(), "error", err)
			failed = errors.Join(failed, err)
		}
	}
	if started > 0 {
		d.logger.InfoContext(ctx, "Restarted stalled cascades", "count", started)
	}
	return started, failed
}

func (d *CascadeDispatcher) respond(
	ctx context.Context,
	contact kernel.ContactAddress,
	action cascade.Action,
	explicitJobID *kernel.UUID,
) (Outcome, error) {
	outcome, err := d.respondInTx(ctx, contact, action, explicitJobID)
	if err != nil {
		return Outcome{}, err
	}
	d.observer.ResponseHandled(action, outcome.Result)
	return outcome, nil
}

func (d *CascadeDispatcher) respondInTx(
	ctx context.Context,
	contact kernel.ContactAddress,
	action cascade.Action,
	explicitJobID *kernel.UUID,
) (Outcome, error) {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Outcome{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := d.clock.Now()
	noActiveJob := Outcome{Result: cascade.ResultNoActiveJob}

	var jobID kernel.UUID
	if explicitJobID != nil {
		jobID = *explicitJobID
	} else {
		entry, err := uow.CorrelationRepository().Resolve(ctx, contact, now)
		if errors.Is(err, errs.ErrObjectNotFound) {
			// keeps the removal of an expired entry
			return noActiveJob, uow.Commit(ctx)
		}
		if err != nil {
			return Outcome{}, err
		}
		jobID = entry.JobID()
	}

	j, err := uow.JobRepository().GetForUpdate(ctx, jobID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return noActiveJob, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	before := j.Status()

	cycle, err := uow.CycleRepository().Get(ctx, jobID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		if err = uow.CorrelationRepository().RemoveIfJob(ctx, contact, jobID); err != nil {
			return Outcome{}, err
		}
		return settledOutcome(j, contact, action), uow.Commit(ctx)
	}
	if err != nil {
		return Outcome{}, err
	}

	responder, _, inRoster := cycle.Find(contact)
	if !inRoster {
		return noActiveJob, nil
	}

	var (
		s      step
		result cascade.Result
	)
	switch action {
	case cascade.ActionReview:
		result = cascade.ResultReviewing
		err = d.review(ctx, uow, j, cycle, responder, now)
	case cascade.ActionAccept:
		result = cascade.ResultAccepted
		s, err = d.accept(ctx, uow, j, cycle, responder, now)
	case cascade.ActionDecline:
		result = cascade.ResultDeclined
		s, err = d.decline(ctx, uow, j, cycle, responder, now)
	default:
		return Outcome{}, action.Validate()
	}

	if err != nil {
		conflict, ok := conflictResult(err)
		if !ok {
			return Outcome{}, err
		}
		if action == cascade.ActionDecline {
			// the declining contact loses its correlation even when the decline is stale
			if err = uow.Commit(ctx); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{JobID: jobID, Status: before, Result: conflict}, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return Outcome{}, err
	}
	d.afterCommit(ctx, s)

	return Outcome{JobID: jobID, Status: j.Status(), Result: result}, nil
}

func (d *CascadeDispatcher) review(
	ctx context.Context,
	uow UoW,
	j *job.Job,
	cycle *cascade.Cycle,
	responder candidate.Candidate,
	now time.Time,
) error {
	if !cycle.IsCurrent(responder.Contact()) {
		return cascade.ErrNotCurrentCandidate
	}
	if err := j.Review(now); err != nil {
		return err
	}
	return uow.JobRepository().Update(ctx, j)
}

// accept is the race guard: only the current candidate may accept and the job
// must still be Pending or Reviewing, checked under the job lock and written as
// a compare-and-set.
func (d *CascadeDispatcher) accept(
	ctx context.Context,
	uow UoW,
	j *job.Job,
	cycle *cascade.Cycle,
	responder candidate.Candidate,
	now time.Time,
) (step, error) {
	if !cycle.IsCurrent(responder.Contact()) {
		return step{}, cascade.ErrNotCurrentCandidate
	}

	if err := j.Accept(responder, now); err != nil {
		return step{}, err
	}
	if err := uow.JobRepository().Update(ctx, j); err != nil {
		return step{}, err
	}
	if err := uow.CycleRepository().Delete(ctx, j.ID()); err != nil {
		return step{}, err
	}

	if err := uow.CorrelationRepository().RemoveIfJob(ctx, responder.Contact(), j.ID()); err != nil {
		return step{}, err
	}

	d.logger.InfoContext(ctx, "Job accepted",
		"jobId", j.ID().String(), "candidateId", responder.ID().String(), "position", cycle.Index())
	return step{finished: job.Accepted}, nil
}

// decline drops the contact's correlation and, when the contact is the current
// candidate, advances the cascade in the same transaction.
func (d *CascadeDispatcher) decline(
	ctx context.Context,
	uow UoW,
	j *job.Job,
	cycle *cascade.Cycle,
	responder candidate.Candidate,
	now time.Time,
) (step, error) {
	if err := uow.CorrelationRepository().RemoveIfJob(ctx, responder.Contact(), j.ID()); err != nil {
		return step{}, err
	}
	_, index, _ := cycle.Find(responder.Contact())
	return d.advanceInTx(ctx, uow, j, cycle, index, cascade.ReasonDecline, now)
}

func (d *CascadeDispatcher) cancel(ctx context.Context, jobID kernel.UUID) (job.Status, error) {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return job.Unknown, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().GetForUpdate(ctx, jobID)
	if err != nil {
		return job.Unknown, err
	}
	if err = j.Cancel(d.clock.Now()); err != nil {
		return job.Unknown, err
	}
	if err = uow.JobRepository().Update(ctx, j); err != nil {
		return job.Unknown, err
	}

	cycle, err := uow.CycleRepository().Get(ctx, jobID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return job.Unknown, err
	default:
		if err = uow.CorrelationRepository().RemoveIfJob(ctx, cycle.Current().Contact(), jobID); err != nil {
			return job.Unknown, err
		}
		if err = uow.CycleRepository().Delete(ctx, jobID); err != nil {
			return job.Unknown, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return job.Unknown, err
	}

	d.logger.InfoContext(ctx, "Job cancelled", "jobId", jobID.String())
	d.observer.CascadeFinished(job.Cancelled)
	return j.Status(), nil
}

// settledOutcome answers a response for a job whose cascade is over.
func settledOutcome(j *job.Job, contact kernel.ContactAddress, action cascade.Action) Outcome {
	outcome := Outcome{JobID: j.ID(), Status: j.Status(), Result: cascade.ResultStale}
	assignee := j.Assignee()
	switch {
	case assignee == nil:
	case !assignee.Contact().IsEqual(contact):
		outcome.Result = cascade.ResultAlreadyAssigned
	case action == cascade.ActionAccept:
		outcome.Result = cascade.ResultAccepted
	}
	return outcome
}

func conflictResult(err error) (cascade.Result, bool) {
	switch {
	case errors.Is(err, job.ErrJobIsAlreadyAssigned):
		return cascade.ResultAlreadyAssigned, true
	case errs.IsConflict(err):
		return cascade.ResultStale, true
	default:
		return "", false
	}
}

type nopObserver struct{}

func (nopObserver) CandidateNotified(bool, time.Duration) {}

func (nopObserver) CascadeAdvanced(cascade.Reason) {}

func (nopObserver) CascadeFinished(job.Status) {}

func (nopObserver) ResponseHandled(cascade.Action, cascade.Result) {}
