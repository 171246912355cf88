package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"
)

// DefaultCodeTTL is how long a pickup code stays valid.
const DefaultCodeTTL = 120 * time.Minute

const maxCodeAttempts = 5

var ErrNoUniqueCode = errors.New("could not generate a pickup code that no other job holds")

// IssueCodeResult carries the code handed to the customer.
type IssueCodeResult struct {
	Code      string
	ExpiresAt time.Time
}

// IssueCodeCommandHandler binds a new pickup code to a job.
//
// Business rules:
//   - the job must be Accepted (or already PickingUp, to re-issue)
//   - a new code replaces the previous one, which stops verifying
//   - a code another job currently holds is never handed out twice
type IssueCodeCommandHandler struct {
	uowFactory JobUoWFactory
	generator  services.CodeGenerator
	clock      clock.Clock
	ttl        time.Duration
}

func NewIssueCodeCommandHandler(
	uowFactory JobUoWFactory,
	generator services.CodeGenerator,
	clk clock.Clock,
	ttl time.Duration,
) IssueCodeCommandHandler {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return IssueCodeCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		clock:      clk,
		ttl:        ttl,
	}
}

func (h IssueCodeCommandHandler) Handle(ctx context.Context, cmd IssueCodeCommand) (IssueCodeResult, error) {
	if err := cmd.Validate(); err != nil {
		return IssueCodeResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return IssueCodeResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobs := uow.JobRepository()
	j, err := jobs.GetForUpdate(ctx, cmd.JobID())
	if err != nil {
		return IssueCodeResult{}, err
	}

	now := h.clock.Now()
	value, err := h.uniqueCode(ctx, jobs, j, now)
	if err != nil {
		return IssueCodeResult{}, err
	}

	code, err := job.NewPickupCode(value, now.Add(h.ttl))
	if err != nil {
		return IssueCodeResult{}, err
	}
	if err = j.IssueCode(code, now); err != nil {
		return IssueCodeResult{}, err
	}
	if err = jobs.Update(ctx, j); err != nil {
		return IssueCodeResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return IssueCodeResult{}, err
	}

	return IssueCodeResult{Code: code.Value(), ExpiresAt: code.ExpiresAt()}, nil
}

func (h IssueCodeCommandHandler) uniqueCode(ctx context.Context, jobs jobCodeFinder, j *job.Job, now time.Time) (string, error) {
	for range maxCodeAttempts {
		value, err := h.generator.Generate()
		if err != nil {
			return "", err
		}

		holder, err := jobs.FindByActiveCode(ctx, value, now)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return value, nil
		}
		if err != nil {
			return "", err
		}
		if holder.ID().IsEqual(j.ID()) {
			return value, nil
		}
	}
	return "", ErrNoUniqueCode
}

type jobCodeFinder interface {
	FindByActiveCode(ctx context.Context, code string, now time.Time) (*job.Job, error)
}
