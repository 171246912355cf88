package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/pkg/guard"
)

var (
	ErrVerifyCodeQueryIsNotConstructed = errors.New(
		"VerifyCodeQuery must be created via NewVerifyCodeQuery constructor",
	)
)

// VerifyCodeQuery looks up the job a customer's pickup code belongs to.
// Verification is read-only: a code keeps verifying until it expires or is
// replaced, so a retry after a dropped response still succeeds.
type VerifyCodeQuery struct {
	code  string
	guard guard.ConstructorGuard
}

func NewVerifyCodeQuery(code string) (VerifyCodeQuery, error) {
	code = strings.TrimSpace(code)
	if err := job.ValidateCodeFormat(code); err != nil {
		return VerifyCodeQuery{}, err
	}
	return VerifyCodeQuery{code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q VerifyCodeQuery) Validate() error {
	return q.guard.Validate(ErrVerifyCodeQueryIsNotConstructed)
}

func (q VerifyCodeQuery) Code() string {
	return q.code
}
