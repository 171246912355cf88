package cascade

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Action is what a candidate answered. It is a closed set parsed at the boundary.
type Action int

const (
	UnknownAction Action = iota
	ActionReview
	ActionAccept
	ActionDecline
)

func (a Action) String() string {
	switch a {
	case ActionReview:
		return "REVIEW"
	case ActionAccept:
		return "ACCEPT"
	case ActionDecline:
		return "DECLINE"
	default:
		return "UNKNOWN"
	}
}

func (a Action) Validate() error {
	if a != ActionReview && a != ActionAccept && a != ActionDecline {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// ParseAction accepts REVIEW, ACCEPT or DECLINE in any case. Anything else is a
// validation error.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REVIEW":
		return ActionReview, nil
	case "ACCEPT":
		return ActionAccept, nil
	case "DECLINE":
		return ActionDecline, nil
	case "":
		return UnknownAction, errs.NewValueIsRequiredError("action")
	default:
		return UnknownAction, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
	}
}
