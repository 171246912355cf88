package job

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Kind distinguishes deliveries from passenger rides. Both share one lifecycle.
type Kind int

const (
	UnknownKind Kind = iota
	Delivery
	Ride
)

func (k Kind) String() string {
	switch k {
	case Delivery:
		return "DELIVERY"
	case Ride:
		return "RIDE"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) Validate() error {
	if k != Delivery && k != Ride {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid job kind", k))
	}
	return nil
}

// ParseKind accepts "DELIVERY" or "RIDE" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DELIVERY":
		return Delivery, nil
	case "RIDE":
		return Ride, nil
	case "":
		return UnknownKind, errs.NewValueIsRequiredError("kind")
	default:
		return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid job kind", s))
	}
}
