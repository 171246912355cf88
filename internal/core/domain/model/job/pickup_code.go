package job

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

// PickupCodeLength is the number of digits of a pickup code.
const PickupCodeLength = 6

// PickupCode is the one-time code bound to a job with an absolute expiry.
// Verification does not consume it: it stays valid until it expires or is replaced.
type PickupCode struct {
	value     string
	expiresAt time.Time
}

func NewPickupCode(value string, expiresAt time.Time) (PickupCode, error) {
	if err := ValidateCodeFormat(value); err != nil {
		return PickupCode{}, err
	}
	if expiresAt.IsZero() {
		return PickupCode{}, errs.NewValueIsRequiredError("codeExpiresAt")
	}
	return PickupCode{value: value, expiresAt: expiresAt.UTC()}, nil
}

// ValidateCodeFormat checks for exactly six ASCII digits.
func ValidateCodeFormat(value string) error {
	if len(value) != PickupCodeLength {
		return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("code must have %d digits", PickupCodeLength))
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("code must have %d digits", PickupCodeLength))
		}
	}
	return nil
}

func (c PickupCode) Value() string {
	return c.value
}

func (c PickupCode) ExpiresAt() time.Time {
	return c.expiresAt
}

// Matches reports whether value equals the code and now is before the expiry.
func (c PickupCode) Matches(value string, now time.Time) bool {
	return c.value != "" && c.value == value && now.Before(c.expiresAt)
}
