package kernel

import (
	"strings"
	"unicode"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrContactAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"contact address must be created via NewContactAddress")

// ContactAddress is the normalized channel address a candidate is notified on and
// responds from. Two spellings of the same phone number normalize to the same value,
// so correlation lookups keyed by it are stable.
//
// Normalization:
//   - surrounding whitespace is trimmed and the value is lowercased
//   - an optional channel prefix ("whatsapp:", "sms:") is kept as is
//   - phone-like values keep only digits and a leading '+'
type ContactAddress struct {
	value string
	guard guard.ConstructorGuard
}

func NewContactAddress(raw string) (ContactAddress, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ContactAddress{}, errs.NewValueIsRequiredError("contactAddress")
	}

	prefix, rest := "", value
	if i := strings.Index(value, ":"); i >= 0 {
		prefix, rest = value[:i+1], strings.TrimSpace(value[i+1:])
	}

	if isPhoneLike(rest) {
		rest = normalizePhone(rest)
	}
	if rest == "" || rest == "+" {
		return ContactAddress{}, errs.NewValueIsInvalidError("contactAddress")
	}

	return ContactAddress{
		value: prefix + rest,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ContactAddress) Validate() error {
	return c.guard.Validate(ErrContactAddressIsNotConstructed)
}

func (c ContactAddress) String() string {
	return c.value
}

func (c ContactAddress) IsEqual(other ContactAddress) bool {
	return c.value == other.value
}

func (c ContactAddress) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

func isPhoneLike(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
