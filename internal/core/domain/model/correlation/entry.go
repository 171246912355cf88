package correlation

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// DefaultTTL is how long a notified candidate's answer is routed back to the job.
const DefaultTTL = 5 * time.Minute

var ErrEntryIsNotConstructed = errs.NewValueIsRequiredError(
	"correlation entry must be created via NewEntry")

// Entry binds a contact address to the job it was last notified about. A contact
// has at most one live entry; writing a new one replaces the old.
type Entry struct { //nolint:recvcheck //using for validation
	contact   kernel.ContactAddress
	jobID     kernel.UUID
	expiresAt time.Time
	guard     guard.ConstructorGuard
}

func NewEntry(contact kernel.ContactAddress, jobID kernel.UUID, now time.Time, ttl time.Duration) (Entry, error) {
	var ttlErr error
	if ttl <= 0 {
		ttlErr = errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "any")
	}
	if err := errors.Join(contact.Validate(), jobID.Validate(), ttlErr); err != nil {
		return Entry{}, err
	}
	return RestoreEntry(contact, jobID, now.Add(ttl)), nil
}

// RestoreEntry rebuilds an entry read from storage.
func RestoreEntry(contact kernel.ContactAddress, jobID kernel.UUID, expiresAt time.Time) Entry {
	return Entry{
		contact:   contact,
		jobID:     jobID,
		expiresAt: expiresAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
}

func (e Entry) Validate() error {
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e Entry) Contact() kernel.ContactAddress {
	return e.contact
}

func (e Entry) JobID() kernel.UUID {
	return e.jobID
}

func (e Entry) ExpiresAt() time.Time {
	return e.expiresAt
}

// IsExpired reports whether the entry is dead at now. An entry is dead from its
// expiry instant on, whether or not a sweep has removed it.
func (e Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}
