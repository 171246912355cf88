package candidate

import (
	"errors"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

// Class describes what kind of work a candidate can take.
type Class struct {
	// Category is the coarse job category, e.g. "car", "bike", "van".
	Category string
	// VehicleClass is the exact vehicle class, e.g. "sedan-xl". Optional.
	VehicleClass string
	// Attributes are free-form capability tags such as "child-seat".
	Attributes []string
}

// Candidate is a driver eligible for dispatch. It is a read-only snapshot taken from
// the roster source when a cascade starts and is never re-queried mid-cascade.
type Candidate struct { //nolint:recvcheck //using for validation
	id          kernel.UUID
	contact     kernel.ContactAddress
	displayName string
	regionID    string
	class       Class

	guard guard.ConstructorGuard
}

func NewCandidate(
	id kernel.UUID,
	contact kernel.ContactAddress,
	displayName string,
	regionID string,
	class Class,
) (Candidate, error) {
	c := Candidate{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setID(id),
		c.setContact(contact),
		c.setDisplayName(displayName),
		c.setRegionID(regionID),
	); err != nil {
		return Candidate{}, err
	}

	c.class = Class{
		Category:     strings.ToLower(strings.TrimSpace(class.Category)),
		VehicleClass: strings.ToLower(strings.TrimSpace(class.VehicleClass)),
		Attributes:   slices.Clone(class.Attributes),
	}

	return c, nil
}

func (c Candidate) Validate() error {
	return c.guard.Validate(ErrCandidateIsNotConstructed)
}

func (c Candidate) ID() kernel.UUID {
	return c.id
}

func (c Candidate) Contact() kernel.ContactAddress {
	return c.contact
}

func (c Candidate) DisplayName() string {
	return c.displayName
}

func (c Candidate) RegionID() string {
	return c.regionID
}

func (c Candidate) Class() Class {
	return Class{
		Category:     c.class.Category,
		VehicleClass: c.class.VehicleClass,
		Attributes:   slices.Clone(c.class.Attributes),
	}
}

// MatchesVehicleClass reports an exact, case-insensitive vehicle class match.
func (c Candidate) MatchesVehicleClass(vehicleClass string) bool {
	want := strings.ToLower(strings.TrimSpace(vehicleClass))
	return want != "" && c.class.VehicleClass == want
}

// MatchesCategory reports a category match; an empty category matches every candidate.
func (c Candidate) MatchesCategory(category string) bool {
	want := strings.ToLower(strings.TrimSpace(category))
	return want == "" || c.class.Category == want
}

func (c Candidate) IsEqual(other Candidate) bool {
	return c.id.IsEqual(other.id)
}

func (c *Candidate) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Candidate) setContact(contact kernel.ContactAddress) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	c.contact = contact
	return nil
}

func (c *Candidate) setDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("displayName")
	}
	c.displayName = name
	return nil
}

func (c *Candidate) setRegionID(regionID string) error {
	regionID = strings.TrimSpace(regionID)
	if regionID == "" {
		return errs.NewValueIsRequiredError("regionId")
	}
	c.regionID = regionID
	return nil
}
