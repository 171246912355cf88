package job

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Requirements constrain which candidates the roster resolver may offer a job to.
type Requirements struct {
	RegionID     string
	Category     string
	VehicleClass string
}

// NewRequirements trims and lowercases the matching keys. VehicleClass is only
// meaningful for rides and is dropped for deliveries.
func NewRequirements(kind Kind, regionID, category, vehicleClass string) (Requirements, error) {
	req := Requirements{
		RegionID: strings.TrimSpace(regionID),
		Category: strings.ToLower(strings.TrimSpace(category)),
	}
	if kind == Ride {
		req.VehicleClass = strings.ToLower(strings.TrimSpace(vehicleClass))
	}

	var err error
	if req.RegionID == "" {
		err = errs.NewValueIsRequiredError("regionId")
	}
	return req, errors.Join(err, kind.Validate())
}
