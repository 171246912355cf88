package kernel

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

var ErrPositionIsNotConstructed = errs.NewValueIsRequiredError(
	"position must be created via NewPosition")

// Position is a candidate's last reported geographic location.
type Position struct { //nolint:recvcheck //using for validation
	lat        float64
	lon        float64
	reportedAt time.Time
	guard      guard.ConstructorGuard
}

func NewPosition(lat, lon float64, reportedAt time.Time) (Position, error) {
	pos := Position{
		reportedAt: reportedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(pos.setLat(lat), pos.setLon(lon)); err != nil {
		return Position{}, err
	}

	if reportedAt.IsZero() {
		return Position{}, errs.NewValueIsRequiredError("reportedAt")
	}

	return pos, nil
}

func (p Position) Validate() error {
	return p.guard.Validate(ErrPositionIsNotConstructed)
}

func (p Position) Lat() float64 {
	return p.lat
}

func (p Position) Lon() float64 {
	return p.lon
}

func (p Position) ReportedAt() time.Time {
	return p.reportedAt
}

func (p Position) String() string {
	return fmt.Sprintf("Position(%.6f,%.6f)", p.lat, p.lon)
}

func (p *Position) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	p.lat = lat
	return nil
}

func (p *Position) setLon(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}
	p.lon = lon
	return nil
}
