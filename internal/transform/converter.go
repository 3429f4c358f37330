package transform

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/star/satvis/internal/fault"
)

// ErrInvalidPoint is returned when an input row cannot be transformed.
var ErrInvalidPoint = errors.New("invalid inertial point")

// minRadiusKm rejects positions inside the Earth (polar radius is ~6357 km).
const minRadiusKm = 6200.0

// Model selects how Earth orientation is computed.
type Model string

const (
	ModelApparent Model = "apparent"
	ModelGMST     Model = "gmst"
)

// ParseModel parses a model name, case-insensitively.
func ParseModel(s string) (Model, error) {
	switch m := Model(strings.ToLower(strings.TrimSpace(s))); m {
	case ModelApparent, ModelGMST:
		return m, nil
	default:
		return "", fmt.Errorf("unknown frame model %q (want %q or %q)", s, ModelApparent, ModelGMST)
	}
}

// InertialPoint is one geocentric position at one instant.
type InertialPoint struct {
	At         time.Time
	RADeg      float64
	DecDeg     float64
	DistanceKm float64
}

// Horizontal is the topocentric result for one InertialPoint.
type Horizontal struct {
	AltitudeDeg float64 // [-90, 90]
	AzimuthDeg  float64 // [0, 360), from North through East
	RangeKm     float64
}

// Converter turns inertial points into horizontal coordinates for a fixed
// station. It holds no mutable state.
type Converter struct {
	model    Model
	station  Station
	observer ObserverPosition
}

// NewConverter creates a Converter for the station using the given model.
func NewConverter(station Station, model Model) (*Converter, error) {
	if _, err := ParseModel(string(model)); err != nil {
		return nil, fault.Wrap(fault.Transform, "creating converter", err)
	}
	return &Converter{
		model:    model,
		station:  station,
		observer: station.Observer(),
	}, nil
}

// Model returns the converter's Earth-orientation model.
func (c *Converter) Model() Model {
	return c.model
}

// Station returns the converter's station.
func (c *Converter) Station() Station {
	return c.station
}

// Convert returns one Horizontal per point, in input order. Every point is
// validated before any is transformed; one bad point fails the whole call.
func (c *Converter) Convert(points []InertialPoint) ([]Horizontal, error) {
	for i, p := range points {
		if err := validatePoint(p); err != nil {
			return nil, fault.Errorf(fault.Transform, "converting to alt/az", "row %d: %w", i, err)
		}
	}

	out := make([]Horizontal, len(points))
	for i, p := range points {
		la := ECEFToLookAngles(c.observer, c.EarthFixed(p))
		out[i] = Horizontal{
			AltitudeDeg: la.ElevationDeg,
			AzimuthDeg:  la.AzimuthDeg,
			RangeKm:     la.RangeKm,
		}
	}
	return out, nil
}

// EarthFixed returns the point's Earth-fixed position under the converter's model.
func (c *Converter) EarthFixed(p InertialPoint) PositionECEF {
	if c.model == ModelGMST {
		return GMSTToEarthFixed(p.RADeg, p.DecDeg, p.DistanceKm, p.At)
	}
	return ApparentToEarthFixed(p.RADeg, p.DecDeg, p.DistanceKm, p.At)
}

func validatePoint(p InertialPoint) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"right ascension", p.RADeg},
		{"declination", p.DecDeg},
		{"distance", p.DistanceKm},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidPoint, f.name, f.v)
		}
	}
	if p.DecDeg < -90 || p.DecDeg > 90 {
		return fmt.Errorf("%w: declination %.6f outside [-90, 90]", ErrInvalidPoint, p.DecDeg)
	}
	if p.DistanceKm < minRadiusKm {
		return fmt.Errorf("%w: distance %.3f km is inside the Earth", ErrInvalidPoint, p.DistanceKm)
	}
	if p.At.IsZero() {
		return fmt.Errorf("%w: missing observation time", ErrInvalidPoint)
	}
	return nil
}
