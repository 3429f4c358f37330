// Package visibility selects the samples a ground station can observe and
// groups them into passes.
package visibility

import (
	"fmt"

	"github.com/star/satvis/internal/fault"
)

// Default observable altitude band for the station, in degrees.
const (
	DefaultMinAltitudeDeg = 10.0
	DefaultMaxAltitudeDeg = 85.0
)

// Window is an inclusive altitude band.
type Window struct {
	MinAltitudeDeg float64
	MaxAltitudeDeg float64
}

// DefaultWindow returns the [10, 85] degree band.
func DefaultWindow() Window {
	return Window{MinAltitudeDeg: DefaultMinAltitudeDeg, MaxAltitudeDeg: DefaultMaxAltitudeDeg}
}

// Contains reports whether alt lies in the band, bounds included.
// NaN is never contained.
func (w Window) Contains(altDeg float64) bool {
	return altDeg >= w.MinAltitudeDeg && altDeg <= w.MaxAltitudeDeg
}

// Validate checks that the band is ordered and within [-90, 90].
func (w Window) Validate() error {
	if w.MinAltitudeDeg < -90 || w.MaxAltitudeDeg > 90 {
		return fmt.Errorf("altitude window [%g, %g] outside [-90, 90]", w.MinAltitudeDeg, w.MaxAltitudeDeg)
	}
	if w.MinAltitudeDeg > w.MaxAltitudeDeg {
		return fmt.Errorf("altitude window min %g greater than max %g", w.MinAltitudeDeg, w.MaxAltitudeDeg)
	}
	return nil
}

// Filter returns the timestamps whose altitude lies in w, in input order.
// times and altitudes must be parallel. An empty result is not an error.
func Filter(times []string, altitudes []float64, w Window) ([]string, error) {
	if len(times) != len(altitudes) {
		return nil, fault.Errorf(fault.InvalidInput, "filtering visibility",
			"%d timestamps but %d altitudes", len(times), len(altitudes))
	}

	visible := make([]string, 0, len(times))
	for i, alt := range altitudes {
		if w.Contains(alt) {
			visible = append(visible, times[i])
		}
	}
	return visible, nil
}
