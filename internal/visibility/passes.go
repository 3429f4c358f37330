package visibility

import (
	"time"

	"github.com/star/satvis/internal/fault"
)

// Point is one converted row: when it was observed and where it appeared.
type Point struct {
	Time        string
	At          time.Time
	AltitudeDeg float64
	AzimuthDeg  float64
}

// Pass is a maximal run of consecutive visible rows.
type Pass struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	StartTime      string    `json:"start_text"`
	EndTime        string    `json:"end_text"`
	Samples        int       `json:"samples"`
	MaxAltitudeDeg float64   `json:"max_altitude"`
	MaxAltitudeAt  time.Time `json:"max_altitude_at"`
	AzimuthAtMax   float64   `json:"azimuth_at_max"`
	StartAzimuth   float64   `json:"start_azimuth"`
	EndAzimuth     float64   `json:"end_azimuth"`
}

// Duration is the time between the first and last visible sample.
func (p Pass) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Passes groups consecutive in-window rows into passes. Rows are taken in
// the given order; any row outside w (or a gap in time larger than maxGap,
// when maxGap > 0) closes the current pass.
func Passes(points []Point, w Window, maxGap time.Duration) []Pass {
	var (
		passes []Pass
		cur    *Pass
		prevAt time.Time
	)

	closePass := func() {
		if cur != nil {
			passes = append(passes, *cur)
			cur = nil
		}
	}

	for _, p := range points {
		if !w.Contains(p.AltitudeDeg) {
			closePass()
			continue
		}

		if cur != nil && maxGap > 0 && p.At.Sub(prevAt) > maxGap {
			closePass()
		}

		if cur == nil {
			// Rising.
			cur = &Pass{
				Start:          p.At,
				StartTime:      p.Time,
				StartAzimuth:   p.AzimuthDeg,
				MaxAltitudeDeg: p.AltitudeDeg,
				MaxAltitudeAt:  p.At,
				AzimuthAtMax:   p.AzimuthDeg,
			}
		}

		if p.AltitudeDeg > cur.MaxAltitudeDeg {
			cur.MaxAltitudeDeg = p.AltitudeDeg
			cur.MaxAltitudeAt = p.At
			cur.AzimuthAtMax = p.AzimuthDeg
		}
		cur.End = p.At
		cur.EndTime = p.Time
		cur.EndAzimuth = p.AzimuthDeg
		cur.Samples++
		prevAt = p.At
	}
	closePass()

	return passes
}

// Points zips parallel slices into Points.
func Points(times []string, at []time.Time, altitudes, azimuths []float64) ([]Point, error) {
	n := len(times)
	if len(at) != n || len(altitudes) != n || len(azimuths) != n {
		return nil, fault.Errorf(fault.InvalidInput, "building pass points",
			"mismatched lengths: %d times, %d instants, %d altitudes, %d azimuths",
			len(times), len(at), len(altitudes), len(azimuths))
	}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{Time: times[i], At: at[i], AltitudeDeg: altitudes[i], AzimuthDeg: azimuths[i]}
	}
	return pts, nil
}
