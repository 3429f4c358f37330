package transform

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// GMST returns Greenwich mean sidereal time in radians at t (IAU 1982,
// UT1 taken as UTC). It is the Earth rotation angle of the gmst model.
func GMST(t time.Time) float64 {
	return wrapTwoPi(sidereal.Mean(julian.TimeToJD(t.UTC())).Rad())
}

// GAST returns Greenwich apparent sidereal time in radians at t: GMST plus
// the equation of the equinoxes. It is the Earth rotation angle of the
// apparent model.
func GAST(t time.Time) float64 {
	return wrapTwoPi(sidereal.Apparent(julian.TimeToJD(t.UTC())).Rad())
}

// EquationOfEquinoxes returns GAST - GMST in seconds of time, wrapped to
// (-43200, 43200].
func EquationOfEquinoxes(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	d := float64(sidereal.Apparent(jd) - sidereal.Mean(jd))
	switch {
	case d > 43200:
		d -= 86400
	case d <= -43200:
		d += 86400
	}
	return d
}

func wrapTwoPi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
