// Package transform converts geocentric inertial positions into look angles
// from a ground station.
//
// Two Earth-orientation models are available:
//
//   - apparent: the input (GCRS, treated as the J2000 mean equator) is
//     precessed to the mean equator of date, rotated by IAU 1980 nutation to
//     the true equator of date, then rotated by Greenwich apparent sidereal
//     time into an Earth-fixed frame. Precession, nutation and sidereal time
//     come from github.com/soniakeys/meeus/v3.
//   - gmst: the input is rotated by IAU-82 GMST only. This ignores precession
//     since J2000 (about 0.3° for current dates) and is kept as a fast
//     approximation and as a cross-check.
//
// Polar motion, aberration and refraction are ignored in both models, and
// UT1 is taken as UTC.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3;
// Meeus, "Astronomical Algorithms", Ch. 21-23.
package transform

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/unit"
)

// ttMinusUTC is TT-UTC in seconds: 32.184 s plus 37 leap seconds (since 2017).
const ttMinusUTC = 69.184

// Vector is a Cartesian position in kilometres.
type Vector struct {
	X, Y, Z float64
}

// FromSpherical builds a Vector from right ascension and declination in
// radians and a distance in kilometres.
func FromSpherical(raRad, decRad, distKm float64) Vector {
	cosDec := math.Cos(decRad)
	return Vector{
		X: distKm * cosDec * math.Cos(raRad),
		Y: distKm * cosDec * math.Sin(raRad),
		Z: distKm * math.Sin(decRad),
	}
}

// Norm returns the vector magnitude.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// PositionECEF is an Earth-fixed position in metres.
type PositionECEF struct {
	X, Y, Z float64
}

// JulianEpoch returns the Julian epoch (e.g. 2024.69) of a Julian Ephemeris Day.
func JulianEpoch(jde float64) float64 {
	return 2000.0 + (jde-j2000)/365.25
}

// ApparentToEarthFixed rotates a J2000 equatorial position (given as RA/Dec
// in degrees and distance in km) into the Earth-fixed frame at t using
// precession, nutation and apparent sidereal time.
func ApparentToEarthFixed(raDeg, decDeg, distKm float64, t time.Time) PositionECEF {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	jde := jd + ttMinusUTC/86400.0

	// Precession: J2000 mean equator -> mean equator of date.
	j2000Eq := &coord.Equatorial{RA: unit.RAFromDeg(raDeg), Dec: unit.AngleFromDeg(decDeg)}
	ofDate := &coord.Equatorial{}
	precess.NewPrecessor(2000.0, JulianEpoch(jde)).Precess(j2000Eq, ofDate)

	mean := FromSpherical(ofDate.RA.Rad(), ofDate.Dec.Rad(), distKm)
	trueOfDate := nutate(mean, jde)

	return rotateEarth(trueOfDate, GAST(t))
}

// GMSTToEarthFixed rotates an inertial position into the Earth-fixed frame
// at t using GMST only.
func GMSTToEarthFixed(raDeg, decDeg, distKm float64, t time.Time) PositionECEF {
	v := FromSpherical(raDeg*math.Pi/180.0, decDeg*math.Pi/180.0, distKm)
	return rotateEarth(v, GMST(t))
}

// nutate applies N = R1(-ε)·R3(-Δψ)·R1(ε0), taking a mean-of-date vector to
// the true equator and equinox of date.
func nutate(v Vector, jde float64) Vector {
	dPsi, dEps := nutation.Nutation(jde)
	eps0 := nutation.MeanObliquity(jde)
	eps := eps0 + dEps

	v = rotX(v, eps0.Rad())
	v = rotZ(v, -dPsi.Rad())
	return rotX(v, -eps.Rad())
}

// rotateEarth applies R3(θ) and converts km to metres.
func rotateEarth(v Vector, theta float64) PositionECEF {
	r := satellite.ECIToECEF(satellite.Vector3{X: v.X, Y: v.Y, Z: v.Z}, theta)
	return PositionECEF{
		X: r.X * 1000.0,
		Y: r.Y * 1000.0,
		Z: r.Z * 1000.0,
	}
}

// rotX is the frame rotation R1(a).
func rotX(v Vector, a float64) Vector {
	s, c := math.Sincos(a)
	return Vector{
		X: v.X,
		Y: c*v.Y + s*v.Z,
		Z: -s*v.Y + c*v.Z,
	}
}

// rotZ is the frame rotation R3(a).
func rotZ(v Vector, a float64) Vector {
	s, c := math.Sincos(a)
	return Vector{
		X: c*v.X + s*v.Y,
		Y: -s*v.X + c*v.Y,
		Z: v.Z,
	}
}
