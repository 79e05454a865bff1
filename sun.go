package main

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/sixdouglas/suncalc"
	"gonum.org/v1/gonum/spatial/r3"
)

type SunPos struct {
	T time.Time

	// Altitude is the altitude of the sun in the alt-azimuth coordinate
	// system, in degrees. This ranges from -90 to 90, where 0 is the
	// horizon and 90 is directly overhead.
	Altitude float64

	// Azimuth is the azimuth of the sun in the alt-azimuth coordinate
	// system, in degrees. This ranges from 0 to 360, where 0 is north
	// and 90 is east.
	Azimuth float64
}

// GetSunPos returns the sun position in horizonal alt-azimuth
// coordinates at the given time and location. Latitude and longitude
// are in degrees, where north and east are positive, respectively.
func GetSunPos(t time.Time, latitude, longitude float64) SunPos {
	p := suncalc.GetPosition(t, latitude, longitude)
	// suncalc returns angles in radians (even though it takes latitude
	// and longitude in degrees). Also, it uses a non-standard
	// convention for azimuth where -90 is east, 0 is south, 90 is west,
	// and 180 is north.
	const rad2deg = 180 / math.Pi
	return SunPos{t, p.Altitude * rad2deg, p.Azimuth*rad2deg + 180}
}

// Dir returns the unit vector pointing at the sun.
func (p SunPos) Dir() r3.Vec {
	const deg2rad = math.Pi / 180
	al := p.Altitude * deg2rad
	az := p.Azimuth * deg2rad
	return r3.Unit(r3.Vec{
		X: math.Sin(az) * math.Cos(al),
		Y: math.Cos(az) * math.Cos(al),
		Z: math.Sin(al),
	})
}

// A SunHour is the sun's position at the end of one hour of the year
// and whether the sky patch it's in is masked.
type SunHour struct {
	SunPos
	HOY   int
	Patch int       // -1 if the sun is below the horizon
	State Occlusion // Meaningful only if Patch >= 0
}

// Up reports whether the sun is above the horizon.
func (h SunHour) Up() bool {
	return h.Patch >= 0
}

// SunExposure is the sun's visibility from a viewpoint over a year.
type SunExposure struct {
	Year  int
	Hours []SunHour // One per hour of the year, starting at hour 1
}

// Location is a place on Earth. Latitude and longitude are in degrees,
// where north and east are positive, respectively.
type Location struct {
	Latitude, Longitude float64
	TZ                  *time.Location
}

// SunExposure places the sun on r's dome for every hour of year at loc
// and reports whether it falls in a masked patch.
func (r *SkyMaskResult) SunExposure(loc Location, year int) (*SunExposure, error) {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return nil, fmt.Errorf("location %v, %v out of range: %w", loc.Latitude, loc.Longitude, ErrInvalidArgument)
	}
	tz := loc.TZ
	if tz == nil {
		tz = time.UTC
	}
	const deg2rad = math.Pi / 180

	exp := &SunExposure{Year: year, Hours: make([]SunHour, HoursPerYear)}
	for i := range exp.Hours {
		hoy := i + 1
		t, err := TimeOfHour(year, hoy, tz)
		if err != nil {
			return nil, err
		}
		h := SunHour{SunPos: GetSunPos(t, loc.Latitude, loc.Longitude), HOY: hoy, Patch: -1}
		if patch, ok := r.Dome.PatchAt(h.Altitude*deg2rad, h.Azimuth*deg2rad); ok {
			h.Patch = patch
			h.State = r.States[patch]
		}
		exp.Hours[i] = h
	}
	return exp, nil
}

// DaylightHours returns the number of hours the sun is above the
// horizon.
func (e *SunExposure) DaylightHours() int {
	return lo.CountBy(e.Hours, SunHour.Up)
}

// VisibleHours returns the number of hours the sun is above the
// horizon and in a patch that isn't masked.
func (e *SunExposure) VisibleHours() int {
	return lo.CountBy(e.Hours, func(h SunHour) bool {
		return h.Up() && h.State != Masked
	})
}

// PercentVisible returns the share of daylight hours with the sun in
// view, rounded to two decimal places.
func (e *SunExposure) PercentVisible() float64 {
	day := e.DaylightHours()
	if day == 0 {
		return 0
	}
	return round2(100 * float64(e.VisibleHours()) / float64(day))
}
