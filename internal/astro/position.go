package astro

import (
	"fmt"
	"math"
)

// FrameICRS is the reference frame positions are expressed in. The frame is
// an opaque tag carried alongside the coordinates; no transformations between
// frames happen anywhere in this codebase.
const FrameICRS = "ICRS"

// degPerHour converts between degrees and hour angle for right ascension.
const degPerHour = 15.0

// Position is an immutable celestial position: right ascension and
// declination in decimal degrees, tagged with a reference frame.
// Construct it with NewPosition, which validates the coordinates.
type Position struct {
	ra    float64
	dec   float64
	frame string
}

// NewPosition builds an ICRS position from decimal degrees.
// Right ascension is wrapped into [0, 360). Declinations outside
// [-90, +90] are rejected rather than clamped, since clamping would
// silently move the pointing center.
func NewPosition(raDeg, decDeg float64) (Position, error) {
	return NewPositionInFrame(raDeg, decDeg, FrameICRS)
}

// NewPositionInFrame builds a position in an explicit reference frame.
func NewPositionInFrame(raDeg, decDeg float64, frame string) (Position, error) {
	if math.IsNaN(raDeg) || math.IsInf(raDeg, 0) {
		return Position{}, fmt.Errorf("right ascension is not a finite number: %v", raDeg)
	}
	if math.IsNaN(decDeg) || math.IsInf(decDeg, 0) {
		return Position{}, fmt.Errorf("declination is not a finite number: %v", decDeg)
	}
	if decDeg < -90 || decDeg > 90 {
		return Position{}, fmt.Errorf("declination %.6f out of range [-90, +90]", decDeg)
	}
	if frame == "" {
		frame = FrameICRS
	}
	return Position{ra: wrapRA(raDeg), dec: decDeg, frame: frame}, nil
}

// wrapRA normalizes a right ascension in degrees into [0, 360).
func wrapRA(deg float64) float64 {
	wrapped := math.Mod(deg, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	// math.Mod can hand back -0 for inputs like -360
	if wrapped == 0 {
		return 0
	}
	return wrapped
}

// RA returns the right ascension in decimal degrees, always in [0, 360).
func (p Position) RA() float64 { return p.ra }

// Dec returns the declination in decimal degrees, always in [-90, +90].
func (p Position) Dec() float64 { return p.dec }

// Frame returns the reference frame tag, "ICRS" unless set otherwise.
func (p Position) Frame() string { return p.frame }

// RAHours returns the right ascension expressed in decimal hours [0, 24).
func (p Position) RAHours() float64 { return p.ra / degPerHour }
