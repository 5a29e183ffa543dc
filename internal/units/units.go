// Package units holds the numeric helpers shared by the engines: angle and
// length conversions, 2D vector magnitude/heading, clamping and snapping.
package units

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Scale converts between meters and pixels.
type Scale float64

func (s Scale) ToPixels(m float64) float64 {
	return m * float64(s)
}

func (s Scale) ToMeters(px float64) float64 {
	if s == 0 {
		return 0
	}
	return px / float64(s)
}

// VecToPixels scales a physical-frame vector and flips y for a screen whose
// origin is the top-left corner and whose height is h pixels.
func (s Scale) VecToPixels(v mgl64.Vec2, h float64) mgl64.Vec2 {
	return mgl64.Vec2{s.ToPixels(v.X()), h - s.ToPixels(v.Y())}
}

func Magnitude(v mgl64.Vec2) float64 {
	return v.Len()
}

// Heading returns the direction of v in radians, counter-clockwise from +x.
// A zero vector has heading 0.
func Heading(v mgl64.Vec2) float64 {
	if v.X() == 0 && v.Y() == 0 {
		return 0
	}
	return math.Atan2(v.Y(), v.X())
}

// Direction is the unit vector along v, or the zero vector when v has no length.
func Direction(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

// Clamp bounds x into [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SnapZero returns 0 when |x| < eps.
func SnapZero(x, eps float64) float64 {
	if math.Abs(x) < eps {
		return 0
	}
	return x
}

// WrapAngle maps an angle into [-π, π). Display only; engines keep raw angles.
func WrapAngle(a float64) float64 {
	w := math.Mod(a+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

// ClampStep sanitises a frame delta: non-finite or negative deltas become 0,
// and anything above max is cut to max.
func ClampStep(dt, max float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return 0
	}
	if dt > max {
		return max
	}
	return dt
}
