package units

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAngleConversion(t *testing.T) {
	tests := []struct {
		deg, rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
	}

	for _, tt := range tests {
		if got := DegToRad(tt.deg); math.Abs(got-tt.rad) > 1e-12 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if got := RadToDeg(tt.rad); math.Abs(got-tt.deg) > 1e-9 {
			t.Errorf("RadToDeg(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}

func TestScale(t *testing.T) {
	s := Scale(50)

	if got := s.ToPixels(2); got != 100 {
		t.Errorf("ToPixels(2) = %v, want 100", got)
	}
	if got := s.ToMeters(25); got != 0.5 {
		t.Errorf("ToMeters(25) = %v, want 0.5", got)
	}
	if got := Scale(0).ToMeters(10); got != 0 {
		t.Errorf("zero scale should map to 0, got %v", got)
	}

	p := s.VecToPixels(mgl64.Vec2{1, 1}, 400)
	if p.X() != 50 || p.Y() != 350 {
		t.Errorf("VecToPixels = %v, want [50 350]", p)
	}
}

func TestHeadingAndDirection(t *testing.T) {
	if got := Heading(mgl64.Vec2{0, 2}); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("Heading up = %v", got)
	}
	if got := Heading(mgl64.Vec2{}); got != 0 {
		t.Errorf("Heading of zero vector = %v, want 0", got)
	}

	d := Direction(mgl64.Vec2{3, 4})
	if math.Abs(d.Len()-1) > 1e-12 {
		t.Errorf("Direction not unit length: %v", d)
	}
	if z := Direction(mgl64.Vec2{}); z.X() != 0 || z.Y() != 0 {
		t.Errorf("Direction of zero vector = %v", z)
	}
	if got := Magnitude(mgl64.Vec2{3, 4}); got != 5 {
		t.Errorf("Magnitude = %v, want 5", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		x, lo, hi float64
		want      float64
	}{
		{"inside", 5, 1, 20, 5},
		{"below", -5, 1, 20, 1},
		{"above", 25, 1, 20, 20},
		{"nan", math.NaN(), 1, 20, 1},
		{"+inf", math.Inf(1), 1, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapZero(t *testing.T) {
	if got := SnapZero(0.1, 0.2); got != 0 {
		t.Errorf("SnapZero(0.1) = %v", got)
	}
	if got := SnapZero(-0.3, 0.2); got != -0.3 {
		t.Errorf("SnapZero(-0.3) = %v", got)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
	}

	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampStep(t *testing.T) {
	tests := []struct {
		dt, want float64
	}{
		{1.0 / 60, 1.0 / 60},
		{0.5, 1.0 / 30},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		if got := ClampStep(tt.dt, 1.0/30); got != tt.want {
			t.Errorf("ClampStep(%v) = %v, want %v", tt.dt, got, tt.want)
		}
	}
}
