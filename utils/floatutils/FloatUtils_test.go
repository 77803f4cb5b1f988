package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-3, -2, 2, -2},
		{9, -8, 8, 8},
	}

	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want %v have %v", test.value,
				test.min, test.max, test.want, have)
		}
		interval := r1.Interval{Min: test.min, Max: test.max}
		if have := ClipInterval(test.value, interval); have != test.want {
			t.Errorf("clipInterval(%v, %v): want %v have %v", test.value,
				interval, test.want, have)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	const tol = 1e-12
	tests := []struct {
		angle, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.25, 0.25},
		{-4*math.Pi - 0.25, -0.25},
	}

	for _, test := range tests {
		if have := NormalizeAngle(test.angle); math.Abs(have-test.want) > tol {
			t.Errorf("normalizeAngle(%v): want %v have %v", test.angle,
				test.want, have)
		}
	}
}
