package vector_test

import (
	"math"
	"testing"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

func sameVector(a, b vector.Vector, accuracy float64) bool {
	return math.Abs(a.X-b.X) <= accuracy && math.Abs(a.Y-b.Y) <= accuracy && math.Abs(a.Z-b.Z) <= accuracy
}

func TestVectorCreation(t *testing.T) {
	v := vector.Create(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("Create returned %s", v)
	}
	if v.IsZero() || !(vector.Vector{}).IsZero() {
		t.Error("IsZero failed")
	}
}

func TestVectorOperations(t *testing.T) {
	a := vector.Create(1, 2, 3)
	b := vector.Create(4, -5, 0.5)

	tests := []struct {
		name     string
		actual   vector.Vector
		expected vector.Vector
	}{
		{"Add", a.Add(b), vector.Create(5, -3, 3.5)},
		{"Subtract", a.Subtract(b), vector.Create(-3, 7, 2.5)},
		{"Negate", a.Negate(), vector.Create(-1, -2, -3)},
		{"MultiplyByConst", a.MultiplyByConst(-0.5), vector.Create(-0.5, -1, -1.5)},
		{"Normalize", vector.Create(0, 3, 4).Normalize(), vector.Create(0, 0.6, 0.8)},
		{"NormalizeZero", vector.Vector{}.Normalize(), vector.Vector{}},
	}
	for _, tt := range tests {
		if !sameVector(tt.actual, tt.expected, 1e-12) {
			t.Errorf("%s: %s, expected %s", tt.name, tt.actual, tt.expected)
		}
	}
}

func TestVectorScalars(t *testing.T) {
	a := vector.Create(1, 2, 3)
	if math.Abs(a.Magnitude()-3.74165738677) > 1e-7 {
		t.Errorf("Magnitude failed: %f", a.Magnitude())
	}
	if d := a.Dot(vector.Create(4, 5, 6)); d != 32 {
		t.Errorf("Dot failed: %f", d)
	}
	if m := a.Normalize().Magnitude(); math.Abs(m-1) > 1e-12 {
		t.Errorf("Normalized magnitude is %f", m)
	}
}
