package unit_test

import (
	"math"
	"testing"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/unit"
)

type valueReader interface {
	Value(units byte) (float64, error)
	In(units byte) float64
}

func backAndForth(t *testing.T, name string, value float64, units byte, create func(float64, byte) (valueReader, error)) {
	u, err := create(value, units)
	if err != nil {
		t.Errorf("%s: creation failed for %d", name, units)
		return
	}
	v, err := u.Value(units)
	if !(err == nil && math.Abs(v-value) < 1e-7 && math.Abs(v-u.In(units)) < 1e-7) {
		t.Errorf("%s: read back failed for %d", name, units)
	}
}

func angular(v float64, u byte) (valueReader, error)  { return unit.CreateAngular(v, u) }
func distance(v float64, u byte) (valueReader, error) { return unit.CreateDistance(v, u) }
func energy(v float64, u byte) (valueReader, error)   { return unit.CreateEnergy(v, u) }
func velocity(v float64, u byte) (valueReader, error) { return unit.CreateVelocity(v, u) }

func TestAngular(t *testing.T) {
	for _, u := range []byte{unit.AngularRadian, unit.AngularDegree, unit.AngularMOA, unit.AngularMRad, unit.AngularMil} {
		backAndForth(t, "Angular", 3, u, angular)
	}

	a := unit.MustCreateAngular(1, unit.AngularMRad)
	if math.Abs(a.In(unit.AngularMOA)-3.437747) > 1e-6 {
		t.Errorf("Conversion failed %f", a.In(unit.AngularMOA))
	}
	if a.Convert(unit.AngularMOA).String() != "3.44moa" {
		t.Errorf("To string failed: %s", a.Convert(unit.AngularMOA))
	}

	if _, err := unit.CreateAngular(1, 99); err == nil {
		t.Error("Unknown unit accepted")
	}
}

func TestDistance(t *testing.T) {
	for _, u := range []byte{unit.DistanceMeter, unit.DistanceMillimeter, unit.DistanceInch, unit.DistanceFoot, unit.DistanceYard} {
		backAndForth(t, "Distance", 3, u, distance)
	}
	if math.Abs(unit.MustCreateDistance(100, unit.DistanceYard).In(unit.DistanceMeter)-91.44) > 1e-9 {
		t.Error("Yard conversion failed")
	}
}

func TestEnergy(t *testing.T) {
	backAndForth(t, "Energy", 3, unit.EnergyJoule, energy)
	backAndForth(t, "Energy", 3, unit.EnergyFootPound, energy)
	if s := unit.MustCreateEnergy(3000, unit.EnergyJoule).Convert(unit.EnergyFootPound).String(); s != "2213ft·lb" {
		t.Errorf("To string failed: %s", s)
	}
}

func TestVelocity(t *testing.T) {
	for _, u := range []byte{unit.VelocityMPS, unit.VelocityKMH, unit.VelocityFPS, unit.VelocityMPH} {
		backAndForth(t, "Velocity", 3, u, velocity)
	}
}

func TestParseUnits(t *testing.T) {
	if u, err := unit.ParseAngularUnit("MOA"); err != nil || u != unit.AngularMOA {
		t.Error("ParseAngularUnit failed")
	}
	if u, err := unit.ParseDistanceUnit("yd"); err != nil || u != unit.DistanceYard {
		t.Error("ParseDistanceUnit failed")
	}
	if u, err := unit.ParseEnergyUnit("ftlb"); err != nil || u != unit.EnergyFootPound {
		t.Error("ParseEnergyUnit failed")
	}
	if u, err := unit.ParseVelocityUnit("fps"); err != nil || u != unit.VelocityFPS {
		t.Error("ParseVelocityUnit failed")
	}
	if _, err := unit.ParseDistanceUnit("furlong"); err == nil {
		t.Error("Unknown distance unit accepted")
	}
}
