package go_ballisticsolver_test

import (
	"errors"
	"testing"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

func TestCorrectionsMRad(t *testing.T) {
	h, v, err := go_ballisticsolver.CalculateCorrections(vector.Create(100, 1, 0.2), go_ballisticsolver.CorrectionMilliradian, 1)
	if err != nil {
		t.Fatal(err)
	}
	if h != 2 || v != 10 {
		t.Errorf("Corrections failed %d/%d", h, v)
	}
}

func TestCorrectionsMOA(t *testing.T) {
	h, v, err := go_ballisticsolver.CalculateCorrections(vector.Create(100, -0.0290888, -2.90888), go_ballisticsolver.CorrectionMOA, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if h != -400 || v != -4 {
		t.Errorf("Corrections failed %d/%d", h, v)
	}
}

func TestCorrectionsInvalid(t *testing.T) {
	_, _, err := go_ballisticsolver.CalculateCorrections(vector.Create(100, 0, 0), go_ballisticsolver.CorrectionUnit(2), 1)
	if !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Unknown unit accepted: %v", err)
	}
	_, _, err = go_ballisticsolver.CalculateCorrections(vector.Create(100, 0, 0), go_ballisticsolver.CorrectionMOA, 0)
	if !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Zero click value accepted: %v", err)
	}
}

func TestKineticEnergy(t *testing.T) {
	assertEqual(t, go_ballisticsolver.KineticEnergy(0.001, 700), 245, 1e-9, "Energy(1g)")
	assertEqual(t, go_ballisticsolver.KineticEnergy(0.014, 890), 5544.7, 1e-6, "Energy(14g)")
}
