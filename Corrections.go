package go_ballisticsolver

import (
	"fmt"
	"math"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/unit"
	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

//CorrectionUnit is the angular unit of the sight turrets
type CorrectionUnit byte

//CorrectionMilliradian means the turret clicks are set in milliradians
const CorrectionMilliradian CorrectionUnit = 0

//CorrectionMOA means the turret clicks are set in minutes of angle
const CorrectionMOA CorrectionUnit = 1

func (u CorrectionUnit) String() string {
	switch u {
	case CorrectionMilliradian:
		return "mrad"
	case CorrectionMOA:
		return "MOA"
	default:
		return fmt.Sprintf("CorrectionUnit(%d)", byte(u))
	}
}

func (u CorrectionUnit) angular() (byte, error) {
	switch u {
	case CorrectionMilliradian:
		return unit.AngularMRad, nil
	case CorrectionMOA:
		return unit.AngularMOA, nil
	default:
		return 0, fmt.Errorf("unknown angular unit %d: %w", byte(u), ErrInvalidArgument)
	}
}

//CalculateCorrections converts the point of impact into the number of the sight clicks.
//
//The offset is the point of impact relative to the line of sight (x - towards the target,
//y - up and z - right). Each value is rounded to the nearest click, halves away from zero.
func CalculateCorrections(offset vector.Vector, correctionUnit CorrectionUnit, clickValue float64) (horizontal, vertical int, err error) {
	units, err := correctionUnit.angular()
	if err != nil {
		return 0, 0, err
	}
	if clickValue <= 0 || math.IsNaN(clickValue) {
		return 0, 0, fmt.Errorf("click value %g: %w", clickValue, ErrInvalidArgument)
	}

	h := unit.MustCreateAngular(math.Atan2(offset.Z, offset.X), unit.AngularRadian).In(units) / clickValue
	v := unit.MustCreateAngular(math.Atan2(offset.Y, offset.X), unit.AngularRadian).In(units) / clickValue
	return int(math.Round(h)), int(math.Round(v)), nil
}
