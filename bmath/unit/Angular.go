//Package unit implements the measurement units used to enter and to report
//ballistic values.
//
//Each value keeps its magnitude in the base unit of the quantity (radians,
//meters, joules, meters per second) together with the unit it was created in,
//which is used by String.
package unit

import (
	"fmt"
	"math"
	"strings"
)

//AngularRadian is the value indicating that the angle is set in radians
const AngularRadian byte = 0

//AngularDegree is the value indicating that the angle is set in degrees
const AngularDegree byte = 1

//AngularMOA is the value indicating that the angle is set in minutes of angle
const AngularMOA byte = 2

//AngularMRad is the value indicating that the angle is set in milliradians
const AngularMRad byte = 3

//AngularMil is the value indicating that the angle is set in NATO mils (1/6400 of the circle)
const AngularMil byte = 4

func angularToRadians(value float64, units byte) (float64, error) {
	switch units {
	case AngularRadian:
		return value, nil
	case AngularDegree:
		return value / 180 * math.Pi, nil
	case AngularMOA:
		return value / 60 / 180 * math.Pi, nil
	case AngularMRad:
		return value / 1000, nil
	case AngularMil:
		return value / 3200 * math.Pi, nil
	default:
		return 0, fmt.Errorf("Angular: unit %d is not supported", units)
	}
}

func angularFromRadians(value float64, units byte) (float64, error) {
	switch units {
	case AngularRadian:
		return value, nil
	case AngularDegree:
		return value * 180 / math.Pi, nil
	case AngularMOA:
		return value * (180 / math.Pi) * 60, nil
	case AngularMRad:
		return value * 1000, nil
	case AngularMil:
		return value * 3200 / math.Pi, nil
	default:
		return 0, fmt.Errorf("Angular: unit %d is not supported", units)
	}
}

//Angular keeps an angle
type Angular struct {
	value        float64
	defaultUnits byte
}

//CreateAngular creates an angle in the units specified (one of unit.Angular* constants)
func CreateAngular(value float64, units byte) (Angular, error) {
	v, err := angularToRadians(value, units)
	if err != nil {
		return Angular{}, err
	}
	return Angular{value: v, defaultUnits: units}, nil
}

//MustCreateAngular creates an angle and panics if the unit is not supported
func MustCreateAngular(value float64, units byte) Angular {
	v, err := CreateAngular(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//Value returns the angle in the units specified
func (v Angular) Value(units byte) (float64, error) {
	return angularFromRadians(v.value, units)
}

//In returns the angle in the units specified or 0 if the unit is not supported
func (v Angular) In(units byte) float64 {
	x, err := angularFromRadians(v.value, units)
	if err != nil {
		return 0
	}
	return x
}

//Convert changes the units the angle is displayed in
func (v Angular) Convert(units byte) Angular {
	return Angular{value: v.value, defaultUnits: units}
}

//Units returns the units the angle was created in
func (v Angular) Units() byte {
	return v.defaultUnits
}

func (v Angular) String() string {
	x, err := angularFromRadians(v.value, v.defaultUnits)
	if err != nil {
		return "!error: default units aren't correct"
	}
	switch v.defaultUnits {
	case AngularRadian:
		return fmt.Sprintf("%.6frad", x)
	case AngularDegree:
		return fmt.Sprintf("%.4f°", x)
	case AngularMOA:
		return fmt.Sprintf("%.2fmoa", x)
	case AngularMRad:
		return fmt.Sprintf("%.2fmrad", x)
	default:
		return fmt.Sprintf("%.2fmil", x)
	}
}

//ParseAngularUnit converts a unit name ("rad", "deg", "moa", "mrad", "mil") into
//one of unit.Angular* constants
func ParseAngularUnit(name string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rad", "radian":
		return AngularRadian, nil
	case "deg", "degree":
		return AngularDegree, nil
	case "moa":
		return AngularMOA, nil
	case "mrad", "milliradian":
		return AngularMRad, nil
	case "mil":
		return AngularMil, nil
	default:
		return 0, fmt.Errorf("Angular: unit name %q is not supported", name)
	}
}
