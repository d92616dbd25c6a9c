package unit

import (
	"fmt"
	"strings"
)

//DistanceMeter is the value indicating that the distance value is set in meters
const DistanceMeter byte = 10

//DistanceMillimeter is the value indicating that the distance value is set in millimeters
const DistanceMillimeter byte = 11

//DistanceInch is the value indicating that the distance value is set in inches
const DistanceInch byte = 12

//DistanceFoot is the value indicating that the distance value is set in feet
const DistanceFoot byte = 13

//DistanceYard is the value indicating that the distance value is set in yards
const DistanceYard byte = 14

func distanceToMeters(value float64, units byte) (float64, error) {
	switch units {
	case DistanceMeter:
		return value, nil
	case DistanceMillimeter:
		return value / 1000, nil
	case DistanceInch:
		return value * 0.0254, nil
	case DistanceFoot:
		return value * 0.3048, nil
	case DistanceYard:
		return value * 0.9144, nil
	default:
		return 0, fmt.Errorf("Distance: unit %d is not supported", units)
	}
}

func distanceFromMeters(value float64, units byte) (float64, error) {
	switch units {
	case DistanceMeter:
		return value, nil
	case DistanceMillimeter:
		return value * 1000, nil
	case DistanceInch:
		return value / 0.0254, nil
	case DistanceFoot:
		return value / 0.3048, nil
	case DistanceYard:
		return value / 0.9144, nil
	default:
		return 0, fmt.Errorf("Distance: unit %d is not supported", units)
	}
}

//Distance keeps a distance value
type Distance struct {
	value        float64
	defaultUnits byte
}

//CreateDistance creates a distance value.
//
//units are measurement unit and may be any value from
//unit.Distance* constants.
func CreateDistance(value float64, units byte) (Distance, error) {
	v, err := distanceToMeters(value, units)
	if err != nil {
		return Distance{}, err
	}
	return Distance{value: v, defaultUnits: units}, nil
}

//MustCreateDistance creates the distance value but panics instead of returning an error
func MustCreateDistance(value float64, units byte) Distance {
	v, err := CreateDistance(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//Value returns the value of the distance in the specified units.
func (v Distance) Value(units byte) (float64, error) {
	return distanceFromMeters(v.value, units)
}

//In converts the value in the specified units.
//Returns 0 if unit conversion is not possible.
func (v Distance) In(units byte) float64 {
	x, err := distanceFromMeters(v.value, units)
	if err != nil {
		return 0
	}
	return x
}

//Convert changes the units the distance is displayed in
func (v Distance) Convert(units byte) Distance {
	return Distance{value: v.value, defaultUnits: units}
}

//Units return the units in which the value is measured
func (v Distance) Units() byte {
	return v.defaultUnits
}

func (v Distance) String() string {
	x, err := distanceFromMeters(v.value, v.defaultUnits)
	if err != nil {
		return "!error: default units aren't correct"
	}
	switch v.defaultUnits {
	case DistanceMeter:
		return fmt.Sprintf("%.0fm", x)
	case DistanceMillimeter:
		return fmt.Sprintf("%.1fmm", x)
	case DistanceInch:
		return fmt.Sprintf("%.2f\"", x)
	case DistanceFoot:
		return fmt.Sprintf("%.1f'", x)
	default:
		return fmt.Sprintf("%.0fyd", x)
	}
}

//ParseDistanceUnit converts a unit name ("m", "mm", "in", "ft", "yd") into one of unit.Distance* constants
func ParseDistanceUnit(name string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m", "meter":
		return DistanceMeter, nil
	case "mm":
		return DistanceMillimeter, nil
	case "in", "inch":
		return DistanceInch, nil
	case "ft", "foot":
		return DistanceFoot, nil
	case "yd", "yard":
		return DistanceYard, nil
	default:
		return 0, fmt.Errorf("Distance: unit name %q is not supported", name)
	}
}
