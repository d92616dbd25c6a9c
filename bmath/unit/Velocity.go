package unit

import (
	"fmt"
	"strings"
)

//VelocityMPS is the value indicating that velocity value is expressed in meters per second
const VelocityMPS byte = 60

//VelocityKMH is the value indicating that velocity value is expressed in kilometers per hour
const VelocityKMH byte = 61

//VelocityFPS is the value indicating that velocity value is expressed in feet per second
const VelocityFPS byte = 62

//VelocityMPH is the value indicating that velocity value is expressed in miles per hour
const VelocityMPH byte = 63

func velocityToMPS(value float64, units byte) (float64, error) {
	switch units {
	case VelocityMPS:
		return value, nil
	case VelocityKMH:
		return value / 3.6, nil
	case VelocityFPS:
		return value * 0.3048, nil
	case VelocityMPH:
		return value * 0.44704, nil
	default:
		return 0, fmt.Errorf("Velocity: unit %d is not supported", units)
	}
}

func velocityFromMPS(value float64, units byte) (float64, error) {
	switch units {
	case VelocityMPS:
		return value, nil
	case VelocityKMH:
		return value * 3.6, nil
	case VelocityFPS:
		return value / 0.3048, nil
	case VelocityMPH:
		return value / 0.44704, nil
	default:
		return 0, fmt.Errorf("Velocity: unit %d is not supported", units)
	}
}

//Velocity keeps velocity or speed values
type Velocity struct {
	value        float64
	defaultUnits byte
}

//CreateVelocity creates a velocity value in the units specified (one of unit.Velocity* constants)
func CreateVelocity(value float64, units byte) (Velocity, error) {
	v, err := velocityToMPS(value, units)
	if err != nil {
		return Velocity{}, err
	}
	return Velocity{value: v, defaultUnits: units}, nil
}

//MustCreateVelocity creates a velocity value and panics if the unit is not supported
func MustCreateVelocity(value float64, units byte) Velocity {
	v, err := CreateVelocity(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//Value returns the velocity in the units specified
func (v Velocity) Value(units byte) (float64, error) {
	return velocityFromMPS(v.value, units)
}

//In returns the velocity in the units specified or 0 if the unit is not supported
func (v Velocity) In(units byte) float64 {
	x, err := velocityFromMPS(v.value, units)
	if err != nil {
		return 0
	}
	return x
}

//Convert changes the units the velocity is displayed in
func (v Velocity) Convert(units byte) Velocity {
	return Velocity{value: v.value, defaultUnits: units}
}

//Units returns the units the value was created in
func (v Velocity) Units() byte {
	return v.defaultUnits
}

func (v Velocity) String() string {
	x, err := velocityFromMPS(v.value, v.defaultUnits)
	if err != nil {
		return "!error: default units aren't correct"
	}
	switch v.defaultUnits {
	case VelocityMPS:
		return fmt.Sprintf("%.0fm/s", x)
	case VelocityKMH:
		return fmt.Sprintf("%.0fkm/h", x)
	case VelocityFPS:
		return fmt.Sprintf("%.0fft/s", x)
	default:
		return fmt.Sprintf("%.0fmph", x)
	}
}

//ParseVelocityUnit converts "m/s", "km/h", "fps" or "mph" into one of unit.Velocity* constants
func ParseVelocityUnit(name string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m/s", "mps":
		return VelocityMPS, nil
	case "km/h", "kmh":
		return VelocityKMH, nil
	case "ft/s", "fps":
		return VelocityFPS, nil
	case "mph":
		return VelocityMPH, nil
	default:
		return 0, fmt.Errorf("Velocity: unit name %q is not supported", name)
	}
}
