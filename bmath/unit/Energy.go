package unit

import (
	"fmt"
	"strings"
)

//EnergyJoule is the value indicating that the energy is set in joules
const EnergyJoule byte = 30

//EnergyFootPound is the value indicating that the energy is set in foot-pounds
const EnergyFootPound byte = 31

const joulesPerFootPound = 1.3558179483314

func energyToJoules(value float64, units byte) (float64, error) {
	switch units {
	case EnergyJoule:
		return value, nil
	case EnergyFootPound:
		return value * joulesPerFootPound, nil
	default:
		return 0, fmt.Errorf("Energy: unit %d is not supported", units)
	}
}

func energyFromJoules(value float64, units byte) (float64, error) {
	switch units {
	case EnergyJoule:
		return value, nil
	case EnergyFootPound:
		return value / joulesPerFootPound, nil
	default:
		return 0, fmt.Errorf("Energy: unit %d is not supported", units)
	}
}

//Energy keeps a kinetic energy value
type Energy struct {
	value        float64
	defaultUnits byte
}

//CreateEnergy creates an energy value in the units specified (one of unit.Energy* constants)
func CreateEnergy(value float64, units byte) (Energy, error) {
	v, err := energyToJoules(value, units)
	if err != nil {
		return Energy{}, err
	}
	return Energy{value: v, defaultUnits: units}, nil
}

//MustCreateEnergy creates an energy value and panics if the unit is not supported
func MustCreateEnergy(value float64, units byte) Energy {
	v, err := CreateEnergy(value, units)
	if err != nil {
		panic(err)
	}
	return v
}

//Value returns the energy in the specified units
func (v Energy) Value(units byte) (float64, error) {
	return energyFromJoules(v.value, units)
}

//In returns the energy in the specified units or 0 if the unit is not supported
func (v Energy) In(units byte) float64 {
	x, err := energyFromJoules(v.value, units)
	if err != nil {
		return 0
	}
	return x
}

//Convert changes the units the energy is displayed in
func (v Energy) Convert(units byte) Energy {
	return Energy{value: v.value, defaultUnits: units}
}

//Units returns the units the value was created in
func (v Energy) Units() byte {
	return v.defaultUnits
}

func (v Energy) String() string {
	x, err := energyFromJoules(v.value, v.defaultUnits)
	if err != nil {
		return "!error: default units aren't correct"
	}
	if v.defaultUnits == EnergyFootPound {
		return fmt.Sprintf("%.0fft·lb", x)
	}
	return fmt.Sprintf("%.0fJ", x)
}

//ParseEnergyUnit converts "J" or "ftlb" into one of unit.Energy* constants
func ParseEnergyUnit(name string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "j", "joule":
		return EnergyJoule, nil
	case "ftlb", "ft-lb", "footpound":
		return EnergyFootPound, nil
	default:
		return 0, fmt.Errorf("Energy: unit name %q is not supported", name)
	}
}
