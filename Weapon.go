package go_ballisticsolver

import (
	"fmt"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

//Twist is the direction of the barrel rifling
type Twist byte

//TwistRight is the right hand rifling (the bullet drifts to the right)
const TwistRight Twist = 0

//TwistLeft is the left hand rifling
const TwistLeft Twist = 1

func (t Twist) String() string {
	if t == TwistLeft {
		return "left"
	}
	return "right"
}

//hand returns +1 for the right twist and -1 for the left one
func (t Twist) hand() float64 {
	if t == TwistLeft {
		return -1
	}
	return 1
}

//EnvironmentRecord describes the conditions of a shot
type EnvironmentRecord struct {
	//Distance to the target, m
	Distance float64 `json:"distance" mapstructure:"distance"`
	//WindSpeed in m/s
	WindSpeed float64 `json:"windSpeed" mapstructure:"windSpeed"`
	//WindAzimuth is the direction the wind blows from, degrees
	WindAzimuth float64 `json:"windAzimuth" mapstructure:"windAzimuth"`
	//BarrelElevation is the inclination of the shot, degrees
	BarrelElevation float64 `json:"barrelElevation" mapstructure:"barrelElevation"`
	//Temperature in °C
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	//Pressure in hPa
	Pressure float64 `json:"pressure" mapstructure:"pressure"`
	//Humidity in percent
	Humidity float64 `json:"humidity" mapstructure:"humidity"`
	Latitude float64 `json:"latitude" mapstructure:"latitude"`
	//AimAzimuth is the direction of the shot, degrees from the north
	AimAzimuth float64 `json:"aimAzimuth" mapstructure:"aimAzimuth"`

	//Location the weather is requested for
	WeatherLatitude  float64 `json:"weatherLatitude" mapstructure:"weatherLatitude"`
	WeatherLongitude float64 `json:"weatherLongitude" mapstructure:"weatherLongitude"`
}

//DefaultEnvironment returns the conditions used when nothing else is known
func DefaultEnvironment() EnvironmentRecord {
	return EnvironmentRecord{
		Distance:    100,
		Temperature: 15,
		Pressure:    1013,
		Humidity:    0.2,
	}
}

//WeaponProfile describes the weapon, the ammunition and the way the weapon is zeroed
type WeaponProfile struct {
	Name string `json:"name" mapstructure:"name"`
	//Caliber in millimeters
	Caliber float64 `json:"caliber" mapstructure:"caliber"`
	//BulletMass in grams
	BulletMass           float64 `json:"bulletMass" mapstructure:"bulletMass"`
	BallisticCoefficient float64 `json:"ballisticCoefficient" mapstructure:"ballisticCoefficient"`
	//BulletLength in millimeters
	BulletLength float64 `json:"bulletLength" mapstructure:"bulletLength"`
	//ThreadPitch is the rifling twist rate in inches per turn
	ThreadPitch float64 `json:"threadPitch" mapstructure:"threadPitch"`
	Twist       Twist   `json:"twist" mapstructure:"twist"`
	//MuzzleVelocity in m/s
	MuzzleVelocity float64 `json:"muzzleVelocity" mapstructure:"muzzleVelocity"`
	//ScopeHeight is the height of the sight above the bore, millimeters
	ScopeHeight    float64        `json:"scopeHeight" mapstructure:"scopeHeight"`
	ClickValue     float64        `json:"clickValue" mapstructure:"clickValue"`
	CorrectionUnit CorrectionUnit `json:"correctionUnit" mapstructure:"correctionUnit"`
	DragModel      DragModel      `json:"dragModel" mapstructure:"dragModel"`

	//Zeroing keeps the conditions the weapon is zeroed under
	Zeroing EnvironmentRecord `json:"zeroing" mapstructure:"zeroing"`
	//AimVector is the unit vector of the barrel relative to the line of sight.
	//Zero vector means the weapon is not zeroed yet.
	AimVector vector.Vector `json:"aimVector" mapstructure:"aimVector"`
}

//DefaultWeapon returns a weapon profile filled with the default values of the input form
func DefaultWeapon(name string) WeaponProfile {
	zeroing := DefaultEnvironment()
	return WeaponProfile{
		Name:                 name,
		Caliber:              9,
		BulletMass:           11,
		BallisticCoefficient: 0.2,
		BulletLength:         30,
		ThreadPitch:          11,
		Twist:                TwistRight,
		MuzzleVelocity:       800,
		ScopeHeight:          4,
		ClickValue:           0.25,
		CorrectionUnit:       CorrectionMOA,
		DragModel:            DragModelG7,
		Zeroing:              zeroing,
	}
}

//IsZeroed returns true if the aim vector is solved
func (w WeaponProfile) IsZeroed() bool {
	return !w.AimVector.IsZero()
}

func (w WeaponProfile) String() string {
	return fmt.Sprintf("%s: %.2fmm %.1fg BC(%s)=%.3f %.0fm/s zero %.0fm", w.Name, w.Caliber, w.BulletMass, w.DragModel, w.BallisticCoefficient, w.MuzzleVelocity, w.Zeroing.Distance)
}
