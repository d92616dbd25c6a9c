package go_ballisticsolver

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

//StandardGravity is the magnitude of the gravity acceleration, m/s²
const StandardGravity float64 = 9.81

const cGasConstantDryAir float64 = 287.058
const cGasConstantWaterVapor float64 = 461.495
const cKelvinOffset float64 = 273.15
const cGrainsPerGram float64 = 15.432
const cGrainsPerPound float64 = 7000
const cInchesPerMillimeter float64 = 0.03937

//DerivedPhysics keeps the constants of one solve derived from the weapon and the environment
type DerivedPhysics struct {
	AirDensity  float64
	FrontalArea float64
	FormFactor  float64
	//Mass is the bullet mass in kilograms
	Mass    float64
	Wind    vector.Vector
	Gravity vector.Vector
}

//AirDensity calculates the density of the humid air (kg/m³) using the pressure in hPa,
//the temperature in °C and the relative humidity in percent
func AirDensity(pressure, temperature, humidity float64) float64 {
	tk := temperature + cKelvinOffset
	saturation := 6.1078 * math.Pow(10, 7.5*temperature/(temperature+237.3))
	pv := saturation * humidity / 100
	pd := pressure - pv
	return 100 * (pd/(cGasConstantDryAir*tk) + pv/(cGasConstantWaterVapor*tk))
}

//FrontalArea returns the cross-section area (m²) of the bullet with caliber in meters
func FrontalArea(caliber float64) float64 {
	r := caliber / 2
	return math.Pi * r * r
}

//FormFactor returns the ratio of the bullet drag to the drag of the standard projectile.
//
//The mass is in grams and the caliber is in millimeters.
func FormFactor(ballisticCoefficient, mass, caliber float64) float64 {
	grains := mass * cGrainsPerGram
	inches := caliber * cInchesPerMillimeter
	return (grains / cGrainsPerPound) / (ballisticCoefficient * inches * inches)
}

//deltaAngle returns the shortest signed difference between two angles in degrees, [-180, 180]
func deltaAngle(current, target float64) float64 {
	d := target - current
	d = d - math.Floor(d/360)*360
	if d > 180 {
		d -= 360
	}
	return d
}

//WindVector returns the wind velocity in the shooter frame.
//
//The wind azimuth is the direction the wind blows from, so it is turned by 180°
//before being compared with the aim azimuth.
func WindVector(aimAzimuth, windAzimuth, speed float64) vector.Vector {
	windAzimuth = math.Mod(windAzimuth+180, 360)
	delta := deltaAngle(windAzimuth, aimAzimuth) * math.Pi / 180
	return vector.Create(math.Cos(delta), 0, math.Sin(delta)).MultiplyByConst(speed)
}

//GravityVector returns the gravity acceleration in the frame of a barrel elevated by elevation degrees
func GravityVector(elevation float64) vector.Vector {
	e := elevation * math.Pi / 180
	return vector.Create(math.Sin(e)*StandardGravity, -math.Cos(e)*StandardGravity, 0)
}

//DerivePhysics calculates the constants of a solve
func DerivePhysics(weapon WeaponProfile, env EnvironmentRecord) DerivedPhysics {
	return DerivedPhysics{
		AirDensity:  AirDensity(env.Pressure, env.Temperature, env.Humidity),
		FrontalArea: FrontalArea(weapon.Caliber / 1000),
		FormFactor:  FormFactor(weapon.BallisticCoefficient, weapon.BulletMass, weapon.Caliber),
		Mass:        weapon.BulletMass / 1000,
		Wind:        WindVector(env.AimAzimuth, env.WindAzimuth, env.WindSpeed),
		Gravity:     GravityVector(env.BarrelElevation),
	}
}
