package storage

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticsolver"
)

//Range is the accepted interval of an input value and the value used when the input is not a number
type Range struct {
	Min, Max, Default float64
}

//Clamp limits the value to the range, NaN is replaced by the default
func (r Range) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return r.Default
	}
	return math.Max(r.Min, math.Min(r.Max, value))
}

//Ranges of the weapon profile fields
var (
	CaliberRange        = Range{1, 20, 9}
	BulletMassRange     = Range{0.1, 200, 11}
	BCRange             = Range{0.01, 1, 0.2}
	BulletLengthRange   = Range{0.1, 100, 30}
	ThreadPitchRange    = Range{1, 20, 11}
	ScopeHeightRange    = Range{1, 200, 4}
	ClickValueRange     = Range{0.01, 10, 0.25}
	MuzzleVelocityRange = Range{1, 2000, 800}
	ZeroDistanceRange   = Range{1, 3000, 100}
	ZeroHumidityRange   = Range{0, 100, 0.2}
)

//Ranges of the environment fields
var (
	DistanceRange    = Range{1, 5000, 100}
	PressureRange    = Range{500, 1200, 1013}
	TemperatureRange = Range{-80, 80, 15}
	HumidityRange    = Range{0, 100, 0}
	LatitudeRange    = Range{-90, 90, 0}
	LongitudeRange   = Range{-180, 180, 0}
	AzimuthRange     = Range{0, 360, 0}
	ElevationRange   = Range{-90, 90, 0}
	WindSpeedRange   = Range{0, 50, 0}
)

//ClampWeapon limits the fields of the profile to the values the calculator is known to handle
func ClampWeapon(w go_ballisticsolver.WeaponProfile) go_ballisticsolver.WeaponProfile {
	w.Caliber = CaliberRange.Clamp(w.Caliber)
	w.BulletMass = BulletMassRange.Clamp(w.BulletMass)
	w.BallisticCoefficient = BCRange.Clamp(w.BallisticCoefficient)
	w.BulletLength = BulletLengthRange.Clamp(w.BulletLength)
	w.ThreadPitch = ThreadPitchRange.Clamp(w.ThreadPitch)
	w.ScopeHeight = ScopeHeightRange.Clamp(w.ScopeHeight)
	w.ClickValue = ClickValueRange.Clamp(w.ClickValue)
	w.MuzzleVelocity = MuzzleVelocityRange.Clamp(w.MuzzleVelocity)

	zeroDistance := ZeroDistanceRange.Clamp(w.Zeroing.Distance)
	zeroHumidity := ZeroHumidityRange.Clamp(w.Zeroing.Humidity)
	w.Zeroing = ClampEnvironment(w.Zeroing)
	w.Zeroing.Distance = zeroDistance
	w.Zeroing.Humidity = zeroHumidity
	return w
}

//ClampEnvironment limits the fields of the conditions to the accepted ranges
func ClampEnvironment(env go_ballisticsolver.EnvironmentRecord) go_ballisticsolver.EnvironmentRecord {
	env.Distance = DistanceRange.Clamp(env.Distance)
	env.Pressure = PressureRange.Clamp(env.Pressure)
	env.Temperature = TemperatureRange.Clamp(env.Temperature)
	env.Humidity = HumidityRange.Clamp(env.Humidity)
	env.Latitude = LatitudeRange.Clamp(env.Latitude)
	env.AimAzimuth = AzimuthRange.Clamp(env.AimAzimuth)
	env.BarrelElevation = ElevationRange.Clamp(env.BarrelElevation)
	env.WindSpeed = WindSpeedRange.Clamp(env.WindSpeed)
	env.WindAzimuth = AzimuthRange.Clamp(env.WindAzimuth)
	env.WeatherLatitude = LatitudeRange.Clamp(env.WeatherLatitude)
	env.WeatherLongitude = LongitudeRange.Clamp(env.WeatherLongitude)
	return env
}
