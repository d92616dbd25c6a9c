package go_ballisticsolver

import "math"

//EarthRotationRate is the angular velocity of the Earth, rad/s
const EarthRotationRate float64 = 7.292e-5

//StabilityFactor calculates the gyroscopic stability factor by the Miller twist rule.
//
//The mass is in grams, the thread pitch in inches per turn, the caliber and length in millimeters.
func StabilityFactor(mass, threadPitch, caliber, length float64) float64 {
	d := caliber * cInchesPerMillimeter
	t := threadPitch / d
	l := length / caliber
	return 462.970752 * mass / (t * t * d * d * d * l * (1 + l*l))
}

//SpinDrift returns the lateral drift (m) after the time of flight t
func SpinDrift(sg, t float64) float64 {
	return (sg + 1.2) * math.Pow(t, 1.83) / 31.49606
}

//AerodynamicJump returns the vertical deflection (m) caused by the cross wind at the distance
func AerodynamicJump(sg, caliber, length, windSpeed, distance float64) float64 {
	l := length / caliber
	mrad := windSpeed * (sg - 0.24*l + 3.2) / 153.681142
	return mrad * distance / 1000
}

//HorizontalCoriolisDeflection returns the horizontal Coriolis deflection (m)
func HorizontalCoriolisDeflection(distance, t, latitude, azimuth float64) float64 {
	return distance * math.Sin(latitude*math.Pi/180) * math.Abs(math.Cos(azimuth*math.Pi/180)) * t * EarthRotationRate
}

//CoriolisGravityFactor returns the factor the vertical drop is scaled by due to the Eötvös effect
func CoriolisGravityFactor(azimuth, latitude, speed float64) float64 {
	return 1 - 2*EarthRotationRate*speed*math.Cos(latitude*math.Pi/180)*math.Sin(azimuth*math.Pi/180)/StandardGravity
}
