package go_ballisticsolver

import "fmt"

//TrajectoryResult keeps information about one sample of the trajectory
type TrajectoryResult struct {
	//Distance to the sample, rounded to meters
	Distance         int `json:"distance"`
	HorizontalClicks int `json:"horizontalClicks"`
	VerticalClicks   int `json:"verticalClicks"`
	//Energy in joules, rounded
	Energy int `json:"energy"`
	//Velocity in m/s, rounded
	Velocity int `json:"velocity"`
	//Time of flight in seconds
	Time float64 `json:"time"`
}

func (r TrajectoryResult) String() string {
	return fmt.Sprintf("%dm: %d/%d clicks, %dm/s, %dJ, %.3fs", r.Distance, r.HorizontalClicks, r.VerticalClicks, r.Velocity, r.Energy, r.Time)
}

//KineticEnergy returns the energy in joules of the mass (kg) moving at the speed (m/s)
func KineticEnergy(mass, speed float64) float64 {
	return mass * speed * speed / 2
}
