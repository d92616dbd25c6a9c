package go_ballisticsolver

import "errors"

//ErrSimulationDivergence is returned when the projectile does not reach the
//required distance within the simulated time ceiling
var ErrSimulationDivergence = errors.New("simulation did not reach the target distance")

//ErrInvalidArgument is returned for an argument the calculator cannot work with
//(e.g. an unknown correction unit or drag model)
var ErrInvalidArgument = errors.New("invalid argument")
