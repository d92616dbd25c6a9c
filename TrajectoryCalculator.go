package go_ballisticsolver

import (
	"fmt"
	"math"

	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
	"github.com/rs/zerolog"
)

//DefaultStepSize is the default integration step, seconds
const DefaultStepSize float64 = 0.001

//DefaultMaxTime is the default ceiling of the simulated time of flight, seconds
const DefaultMaxTime float64 = 10

//DefaultZeroingIterations is the default number of the zeroing rounds
const DefaultZeroingIterations int = 5

//sampleFractions are the fractions of the target distance the trajectory is reported at
var sampleFractions = [...]float64{0.25, 0.5, 0.75, 0.95, 1.0, 1.05}

//TrajectoryCalculator solves the zeroing of a weapon and the trajectory of a shot.
//
//The calculator keeps the settings only, so one value may be shared by any number of goroutines.
type TrajectoryCalculator struct {
	stepSize          float64
	maxTime           float64
	zeroingIterations int
	zeroingTolerance  float64
	logger            zerolog.Logger
}

//CreateTrajectoryCalculator creates an instance of the trajectory calculator with the default settings
func CreateTrajectoryCalculator() TrajectoryCalculator {
	return TrajectoryCalculator{
		stepSize:          DefaultStepSize,
		maxTime:           DefaultMaxTime,
		zeroingIterations: DefaultZeroingIterations,
		logger:            zerolog.Nop(),
	}
}

//StepSize returns the integration step in seconds
func (c TrajectoryCalculator) StepSize() float64 {
	return c.stepSize
}

//SetStepSize sets the integration step in seconds.
//
//The smaller value is, the calculation is more precise but takes more time.
func (c *TrajectoryCalculator) SetStepSize(x float64) {
	c.stepSize = x
}

//MaxTime returns the ceiling of the simulated time of flight
func (c TrajectoryCalculator) MaxTime() float64 {
	return c.maxTime
}

//SetMaxTime sets the ceiling of the simulated time of flight in seconds
func (c *TrajectoryCalculator) SetMaxTime(x float64) {
	c.maxTime = x
}

//ZeroingIterations returns the maximum number of the zeroing rounds
func (c TrajectoryCalculator) ZeroingIterations() int {
	return c.zeroingIterations
}

//SetZeroingIterations sets the maximum number of the zeroing rounds
func (c *TrajectoryCalculator) SetZeroingIterations(x int) {
	c.zeroingIterations = x
}

//ZeroingTolerance returns the aim vector change the zeroing stops at (0 - never stops early)
func (c TrajectoryCalculator) ZeroingTolerance() float64 {
	return c.zeroingTolerance
}

//SetZeroingTolerance sets the aim vector change the zeroing stops at.
//
//0 disables the early stop, so exactly ZeroingIterations rounds are done.
func (c *TrajectoryCalculator) SetZeroingTolerance(x float64) {
	c.zeroingTolerance = x
}

//SetLogger sets the logger the calculator reports the progress to. Nothing is logged by default.
func (c *TrajectoryCalculator) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

type integratorState struct {
	position vector.Vector
	velocity vector.Vector
	time     float64
}

//stepModel is the variant of the integration: how the projectile is accelerated
//and what is recorded after each step
type stepModel interface {
	acceleration(velocity vector.Vector) vector.Vector
	observe(state integratorState) error
}

//pointMass is the point mass model under drag, wind and gravity
type pointMass struct {
	physics DerivedPhysics
	table   []DataPoint
	//ρ·S/(2m)
	dragFactor float64
}

func newPointMass(weapon WeaponProfile, env EnvironmentRecord) (pointMass, error) {
	table, err := Table(weapon.DragModel)
	if err != nil {
		return pointMass{}, err
	}
	physics := DerivePhysics(weapon, env)
	return pointMass{
		physics:    physics,
		table:      table,
		dragFactor: physics.AirDensity * physics.FrontalArea / (2 * physics.Mass),
	}, nil
}

func (m pointMass) acceleration(velocity vector.Vector) vector.Vector {
	cd := dragFromTable(m.table, velocity.Magnitude()/SpeedOfSound) * m.physics.FormFactor
	relative := velocity.Subtract(m.physics.Wind)
	return relative.MultiplyByConst(m.dragFactor * cd * relative.Magnitude()).Add(m.physics.Gravity)
}

//simplifiedModel is used for zeroing, only the final position matters
type simplifiedModel struct {
	pointMass
}

func (m *simplifiedModel) observe(state integratorState) error {
	return nil
}

//complexModel samples the trajectory and applies the secondary effects to each sample
type complexModel struct {
	pointMass
	weapon  WeaponProfile
	env     EnvironmentRecord
	sg      float64
	sampled [len(sampleFractions)]bool
	results []TrajectoryResult
}

func (m *complexModel) observe(state integratorState) error {
	for i, fraction := range sampleFractions {
		distance := m.env.Distance * fraction
		if m.sampled[i] || state.position.X < distance {
			continue
		}
		r, err := m.result(state, distance)
		if err != nil {
			return err
		}
		m.results = append(m.results, r)
		m.sampled[i] = true
	}
	return nil
}

func (m *complexModel) result(state integratorState, distance float64) (TrajectoryResult, error) {
	hand := m.weapon.Twist.hand()
	speed := state.velocity.Magnitude()

	spinDrift := SpinDrift(m.sg, state.time)
	jump := AerodynamicJump(m.sg, m.weapon.Caliber, m.weapon.BulletLength, m.physics.Wind.Magnitude(), distance)
	horizontalCoriolis := HorizontalCoriolisDeflection(distance, state.time, m.env.Latitude, m.env.AimAzimuth)
	verticalCoriolis := CoriolisGravityFactor(m.env.AimAzimuth, m.env.Latitude, speed)

	p := state.position
	p.Z -= spinDrift * hand
	p.Y *= verticalCoriolis
	p.Y += jump * hand
	p.Z += horizontalCoriolis

	h, v, err := CalculateCorrections(p, m.weapon.CorrectionUnit, m.weapon.ClickValue)
	if err != nil {
		return TrajectoryResult{}, err
	}
	return TrajectoryResult{
		Distance:         int(math.Round(distance)),
		HorizontalClicks: h,
		VerticalClicks:   v,
		Energy:           int(math.Round(KineticEnergy(m.physics.Mass, speed))),
		Velocity:         int(math.Round(speed)),
		Time:             state.time,
	}, nil
}

func (c TrajectoryCalculator) initialState(weapon WeaponProfile, aim vector.Vector) integratorState {
	return integratorState{
		position: vector.Create(0, weapon.ScopeHeight/1000, 0),
		velocity: aim.MultiplyByConst(weapon.MuzzleVelocity),
	}
}

//integrate advances the state by the explicit Euler method until the projectile passes the distance
func (c TrajectoryCalculator) integrate(state *integratorState, until float64, model stepModel) error {
	if c.stepSize <= 0 || c.maxTime <= 0 {
		return fmt.Errorf("step size %g and time ceiling %g must be positive: %w", c.stepSize, c.maxTime, ErrInvalidArgument)
	}
	for state.position.X < until {
		if state.time >= c.maxTime {
			c.logger.Debug().
				Float64("distance", state.position.X).
				Float64("target", until).
				Float64("time", state.time).
				Msg("time ceiling reached")
			return fmt.Errorf("reached %.1fm of %.1fm in %gs: %w", state.position.X, until, c.maxTime, ErrSimulationDivergence)
		}
		state.velocity = state.velocity.Subtract(model.acceleration(state.velocity).MultiplyByConst(c.stepSize))
		state.position = state.position.Add(state.velocity.MultiplyByConst(c.stepSize))
		state.time += c.stepSize
		if err := model.observe(*state); err != nil {
			return err
		}
	}
	return nil
}

func checkDistance(distance float64) error {
	if !(distance > 0) || math.IsInf(distance, 0) {
		return fmt.Errorf("distance %g must be positive: %w", distance, ErrInvalidArgument)
	}
	return nil
}

//simplifiedTrajectory returns the point the projectile fired along the aim vector passes the zeroing distance at
func (c TrajectoryCalculator) simplifiedTrajectory(weapon WeaponProfile, aim vector.Vector) (vector.Vector, error) {
	pm, err := newPointMass(weapon, weapon.Zeroing)
	if err != nil {
		return vector.Vector{}, err
	}
	state := c.initialState(weapon, aim)
	if err = c.integrate(&state, weapon.Zeroing.Distance, &simplifiedModel{pointMass: pm}); err != nil {
		return vector.Vector{}, err
	}
	return state.position, nil
}

//SolveZeroing finds the aim vector which hits the line of sight at the zeroing distance
//under the zeroing conditions of the weapon.
//
//The returned profile is a copy of the weapon with AimVector set.
func (c TrajectoryCalculator) SolveZeroing(weapon WeaponProfile) (WeaponProfile, error) {
	if err := checkDistance(weapon.Zeroing.Distance); err != nil {
		return weapon, fmt.Errorf("zeroing %s: %w", weapon.Name, err)
	}

	aim := vector.Create(1, 0, 0)
	for i := 0; i < c.zeroingIterations; i++ {
		hit, err := c.simplifiedTrajectory(weapon, aim)
		if err != nil {
			return weapon, fmt.Errorf("zeroing %s: %w", weapon.Name, err)
		}
		h := hit.Normalize()
		next := vector.Create(1, aim.Y-h.Y, aim.Z-h.Z).Normalize()
		change := next.Subtract(aim).Magnitude()
		aim = next

		c.logger.Debug().
			Str("weapon", weapon.Name).
			Int("round", i+1).
			Stringer("hit", hit).
			Float64("change", change).
			Msg("zeroing round")

		if c.zeroingTolerance > 0 && change < c.zeroingTolerance {
			break
		}
	}

	weapon.AimVector = aim
	return weapon, nil
}

//SolveTrajectory calculates the trajectory of the zeroed weapon shot under the conditions specified.
//
//The result has one sample per fraction of the distance (0.25, 0.5, 0.75, 0.95, 1 and 1.05)
//ordered by the distance.
func (c TrajectoryCalculator) SolveTrajectory(weapon WeaponProfile, env EnvironmentRecord) ([]TrajectoryResult, error) {
	if !weapon.IsZeroed() {
		return nil, fmt.Errorf("weapon %s is not zeroed: %w", weapon.Name, ErrInvalidArgument)
	}
	if _, err := weapon.CorrectionUnit.angular(); err != nil {
		return nil, err
	}
	if err := checkDistance(env.Distance); err != nil {
		return nil, err
	}

	pm, err := newPointMass(weapon, env)
	if err != nil {
		return nil, err
	}
	model := &complexModel{
		pointMass: pm,
		weapon:    weapon,
		env:       env,
		sg:        StabilityFactor(weapon.BulletMass, weapon.ThreadPitch, weapon.Caliber, weapon.BulletLength),
		results:   make([]TrajectoryResult, 0, len(sampleFractions)),
	}
	state := c.initialState(weapon, weapon.AimVector)
	until := env.Distance * sampleFractions[len(sampleFractions)-1]
	if err = c.integrate(&state, until, model); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("weapon", weapon.Name).
		Float64("distance", env.Distance).
		Int("samples", len(model.results)).
		Float64("time", state.time).
		Msg("trajectory solved")
	return model.results, nil
}

//SolveZeroing zeroes the weapon using the default calculator
func SolveZeroing(weapon WeaponProfile) (WeaponProfile, error) {
	return CreateTrajectoryCalculator().SolveZeroing(weapon)
}

//SolveTrajectory calculates the trajectory using the default calculator
func SolveTrajectory(weapon WeaponProfile, env EnvironmentRecord) ([]TrajectoryResult, error) {
	return CreateTrajectoryCalculator().SolveTrajectory(weapon, env)
}
