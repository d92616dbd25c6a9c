//Package solver runs the zeroing and the trajectory calculations for the stored weapons,
//records the results and reports the metrics of the calculations
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/gehtsoft-usa/go_ballisticsolver/internal/solver"

//ErrNoStore is returned by the operations on the stored weapons when no store is attached
var ErrNoStore = errors.New("profile store is not attached")

//Store keeps the weapon profiles and the solve history
type Store interface {
	LoadWeapon(ctx context.Context, name string) (go_ballisticsolver.WeaponProfile, error)
	SaveWeapon(ctx context.Context, weapon go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error)
	RecordSolve(ctx context.Context, weaponName string, env go_ballisticsolver.EnvironmentRecord, results []go_ballisticsolver.TrajectoryResult) error
}

//Exporter receives the results of every solve
type Exporter interface {
	WriteSolve(weapon go_ballisticsolver.WeaponProfile, env go_ballisticsolver.EnvironmentRecord,
		results []go_ballisticsolver.TrajectoryResult, ts time.Time) error
}

//Solution is the outcome of one solve
type Solution struct {
	Weapon      go_ballisticsolver.WeaponProfile
	Environment go_ballisticsolver.EnvironmentRecord
	Results     []go_ballisticsolver.TrajectoryResult
}

//Service solves the stored weapons
type Service struct {
	calc     go_ballisticsolver.TrajectoryCalculator
	store    Store
	exporter Exporter
	logger   zerolog.Logger
	now      func() time.Time

	solves   metric.Int64Counter
	duration metric.Float64Histogram
}

//NewCalculator creates the trajectory calculator with the settings from the configuration
func NewCalculator(cfg config.SolverConfig, log zerolog.Logger) go_ballisticsolver.TrajectoryCalculator {
	calc := go_ballisticsolver.CreateTrajectoryCalculator()
	if cfg.StepSize > 0 {
		calc.SetStepSize(cfg.StepSize)
	}
	if cfg.MaxTime > 0 {
		calc.SetMaxTime(cfg.MaxTime)
	}
	if cfg.ZeroingIterations > 0 {
		calc.SetZeroingIterations(cfg.ZeroingIterations)
	}
	calc.SetZeroingTolerance(cfg.ZeroingTolerance)
	calc.SetLogger(log)
	return calc
}

//Meter returns the global meter when the telemetry is enabled and the no-op one otherwise
func Meter(cfg config.OTelConfig) metric.Meter {
	if !cfg.Enabled {
		return noop.Meter{}
	}
	return otel.Meter(instrumentationName,
		metric.WithInstrumentationAttributes(attribute.String("service.name", cfg.ServiceName)))
}

//NewService creates the service. The store and the exporter are attached later,
//because the store uses ZeroWeapon to zero the profiles it saves.
func NewService(calc go_ballisticsolver.TrajectoryCalculator, m metric.Meter, log zerolog.Logger) (*Service, error) {
	s := &Service{
		calc:   calc,
		logger: log,
		now:    time.Now,
	}

	var err error
	s.solves, err = m.Int64Counter(
		"ballistics.solves",
		metric.WithDescription("Total zeroing and trajectory calculations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating solves counter: %w", err)
	}

	s.duration, err = m.Float64Histogram(
		"ballistics.solve.duration",
		metric.WithDescription("Duration of the calculations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return s, nil
}

//SetStore attaches the profile store
func (s *Service) SetStore(store Store) {
	s.store = store
}

//SetExporter attaches the exporter of the results
func (s *Service) SetExporter(exporter Exporter) {
	s.exporter = exporter
}

//Calculator returns the calculator the service uses
func (s *Service) Calculator() go_ballisticsolver.TrajectoryCalculator {
	return s.calc
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, go_ballisticsolver.ErrSimulationDivergence):
		return "divergence"
	case errors.Is(err, go_ballisticsolver.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}

func (s *Service) measure(kind string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome(err)),
	)
	s.solves.Add(context.Background(), 1, attrs)
	s.duration.Record(context.Background(), s.now().Sub(start).Seconds(), attrs)
}

//ZeroWeapon zeroes the weapon profile
func (s *Service) ZeroWeapon(weapon go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error) {
	start := s.now()
	zeroed, err := s.calc.SolveZeroing(weapon)
	s.measure("zeroing", start, err)
	if err != nil {
		return weapon, err
	}
	s.logger.Info().Str("weapon", weapon.Name).Stringer("aim", zeroed.AimVector).Msg("Weapon zeroed")
	return zeroed, nil
}

//SolveWeapon calculates the trajectory of the weapon, zeroing it first when it is not zeroed yet
func (s *Service) SolveWeapon(weapon go_ballisticsolver.WeaponProfile, env go_ballisticsolver.EnvironmentRecord) (Solution, error) {
	var err error
	if !weapon.IsZeroed() {
		if weapon, err = s.ZeroWeapon(weapon); err != nil {
			return Solution{}, err
		}
	}

	start := s.now()
	results, err := s.calc.SolveTrajectory(weapon, env)
	s.measure("trajectory", start, err)
	if err != nil {
		return Solution{}, err
	}
	return Solution{Weapon: weapon, Environment: env, Results: results}, nil
}

//Zero zeroes the stored weapon again and saves the zeroed profile.
//The store must be opened with ZeroWeapon as its zeroer.
func (s *Service) Zero(ctx context.Context, name string) (go_ballisticsolver.WeaponProfile, error) {
	if s.store == nil {
		return go_ballisticsolver.WeaponProfile{}, ErrNoStore
	}
	weapon, err := s.store.LoadWeapon(ctx, name)
	if err != nil {
		return weapon, err
	}
	//the store zeroes the profiles on save
	return s.store.SaveWeapon(ctx, weapon)
}

//Solve calculates the trajectory of the stored weapon, records it into the history
//and passes it to the exporter
func (s *Service) Solve(ctx context.Context, name string, env go_ballisticsolver.EnvironmentRecord) (Solution, error) {
	if s.store == nil {
		return Solution{}, ErrNoStore
	}
	weapon, err := s.store.LoadWeapon(ctx, name)
	if err != nil {
		return Solution{}, err
	}
	if !weapon.IsZeroed() {
		if weapon, err = s.store.SaveWeapon(ctx, weapon); err != nil {
			return Solution{}, err
		}
	}

	solution, err := s.SolveWeapon(weapon, env)
	if err != nil {
		return solution, err
	}

	if err = s.store.RecordSolve(ctx, weapon.Name, env, solution.Results); err != nil {
		return solution, fmt.Errorf("recording solve of %s: %w", weapon.Name, err)
	}
	if s.exporter != nil {
		if err = s.exporter.WriteSolve(weapon, env, solution.Results, s.now()); err != nil {
			s.logger.Error().Err(err).Str("weapon", weapon.Name).Msg("Failed to export trajectory")
		}
	}

	s.logger.Debug().Str("weapon", weapon.Name).Float64("distance", env.Distance).Msg("Trajectory recorded")
	return solution, nil
}
