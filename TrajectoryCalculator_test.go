package go_ballisticsolver_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
)

func zeroed(t *testing.T, weapon go_ballisticsolver.WeaponProfile) go_ballisticsolver.WeaponProfile {
	t.Helper()
	weapon, err := go_ballisticsolver.SolveZeroing(weapon)
	if err != nil {
		t.Fatalf("Zeroing failed: %s", err)
	}
	return weapon
}

func zeroedWeapon(t *testing.T) go_ballisticsolver.WeaponProfile {
	t.Helper()
	return zeroed(t, go_ballisticsolver.DefaultWeapon("test"))
}

func TestZeroing(t *testing.T) {
	weapon := go_ballisticsolver.DefaultWeapon("test")
	zeroed, err := go_ballisticsolver.SolveZeroing(weapon)
	if err != nil {
		t.Fatal(err)
	}
	if weapon.IsZeroed() {
		t.Error("Zeroing changed the source profile")
	}
	if !zeroed.IsZeroed() {
		t.Error("Aim vector is not set")
	}
	assertEqual(t, zeroed.AimVector.Magnitude(), 1, 1e-9, "Aim magnitude")
	//gravity enters the step with the drag term, v -= dt*(drag + g) with g = (0, -g, 0),
	//so the projectile rises and the barrel is aimed below the line of sight
	if zeroed.AimVector.Y >= 0 {
		t.Errorf("Barrel must point below the line of sight: %s", zeroed.AimVector)
	}
	assertEqual(t, zeroed.AimVector.Z, 0, 1e-12, "Aim windage")
}

func TestZeroingSanity(t *testing.T) {
	weapon := go_ballisticsolver.DefaultWeapon("test")
	weapon.MuzzleVelocity = 800
	weapon.Zeroing.Distance = 100
	weapon = zeroed(t, weapon)

	results, err := go_ballisticsolver.SolveTrajectory(weapon, weapon.Zeroing)
	if err != nil {
		t.Fatal(err)
	}
	r := results[4]
	if r.Distance != 100 {
		t.Fatalf("Unexpected sample distance %d", r.Distance)
	}
	if r.HorizontalClicks < -1 || r.HorizontalClicks > 1 || r.VerticalClicks < -1 || r.VerticalClicks > 1 {
		t.Errorf("Zeroed weapon misses at the zero distance: %s", r)
	}
}

func TestTrajectorySamples(t *testing.T) {
	weapon := zeroedWeapon(t)
	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 300

	results, err := go_ballisticsolver.SolveTrajectory(weapon, env)
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{75, 150, 225, 285, 300, 315}
	if len(results) != len(expected) {
		t.Fatalf("Expected %d samples, got %d", len(expected), len(results))
	}
	for i, r := range results {
		if r.Distance != expected[i] {
			t.Errorf("Sample %d at %d, expected %d", i, r.Distance, expected[i])
		}
		if i > 0 {
			if r.Distance <= results[i-1].Distance {
				t.Errorf("Sample %d is not ascending", i)
			}
			if r.Time <= results[i-1].Time {
				t.Errorf("Time of sample %d is not ascending", i)
			}
			if r.Velocity > results[i-1].Velocity {
				t.Errorf("Projectile accelerates at sample %d", i)
			}
		}
		assertEqual(t, float64(r.Energy), go_ballisticsolver.KineticEnergy(0.011, float64(r.Velocity)), 6, "Energy")
	}
	if results[5].VerticalClicks <= 0 {
		t.Errorf("Projectile must keep rising above the line of sight beyond the target: %s", results[5])
	}
}

func TestTrajectoryIsDeterministic(t *testing.T) {
	weapon := zeroedWeapon(t)
	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 600
	env.WindSpeed = 4
	env.WindAzimuth = 70
	env.Latitude = 52
	env.AimAzimuth = 110

	a, err := go_ballisticsolver.SolveTrajectory(weapon, env)
	if err != nil {
		t.Fatal(err)
	}
	b, err := go_ballisticsolver.SolveTrajectory(weapon, env)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Identical inputs produced different results:\n%v\n%v", a, b)
	}
}

func TestTrajectoryTwist(t *testing.T) {
	right := zeroedWeapon(t)
	left := right
	left.Twist = go_ballisticsolver.TwistLeft
	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 800

	r, err := go_ballisticsolver.SolveTrajectory(right, env)
	if err != nil {
		t.Fatal(err)
	}
	l, err := go_ballisticsolver.SolveTrajectory(left, env)
	if err != nil {
		t.Fatal(err)
	}
	if r[5].HorizontalClicks == 0 {
		t.Error("Spin drift is not applied")
	}
	if r[5].HorizontalClicks != -l[5].HorizontalClicks {
		t.Errorf("Left twist must mirror the spin drift: %d/%d", r[5].HorizontalClicks, l[5].HorizontalClicks)
	}
}

func TestTrajectoryDragModel(t *testing.T) {
	g7 := zeroedWeapon(t)
	g1 := go_ballisticsolver.DefaultWeapon("g1")
	g1.DragModel = go_ballisticsolver.DragModelG1
	g1 = zeroed(t, g1)

	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 500
	a, err := go_ballisticsolver.SolveTrajectory(g7, env)
	if err != nil {
		t.Fatal(err)
	}
	b, err := go_ballisticsolver.SolveTrajectory(g1, env)
	if err != nil {
		t.Fatal(err)
	}
	if a[4].Velocity == b[4].Velocity {
		t.Error("Drag model is ignored")
	}

	g1.DragModel = go_ballisticsolver.DragModel(9)
	if _, err = go_ballisticsolver.SolveTrajectory(g1, env); !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Unknown drag model accepted: %v", err)
	}
}

func TestDivergence(t *testing.T) {
	weapon := go_ballisticsolver.DefaultWeapon("slow")
	weapon.MuzzleVelocity = 1
	if _, err := go_ballisticsolver.SolveZeroing(weapon); !errors.Is(err, go_ballisticsolver.ErrSimulationDivergence) {
		t.Errorf("Zeroing of a slow projectile must diverge: %v", err)
	}

	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 100000
	if _, err := go_ballisticsolver.SolveTrajectory(zeroedWeapon(t), env); !errors.Is(err, go_ballisticsolver.ErrSimulationDivergence) {
		t.Errorf("Unreachable target must diverge: %v", err)
	}

	calc := go_ballisticsolver.CreateTrajectoryCalculator()
	calc.SetMaxTime(0.05)
	if _, err := calc.SolveZeroing(go_ballisticsolver.DefaultWeapon("short")); !errors.Is(err, go_ballisticsolver.ErrSimulationDivergence) {
		t.Errorf("Time ceiling is ignored: %v", err)
	}
}

func TestTrajectoryInvalidArguments(t *testing.T) {
	env := go_ballisticsolver.DefaultEnvironment()

	if _, err := go_ballisticsolver.SolveTrajectory(go_ballisticsolver.DefaultWeapon("raw"), env); !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Not zeroed weapon accepted: %v", err)
	}

	weapon := zeroedWeapon(t)
	weapon.CorrectionUnit = go_ballisticsolver.CorrectionUnit(5)
	if _, err := go_ballisticsolver.SolveTrajectory(weapon, env); !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Unknown correction unit accepted: %v", err)
	}

	weapon = zeroedWeapon(t)
	env.Distance = 0
	if _, err := go_ballisticsolver.SolveTrajectory(weapon, env); !errors.Is(err, go_ballisticsolver.ErrInvalidArgument) {
		t.Errorf("Zero distance accepted: %v", err)
	}
}

func TestZeroingSettings(t *testing.T) {
	weapon := go_ballisticsolver.DefaultWeapon("test")

	calc := go_ballisticsolver.CreateTrajectoryCalculator()
	if calc.ZeroingIterations() != 5 || calc.ZeroingTolerance() != 0 {
		t.Fatal("Unexpected zeroing defaults")
	}
	assertEqual(t, calc.StepSize(), 0.001, 1e-15, "StepSize")
	assertEqual(t, calc.MaxTime(), 10, 1e-15, "MaxTime")

	def, err := calc.SolveZeroing(weapon)
	if err != nil {
		t.Fatal(err)
	}
	pkg, _ := go_ballisticsolver.SolveZeroing(weapon)
	if def.AimVector != pkg.AimVector {
		t.Error("Package level zeroing differs from the default calculator")
	}

	calc.SetZeroingIterations(0)
	none, err := calc.SolveZeroing(weapon)
	if err != nil {
		t.Fatal(err)
	}
	if none.AimVector != vector.Create(1, 0, 0) {
		t.Errorf("No rounds must leave the bore axis: %s", none.AimVector)
	}

	one := go_ballisticsolver.CreateTrajectoryCalculator()
	one.SetZeroingIterations(1)
	early := go_ballisticsolver.CreateTrajectoryCalculator()
	early.SetZeroingTolerance(10)
	a, _ := one.SolveZeroing(weapon)
	b, _ := early.SolveZeroing(weapon)
	if a.AimVector != b.AimVector {
		t.Errorf("Tolerance must stop after the first round: %s/%s", a.AimVector, b.AimVector)
	}
	if math.Abs(a.AimVector.Y-def.AimVector.Y) > 1e-3 {
		t.Errorf("Zeroing rounds diverge: %s/%s", a.AimVector, def.AimVector)
	}
}
