package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/bmath/vector"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, zero Zeroer) *Store {
	t.Helper()
	cfg := config.StorageConfig{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	s, err := Open(cfg, zero, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fakeZeroer(calls *int) Zeroer {
	return func(w go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error) {
		*calls++
		w.AimVector = vector.Create(1, 0.001, 0).Normalize()
		return w, nil
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(config.StorageConfig{Type: "sqlite"}, nil, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = s.SaveWeapon(ctx, go_ballisticsolver.DefaultWeapon("memory"))
	require.NoError(t, err)

	names, err := s.ListWeapons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"memory"}, names)
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(config.StorageConfig{Type: "mongo"}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}

func TestSaveWeapon_ZeroesBeforeSaving(t *testing.T) {
	var calls int
	s := openStore(t, fakeZeroer(&calls))
	ctx := context.Background()

	saved, err := s.SaveWeapon(ctx, go_ballisticsolver.DefaultWeapon("m24"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, saved.IsZeroed())

	loaded, err := s.LoadWeapon(ctx, "m24")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveWeapon_ZeroingError(t *testing.T) {
	failing := func(w go_ballisticsolver.WeaponProfile) (go_ballisticsolver.WeaponProfile, error) {
		return w, go_ballisticsolver.ErrSimulationDivergence
	}
	s := openStore(t, failing)

	_, err := s.SaveWeapon(context.Background(), go_ballisticsolver.DefaultWeapon("slow"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, go_ballisticsolver.ErrSimulationDivergence))

	exists, err := s.WeaponExists(context.Background(), "slow")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveWeapon_Overwrites(t *testing.T) {
	s := openStore(t, nil)
	ctx := context.Background()

	w := go_ballisticsolver.DefaultWeapon("m24")
	_, err := s.SaveWeapon(ctx, w)
	require.NoError(t, err)

	w.MuzzleVelocity = 850
	_, err = s.SaveWeapon(ctx, w)
	require.NoError(t, err)

	loaded, err := s.LoadWeapon(ctx, "m24")
	require.NoError(t, err)
	assert.Equal(t, 850.0, loaded.MuzzleVelocity)

	names, err := s.ListWeapons(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestSaveWeapon_EmptyName(t *testing.T) {
	s := openStore(t, nil)
	_, err := s.SaveWeapon(context.Background(), go_ballisticsolver.DefaultWeapon(""))
	assert.True(t, errors.Is(err, go_ballisticsolver.ErrInvalidArgument))
}

func TestWeaponLifecycle(t *testing.T) {
	s := openStore(t, nil)
	ctx := context.Background()

	for _, name := range []string{"tikka", "ax338", "m24"} {
		_, err := s.SaveWeapon(ctx, go_ballisticsolver.DefaultWeapon(name))
		require.NoError(t, err)
	}

	names, err := s.ListWeapons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ax338", "m24", "tikka"}, names)

	exists, err := s.WeaponExists(ctx, "m24")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.DeleteWeapon(ctx, "m24"))
	exists, err = s.WeaponExists(ctx, "m24")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.DeleteWeapon(ctx, "m24")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.LoadWeapon(ctx, "m24")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSelectedWeapon(t *testing.T) {
	s := openStore(t, nil)
	ctx := context.Background()

	_, err := s.SelectedWeapon(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(s.SelectWeapon(ctx, "ghost"), ErrNotFound))

	for _, name := range []string{"a", "b"} {
		_, err = s.SaveWeapon(ctx, go_ballisticsolver.DefaultWeapon(name))
		require.NoError(t, err)
	}
	require.NoError(t, s.SelectWeapon(ctx, "a"))
	require.NoError(t, s.SelectWeapon(ctx, "b"))

	name, err := s.SelectedWeapon(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", name)
}

func TestConditions(t *testing.T) {
	s := openStore(t, nil)
	ctx := context.Background()

	env, err := s.LoadConditions(ctx)
	require.NoError(t, err)
	assert.Equal(t, go_ballisticsolver.DefaultEnvironment(), env)

	env.Distance = 650
	env.WindSpeed = 4.5
	require.NoError(t, s.SaveConditions(ctx, env))
	env.Temperature = -5
	require.NoError(t, s.SaveConditions(ctx, env))

	loaded, err := s.LoadConditions(ctx)
	require.NoError(t, err)
	assert.Equal(t, env, loaded)
}

func TestSolveHistory(t *testing.T) {
	s := openStore(t, nil)
	ctx := context.Background()

	env := go_ballisticsolver.DefaultEnvironment()
	for i := 1; i <= 3; i++ {
		env.Distance = float64(100 * i)
		results := []go_ballisticsolver.TrajectoryResult{{Distance: 100 * i, VerticalClicks: -i, Velocity: 700, Energy: 2695, Time: 0.15}}
		require.NoError(t, s.RecordSolve(ctx, "m24", env, results))
	}
	require.NoError(t, s.RecordSolve(ctx, "other", env, nil))

	solves, err := s.ListSolves(ctx, "m24", 2)
	require.NoError(t, err)
	require.Len(t, solves, 2)
	assert.Equal(t, 300.0, solves[0].Environment.Distance)
	assert.Equal(t, -3, solves[0].Results[0].VerticalClicks)
	assert.Equal(t, 200, solves[1].Results[0].Distance)

	all, err := s.ListSolves(ctx, "m24", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.SaveWeapon(ctx, go_ballisticsolver.DefaultWeapon("m24"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteWeapon(ctx, "m24"))
	all, err = s.ListSolves(ctx, "m24", 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClampWeapon(t *testing.T) {
	w := go_ballisticsolver.DefaultWeapon("clamp")
	w.Caliber = 50
	w.BulletMass = math.NaN()
	w.MuzzleVelocity = -3
	w.Zeroing.Distance = 5000
	w.Zeroing.Humidity = 120

	c := ClampWeapon(w)
	assert.Equal(t, 20.0, c.Caliber)
	assert.Equal(t, 11.0, c.BulletMass)
	assert.Equal(t, 1.0, c.MuzzleVelocity)
	assert.Equal(t, 3000.0, c.Zeroing.Distance)
	assert.Equal(t, 100.0, c.Zeroing.Humidity)
	assert.Equal(t, w.BallisticCoefficient, c.BallisticCoefficient)
}

func TestClampEnvironment(t *testing.T) {
	env := go_ballisticsolver.DefaultEnvironment()
	env.Pressure = 100
	env.Temperature = 95
	env.Latitude = -100
	env.WindAzimuth = 400
	env.WindSpeed = math.NaN()

	c := ClampEnvironment(env)
	assert.Equal(t, 500.0, c.Pressure)
	assert.Equal(t, 80.0, c.Temperature)
	assert.Equal(t, -90.0, c.Latitude)
	assert.Equal(t, 360.0, c.WindAzimuth)
	assert.Equal(t, 0.0, c.WindSpeed)
	assert.Equal(t, env.Distance, c.Distance)
}

func TestClampDistanceAndHumidity(t *testing.T) {
	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 4500
	env.Humidity = math.NaN()
	c := ClampEnvironment(env)
	assert.Equal(t, 4500.0, c.Distance)
	assert.Equal(t, 0.0, c.Humidity)

	env.Distance = 6000
	assert.Equal(t, 5000.0, ClampEnvironment(env).Distance)

	w := go_ballisticsolver.DefaultWeapon("zero")
	w.Zeroing.Distance = 4500
	w.Zeroing.Humidity = math.NaN()
	cw := ClampWeapon(w)
	assert.Equal(t, 3000.0, cw.Zeroing.Distance)
	assert.Equal(t, 0.2, cw.Zeroing.Humidity)
}
