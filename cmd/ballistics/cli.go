package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/influx"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/logging"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/report"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/solver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/storage"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/weather"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const appName = "ballistics"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `usage: ballistics <command> [arguments] [flags]

commands:
  weapon save <file.json>   zero and save the weapon profile
  weapon list               list the saved profiles
  weapon show <name>        print the saved profile
  weapon select <name>      use the profile when solve gets no name
  weapon delete <name>      delete the profile and its history
  zero <name>               zero the saved profile again
  solve [name]              calculate the corrections at the target distance
  conditions                print or change the saved shooting conditions
  history <name>            print the latest solves of the profile

run "ballistics <command> --help" for the flags of the command
`

type command struct {
	args    string
	minArgs int
	maxArgs int
	flags   func(flags *pflag.FlagSet)
	run     func(ctx context.Context, a *app, flags *pflag.FlagSet) error
}

var commands = map[string]command{
	"weapon save": {args: "<file.json>", minArgs: 1, maxArgs: 1, run: weaponSave,
		flags: func(flags *pflag.FlagSet) {
			flags.Bool("force", false, "overwrite the profile of the same name")
		}},
	"weapon list":   {run: weaponList},
	"weapon show":   {args: "<name>", minArgs: 1, maxArgs: 1, run: weaponShow},
	"weapon select": {args: "<name>", minArgs: 1, maxArgs: 1, run: weaponSelect},
	"weapon delete": {args: "<name>", minArgs: 1, maxArgs: 1, run: weaponDelete,
		flags: func(flags *pflag.FlagSet) {
			flags.Bool("yes", false, "confirm the deletion")
		}},
	"zero": {args: "<name>", minArgs: 1, maxArgs: 1, run: zero},
	"solve": {args: "[name]", minArgs: 0, maxArgs: 1, run: solve,
		flags: func(flags *pflag.FlagSet) {
			addEnvironmentFlags(flags)
			flags.Bool("weather", false, "use the current weather at --weather-lat/--weather-lon")
			flags.Bool("save-conditions", false, "remember the conditions for the next solves")
			flags.String("chart", "", "draw the corrections into the file (png, svg, pdf)")
			flags.String("csv", "", "write the results into the CSV file")
		}},
	"conditions": {run: conditions,
		flags: func(flags *pflag.FlagSet) {
			addEnvironmentFlags(flags)
			flags.Bool("weather", false, "use the current weather at --weather-lat/--weather-lon")
		}},
	"history": {args: "<name>", minArgs: 1, maxArgs: 1, run: history,
		flags: func(flags *pflag.FlagSet) {
			flags.Int("limit", 5, "number of the solves to print, 0 prints all")
		}},
}

func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("config-dir", ".", "directory of "+config.FileName)
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("logs-dir", "./logs", "directory of the log files, empty disables the log file")
	flags.String("storage", "sqlite", "profile store (sqlite or postgres)")
	flags.String("db-path", "./ballistics.db", "SQLite database file, empty keeps the profiles in memory")
	flags.Float64("step-size", go_ballisticsolver.DefaultStepSize, "integration step, s")
	flags.Float64("max-time", go_ballisticsolver.DefaultMaxTime, "maximum time of flight, s")
	flags.Int("zero-iterations", go_ballisticsolver.DefaultZeroingIterations, "number of the zeroing rounds")
	flags.Float64("zero-tolerance", 0, "stop zeroing when the aim changes less (0 - never)")
	flags.String("distance-unit", "m", "distance unit of the report (m, yd, ft)")
	flags.String("energy-unit", "J", "energy unit of the report (J, ftlb)")
	flags.String("velocity-unit", "m/s", "velocity unit of the report (m/s, km/h, fps, mph)")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	name := strings.ToLower(args[0])
	args = args[1:]
	if name == "help" || name == "--help" || name == "-h" {
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	if name == "weapon" {
		if len(args) == 0 {
			fmt.Fprint(stderr, usage)
			return exitUsage
		}
		name = "weapon " + strings.ToLower(args[0])
		args = args[1:]
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return exitUsage
	}

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	addCommonFlags(flags)
	if cmd.flags != nil {
		cmd.flags(flags)
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() < cmd.minArgs || flags.NArg() > cmd.maxArgs {
		fmt.Fprintf(stderr, "usage: ballistics %s %s\n", name, cmd.args)
		return exitUsage
	}

	configDir, _ := flags.GetString("config-dir")
	if err := config.Load(configDir); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if err := config.BindFlags(flags); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer a.close()

	if err = cmd.run(ctx, a, flags); err != nil {
		a.logger.Debug().Err(err).Str("command", name).Msg("Command failed")
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
	store   *storage.Store
	service *solver.Service
	closers []func() error
}

func newApp(ctx context.Context, stdout, stderr io.Writer) (*app, error) {
	log, closeLog, err := logging.Setup(logging.Config{
		Level:          config.GetString("logLevel"),
		Dir:            config.GetString("logsDir"),
		Name:           appName,
		GraylogEnabled: config.GetBool("graylog.enabled"),
		GraylogAddress: config.GetString("graylog.address"),
		Console:        stderr,
	}, time.Now())
	if err != nil {
		return nil, err
	}
	a := &app{stdout: stdout, stderr: stderr, logger: log, closers: []func() error{closeLog}}

	calc := solver.NewCalculator(config.GetSolverConfig(), log)
	a.service, err = solver.NewService(calc, solver.Meter(config.GetOTelConfig()), log)
	if err != nil {
		a.close()
		return nil, err
	}

	a.store, err = storage.Open(config.GetStorageConfig(), a.service.ZeroWeapon, log)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, a.store.Close)
	a.service.SetStore(a.store)

	exporter, err := influx.New(ctx, config.GetInfluxConfig(), log)
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, exporter.Close)
	a.service.SetExporter(exporter)

	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to release a resource")
		}
	}
	a.closers = nil
}

func (a *app) println(msg string) {
	fmt.Fprintln(a.stdout, msg)
}

//weaponError replaces the missing profile error with the message for the user
func weaponError(name string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errors.New(msgFileNotFound(name))
	}
	return err
}

func weaponSave(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	path := flags.Arg(0)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errors.New(msgFileNotFound(path))
	}
	if err != nil {
		return errors.New(msgFileReadError(err))
	}

	weapon := go_ballisticsolver.DefaultWeapon(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err = json.Unmarshal(data, &weapon); err != nil {
		return errors.New(msgFileReadError(err))
	}
	weapon = storage.ClampWeapon(weapon)

	exists, err := a.store.WeaponExists(ctx, weapon.Name)
	if err != nil {
		return err
	}
	if force, _ := flags.GetBool("force"); exists && !force {
		return errors.New(msgConfirmOversave(weapon.Name))
	}

	a.println(msgCalculating)
	saved, err := a.store.SaveWeapon(ctx, weapon)
	if err != nil {
		return errors.New(msgFileSaveError(weapon.Name, err))
	}
	a.println(msgSaved(saved.Name))
	return nil
}

func weaponList(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	names, err := a.store.ListWeapons(ctx)
	if err != nil {
		return err
	}
	selected, err := a.store.SelectedWeapon(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	for _, name := range names {
		mark := " "
		if name == selected {
			mark = "*"
		}
		fmt.Fprintf(a.stdout, "%s %s\n", mark, name)
	}
	return nil
}

func weaponShow(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	weapon, err := a.store.LoadWeapon(ctx, flags.Arg(0))
	if err != nil {
		return weaponError(flags.Arg(0), err)
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(weapon)
}

func weaponSelect(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	if err := a.store.SelectWeapon(ctx, flags.Arg(0)); err != nil {
		return weaponError(flags.Arg(0), err)
	}
	fmt.Fprintf(a.stdout, "Selected configuration '%s'\n", flags.Arg(0))
	return nil
}

func weaponDelete(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	name := flags.Arg(0)
	if yes, _ := flags.GetBool("yes"); !yes {
		return errors.New(msgConfirmDelete(name))
	}
	if err := a.store.DeleteWeapon(ctx, name); err != nil {
		return weaponError(name, err)
	}
	a.println(msgDeleted(name))
	return nil
}

func zero(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	a.println(msgCalculating)
	weapon, err := a.service.Zero(ctx, flags.Arg(0))
	if err != nil {
		return weaponError(flags.Arg(0), err)
	}
	fmt.Fprintf(a.stdout, "%s\naim %s\n", weapon, weapon.AimVector)
	return nil
}

func solve(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	name := flags.Arg(0)
	if name == "" {
		selected, err := a.store.SelectedWeapon(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errors.New("no weapon specified and none is selected, use \"ballistics weapon select <name>\"")
			}
			return err
		}
		name = selected
	}

	env, err := a.environment(ctx, flags)
	if err != nil {
		return err
	}
	if save, _ := flags.GetBool("save-conditions"); save {
		if err = a.store.SaveConditions(ctx, env); err != nil {
			return err
		}
	}

	a.println(msgCalculating)
	solution, err := a.service.Solve(ctx, name, env)
	if err != nil {
		return weaponError(name, err)
	}

	opts, err := report.OptionsFromConfig(config.GetReportConfig(), solution.Weapon)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\n\n", solution.Weapon)
	if err = report.WriteTable(a.stdout, solution.Results, opts); err != nil {
		return err
	}

	if path, _ := flags.GetString("csv"); path != "" {
		if err = writeCSV(path, solution.Results, opts); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("Results written")
	}
	if path, _ := flags.GetString("chart"); path != "" {
		title := fmt.Sprintf("%s, %.0fm", solution.Weapon.Name, env.Distance)
		if err = report.Chart(title, solution.Results, opts, path); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("Chart drawn")
	}
	return nil
}

func writeCSV(path string, results []go_ballisticsolver.TrajectoryResult, opts report.Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	if err = report.WriteCSV(file, results, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func conditions(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	env, err := a.environment(ctx, flags)
	if err != nil {
		return err
	}

	changed := false
	flags.Visit(func(f *pflag.Flag) {
		if _, ok := environmentFlags[f.Name]; ok || f.Name == "weather" {
			changed = true
		}
	})
	if changed {
		if err = a.store.SaveConditions(ctx, env); err != nil {
			return err
		}
		a.logger.Info().Msg("Conditions saved")
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

func history(ctx context.Context, a *app, flags *pflag.FlagSet) error {
	name := flags.Arg(0)
	weapon, err := a.store.LoadWeapon(ctx, name)
	if err != nil {
		return weaponError(name, err)
	}
	limit, _ := flags.GetInt("limit")
	solves, err := a.store.ListSolves(ctx, name, limit)
	if err != nil {
		return err
	}
	if len(solves) == 0 {
		fmt.Fprintf(a.stdout, "No solves of '%s' yet\n", name)
		return nil
	}

	opts, err := report.OptionsFromConfig(config.GetReportConfig(), weapon)
	if err != nil {
		return err
	}
	for _, s := range solves {
		fmt.Fprintf(a.stdout, "%s  %.0fm  wind %.1fm/s from %.0f°\n",
			s.CreatedAt.Local().Format(time.DateTime), s.Environment.Distance, s.Environment.WindSpeed, s.Environment.WindAzimuth)
		if err = report.WriteTable(a.stdout, s.Results, opts); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout)
	}
	return nil
}

//environmentFlags maps the flags onto the fields of the conditions
var environmentFlags = map[string]func(env *go_ballisticsolver.EnvironmentRecord) *float64{
	"distance":     func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.Distance },
	"wind-speed":   func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.WindSpeed },
	"wind-azimuth": func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.WindAzimuth },
	"elevation":    func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.BarrelElevation },
	"temperature":  func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.Temperature },
	"pressure":     func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.Pressure },
	"humidity":     func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.Humidity },
	"latitude":     func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.Latitude },
	"azimuth":      func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.AimAzimuth },
	"weather-lat":  func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.WeatherLatitude },
	"weather-lon":  func(env *go_ballisticsolver.EnvironmentRecord) *float64 { return &env.WeatherLongitude },
}

func addEnvironmentFlags(flags *pflag.FlagSet) {
	flags.Float64("distance", 0, "distance to the target, m")
	flags.Float64("wind-speed", 0, "wind speed, m/s")
	flags.Float64("wind-azimuth", 0, "direction the wind blows from, degrees")
	flags.Float64("elevation", 0, "inclination of the shot, degrees")
	flags.Float64("temperature", 0, "air temperature, °C")
	flags.Float64("pressure", 0, "air pressure, hPa")
	flags.Float64("humidity", 0, "relative humidity, %")
	flags.Float64("latitude", 0, "latitude of the shooter, degrees")
	flags.Float64("azimuth", 0, "direction of the shot, degrees from the north")
	flags.Float64("weather-lat", 0, "latitude the weather is requested for")
	flags.Float64("weather-lon", 0, "longitude the weather is requested for")
}

//environment returns the saved conditions changed by the flags and, when asked, by the current weather
func (a *app) environment(ctx context.Context, flags *pflag.FlagSet) (go_ballisticsolver.EnvironmentRecord, error) {
	env, err := a.store.LoadConditions(ctx)
	if err != nil {
		return env, err
	}

	flags.Visit(func(f *pflag.Flag) {
		field, ok := environmentFlags[f.Name]
		if !ok {
			return
		}
		if value, err := flags.GetFloat64(f.Name); err == nil {
			*field(&env) = value
		}
	})

	if useWeather, _ := flags.GetBool("weather"); useWeather {
		a.println(msgProcessingWeatherData)
		cfg := config.GetWeatherConfig()
		current, err := weather.New(cfg.BaseURL, cfg.Timeout).Current(ctx, env.WeatherLatitude, env.WeatherLongitude)
		if err != nil {
			return env, errors.New(msgWeatherError(err))
		}
		env = current.Apply(env)
		a.println(msgWeatherDataSuccess)
	}

	return storage.ClampEnvironment(env), nil
}
