//Package config loads the settings of the ballistics tools from a JSON file,
//the environment and the command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//FileName is the name of the configuration file looked up in the config directory
const FileName = "ballistics.cfg.json"

//EnvPrefix is the prefix of the environment variables overriding the settings
const EnvPrefix = "BALLISTICS"

//SolverConfig holds the integrator and zeroing settings
type SolverConfig struct {
	StepSize          float64 `json:"stepSize" mapstructure:"stepSize"`
	MaxTime           float64 `json:"maxTime" mapstructure:"maxTime"`
	ZeroingIterations int     `json:"zeroingIterations" mapstructure:"zeroingIterations"`
	ZeroingTolerance  float64 `json:"zeroingTolerance" mapstructure:"zeroingTolerance"`
}

//DBConfig holds the PostgreSQL connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

//StorageConfig selects the profile store backend
type StorageConfig struct {
	Type       string   `json:"type" mapstructure:"type"`
	SQLitePath string   `json:"sqlitePath" mapstructure:"sqlitePath"`
	DB         DBConfig `json:"db" mapstructure:"db"`
}

//WeatherConfig holds the weather service settings
type WeatherConfig struct {
	BaseURL string        `json:"baseUrl" mapstructure:"baseUrl"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

//InfluxConfig holds the InfluxDB export settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	URL        string `json:"url" mapstructure:"url"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

//OTelConfig holds the OpenTelemetry settings
type OTelConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
}

//ReportConfig holds the units the results are printed in
type ReportConfig struct {
	DistanceUnit string `json:"distanceUnit" mapstructure:"distanceUnit"`
	EnergyUnit   string `json:"energyUnit" mapstructure:"energyUnit"`
	VelocityUnit string `json:"velocityUnit" mapstructure:"velocityUnit"`
}

//Load reads configuration from the JSON file and sets default values.
//configDir is the directory containing the config file. A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "./ballistics.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "ballistics")

	viper.SetDefault("weather.baseUrl", "https://api.open-meteo.com")
	viper.SetDefault("weather.timeout", "10s")

	viper.SetDefault("solver.stepSize", 0.001)
	viper.SetDefault("solver.maxTime", 10.0)
	viper.SetDefault("solver.zeroingIterations", 5)
	viper.SetDefault("solver.zeroingTolerance", 0.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "ballistics")
	viper.SetDefault("influx.bucket", "trajectories")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "ballistics")

	viper.SetDefault("report.distanceUnit", "m")
	viper.SetDefault("report.energyUnit", "J")
	viper.SetDefault("report.velocityUnit", "m/s")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

//BindFlags binds the command line flags to the settings of the same name
func BindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		err = viper.BindPFlag(key, f)
	})
	return err
}

//flagKeys maps the command line flags onto the configuration keys
var flagKeys = map[string]string{
	"log-level":       "logLevel",
	"logs-dir":        "logsDir",
	"storage":         "storage.type",
	"db-path":         "storage.sqlite.path",
	"step-size":       "solver.stepSize",
	"max-time":        "solver.maxTime",
	"zero-iterations": "solver.zeroingIterations",
	"zero-tolerance":  "solver.zeroingTolerance",
	"distance-unit":   "report.distanceUnit",
	"energy-unit":     "report.energyUnit",
	"velocity-unit":   "report.velocityUnit",
}

//GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

//GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

//GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

//GetSolverConfig returns the solver settings
func GetSolverConfig() SolverConfig {
	return SolverConfig{
		StepSize:          viper.GetFloat64("solver.stepSize"),
		MaxTime:           viper.GetFloat64("solver.maxTime"),
		ZeroingIterations: viper.GetInt("solver.zeroingIterations"),
		ZeroingTolerance:  viper.GetFloat64("solver.zeroingTolerance"),
	}
}

//GetStorageConfig returns the profile store settings
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:       viper.GetString("storage.type"),
		SQLitePath: viper.GetString("storage.sqlite.path"),
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

//GetWeatherConfig returns the weather service settings
func GetWeatherConfig() WeatherConfig {
	return WeatherConfig{
		BaseURL: viper.GetString("weather.baseUrl"),
		Timeout: viper.GetDuration("weather.timeout"),
	}
}

//GetInfluxConfig returns the InfluxDB export settings
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		URL:        viper.GetString("influx.url"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

//GetOTelConfig returns the OpenTelemetry settings
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
	}
}

//GetReportConfig returns the units of the printed results
func GetReportConfig() ReportConfig {
	return ReportConfig{
		DistanceUnit: viper.GetString("report.distanceUnit"),
		EnergyUnit:   viper.GetString("report.energyUnit"),
		VelocityUnit: viper.GetString("report.velocityUnit"),
	}
}
