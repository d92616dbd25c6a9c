//Package logging sets up the zerolog logger of the ballistics tools
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

//Config describes where the log goes
type Config struct {
	Level string
	//Dir is the directory of the log file, no file is written when empty
	Dir  string
	Name string

	GraylogEnabled bool
	GraylogAddress string

	//Console receives the colored output, os.Stderr when nil
	Console io.Writer
}

//LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

//ParseLevel converts the configured level name, INFO is used for unknown names
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

//Setup creates the logger writing to the console, the log file and Graylog.
//The returned function closes the file and the Graylog connection.
func Setup(cfg Config, sessionStart time.Time) (zerolog.Logger, func() error, error) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		},
	}
	var closers []io.Closer

	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return zerolog.Nop(), closeAll, fmt.Errorf("failed to create logs directory: %w", err)
		}
		file, err := os.OpenFile(LogFilePath(cfg.Dir, cfg.Name, sessionStart), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), closeAll, fmt.Errorf("failed to open log file: %w", err)
		}
		closers = append(closers, file)
		//no colors in the file
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	if cfg.GraylogEnabled {
		gw, err := gelf.NewWriter(cfg.GraylogAddress)
		if err != nil {
			closeAll()
			return zerolog.Nop(), func() error { return nil }, fmt.Errorf("failed to connect to graylog: %w", err)
		}
		closers = append(closers, gw)
		writers = append(writers, gw)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Str("app", cfg.Name).Logger()
	logger.Debug().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")
	return logger, closeAll, nil
}
