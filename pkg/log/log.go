package log

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chronos-gpu/chronos/pkg/defaults"
)

const (
	// LogVerbosityFlag is the name of the verbosity flag.
	LogVerbosityFlag = "verbosity"
	// LogFormatFlag is the name of the log format flag.
	LogFormatFlag = "log-format"
	// LogOutputFlag is the name of the log output flag.
	LogOutputFlag = "log-output"

	formatText = "text"
	formatJSON = "json"
)

// ErrLogOutputRequired is used when no log output is specified.
var ErrLogOutputRequired = errors.New("you must specify a log output")

type invalidLogFormatError struct {
	format string
}

func (e invalidLogFormatError) Error() string {
	return fmt.Sprintf("logger format %s is invalid", e.format)
}

// Config represents the configuration settings for a logger.
type Config struct {
	// Verbosity specifies the logging verbosity level.
	Verbosity int
	// Format specifies the logging output format.
	Format string
	// Output specifies the destination for logging.
	Output string
}

// AddFlagsToCommand will add the logging flags to the supplied command.
func AddFlagsToCommand(cmd *cobra.Command, config *Config) {
	cmd.PersistentFlags().IntVarP(&config.Verbosity,
		LogVerbosityFlag,
		"v",
		0,
		"The verbosity level of the logging. A level of 0 is info and above, 1 adds debug and 2 or above adds trace.")

	cmd.PersistentFlags().StringVar(&config.Format,
		LogFormatFlag,
		formatText,
		"The format of the logging output. Can be 'text' or 'json'.")

	cmd.PersistentFlags().StringVar(&config.Output,
		LogOutputFlag,
		"stderr",
		"The output for logging. Supply a file path or one of 'stdout'/'stderr'.")
}

// Configure will configure the logrus standard logger from the config.
func Configure(logConfig *Config) error {
	switch logConfig.Format {
	case "", formatText:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case formatJSON:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return invalidLogFormatError{format: logConfig.Format}
	}

	switch {
	case logConfig.Verbosity <= 0:
		logrus.SetLevel(logrus.InfoLevel)
	case logConfig.Verbosity == 1:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.TraceLevel)
	}

	switch logConfig.Output {
	case "":
		return ErrLogOutputRequired
	case "stderr":
		logrus.SetOutput(os.Stderr)
	case "stdout":
		logrus.SetOutput(os.Stdout)
	default:
		file, err := os.OpenFile(logConfig.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaults.DataFilePerm)
		if err != nil {
			return fmt.Errorf("opening log output file %s: %w", logConfig.Output, err)
		}

		logrus.SetOutput(file)
	}

	return nil
}

// GetLogger returns a logger entry scoped to the named chronos component.
func GetLogger(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
