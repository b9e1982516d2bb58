package cmd

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"errors"

	"github.com/c2h5oh/datasize"
	pkgerrors "github.com/pkg/errors"
	"github.com/rstudio/platform-lib/pkg/rslog"
	"github.com/spf13/cobra"

	"github.com/rstudio/logstream/pkg/logstream"
)

// Values of the persistent (global) flags.
var (
	level     string
	minLevel  string
	format    string
	output    string
	logFile   string
	buffer    string
	increment string
)

func init() {
	RootCmd.PersistentFlags().StringVar(&level, "level", string(rslog.InfoLevel), "The level piped lines are logged at.")
	RootCmd.PersistentFlags().StringVar(&minLevel, "min-level", string(rslog.TraceLevel), "The least severe level that is written.")
	RootCmd.PersistentFlags().StringVar(&format, "format", string(rslog.TextFormat), "The log format, TEXT or JSON.")
	RootCmd.PersistentFlags().StringVar(&output, "output", string(rslog.LogOutputStderr), "Where logs are written: STDOUT, STDERR or FILE.")
	RootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "The log file, when --output=FILE.")
	RootCmd.PersistentFlags().StringVar(&buffer, "buffer", "2KB", "The initial line buffer size.")
	RootCmd.PersistentFlags().StringVar(&increment, "increment", "2KB", "How much the line buffer grows by.")
}

var RootCmd = &cobra.Command{
	Use:          "logpipe",
	Short:        "Send process output to a structured log",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("Please choose a command.")
	},
}

type config struct {
	Level     rslog.LogLevel
	MinLevel  rslog.LogLevel
	Format    rslog.OutputFormat
	Output    rslog.LogOutputType
	LogFile   string
	Buffer    datasize.ByteSize
	Increment datasize.ByteSize
}

func loadConfig() (config, error) {
	var cfg config

	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return cfg, pkgerrors.Wrap(err, "--level")
	}
	if err := cfg.MinLevel.UnmarshalText([]byte(minLevel)); err != nil {
		return cfg, pkgerrors.Wrap(err, "--min-level")
	}
	if err := cfg.Format.UnmarshalText([]byte(format)); err != nil {
		return cfg, pkgerrors.Wrap(err, "--format")
	}
	if err := cfg.Output.UnmarshalText([]byte(output)); err != nil {
		return cfg, pkgerrors.Wrap(err, "--output")
	}
	cfg.LogFile = logFile

	var err error
	if cfg.Buffer, err = datasize.ParseString(buffer); err != nil {
		return cfg, pkgerrors.Wrapf(err, "--buffer %q", buffer)
	}
	if cfg.Increment, err = datasize.ParseString(increment); err != nil {
		return cfg, pkgerrors.Wrapf(err, "--increment %q", increment)
	}
	if cfg.Buffer == 0 || cfg.Increment == 0 {
		return cfg, errors.New("--buffer and --increment must be greater than zero")
	}
	return cfg, nil
}

func (c config) streamOptions() logstream.OutputStreamOptions {
	return logstream.OutputStreamOptions{
		InitialCapacity: int(c.Buffer.Bytes()),
		GrowthIncrement: int(c.Increment.Bytes()),
	}
}

// buildLogger creates the logger piped output is sent to. Replaced in tests.
var buildLogger = func(cfg config) (rslog.Logger, error) {
	lgr, err := rslog.NewLoggerImpl(rslog.LoggerOptionsImpl{
		Output: []rslog.OutputDest{
			{
				Output:   cfg.Output,
				Filepath: cfg.LogFile,
			},
		},
		Format: cfg.Format,
		Level:  cfg.MinLevel,
	}, rslog.NewOutputLogBuilder(rslog.ServerLog, ""))
	if err != nil {
		return nil, err
	}
	return lgr, nil
}

func setup() (config, rslog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}

	// rslog reports problems opening --logfile through its default logger.
	err = rslog.UpdateDefaultLogger(rslog.LoggerOptionsImpl{
		Output: []rslog.OutputDest{
			{
				Output: rslog.LogOutputStderr,
			},
		},
		Format: cfg.Format,
		Level:  cfg.MinLevel,
	}, rslog.NewOutputLogBuilder(rslog.ServerLog, ""))
	if err != nil {
		return cfg, nil, pkgerrors.Wrap(err, "configuring default logger")
	}

	lgr, err := buildLogger(cfg)
	if err != nil {
		return cfg, nil, pkgerrors.Wrap(err, "creating logger")
	}
	return cfg, lgr, nil
}
