package streamlog

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"errors"
	"fmt"

	"github.com/rstudio/platform-lib/pkg/rslog"
)

const (
	StdoutLog rslog.LogCategory = "STDOUT"
	StderrLog rslog.LogCategory = "STDERR"
)

var ErrInvalidArgument = errors.New("invalid argument")

// LevelLogger is the one capability a stream needs from a logger: emit a
// message at a level chosen at runtime.
type LevelLogger interface {
	Log(level rslog.LogLevel, msg string)
}

// ForCategory returns a LevelLogger that tags every message with the
// "category" field before handing it to logger.
func ForCategory(logger rslog.Logger, category rslog.LogCategory) (LevelLogger, error) {
	if isNil(logger) {
		return nil, fmt.Errorf("%w: logger is nil", ErrInvalidArgument)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is empty", ErrInvalidArgument)
	}
	return categoryLogger{
		Logger: logger.WithField("category", string(category)),
	}, nil
}

// isNil also catches a nil *rslog.LoggerImpl stored in the interface, which
// would otherwise only fail on the first message.
func isNil(logger rslog.Logger) bool {
	if logger == nil {
		return true
	}
	impl, ok := logger.(*rslog.LoggerImpl)
	return ok && impl == nil
}

type categoryLogger struct {
	rslog.Logger
}

func (l categoryLogger) Log(level rslog.LogLevel, msg string) {
	switch level {
	case rslog.TraceLevel:
		l.Tracef("%s", msg)
	case rslog.DebugLevel:
		l.Debugf("%s", msg)
	case rslog.WarningLevel:
		l.Warnf("%s", msg)
	case rslog.ErrorLevel:
		l.Errorf("%s", msg)
	default:
		l.Infof("%s", msg)
	}
}
