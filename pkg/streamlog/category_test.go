package streamlog

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"errors"
	"testing"

	"github.com/rstudio/platform-lib/pkg/rslog"
	"github.com/stretchr/testify/suite"

	"github.com/rstudio/logstream/pkg/streamlog/streamlogtest"
)

func TestPackage(t *testing.T) {
	suite.Run(t, &CategorySuite{})
}

type CategorySuite struct {
	suite.Suite
}

func (s *CategorySuite) TestForCategoryRequiresLoggerAndCategory() {
	_, err := ForCategory(nil, StdoutLog)
	s.True(errors.Is(err, ErrInvalidArgument))

	var impl *rslog.LoggerImpl
	_, err = ForCategory(impl, StdoutLog)
	s.True(errors.Is(err, ErrInvalidArgument))

	lgr, err := streamlogtest.NewJSONLogger(rslog.InfoLevel)
	s.Require().Nil(err)
	_, err = ForCategory(lgr, "")
	s.True(errors.Is(err, ErrInvalidArgument))
}

func (s *CategorySuite) TestForCategoryTagsEntries() {
	lgr, err := streamlogtest.NewJSONLogger(rslog.InfoLevel)
	s.Require().Nil(err)

	stdout, err := ForCategory(lgr, StdoutLog)
	s.Require().Nil(err)
	stdout.Log(rslog.InfoLevel, "listening")
	stdout.Log(rslog.DebugLevel, "filtered out")

	entries, err := lgr.Entries()
	s.Require().Nil(err)
	s.Require().Len(entries, 1)
	s.Equal("listening", entries[0].Message)
	s.Equal(rslog.InfoLevel, entries[0].Level)
	s.Equal("STDOUT", entries[0].Fields["category"])
}

func (s *CategorySuite) TestLogKeepsLevel() {
	lgr, err := streamlogtest.NewJSONLogger(rslog.TraceLevel)
	s.Require().Nil(err)

	stderr, err := ForCategory(lgr, StderrLog)
	s.Require().Nil(err)

	levels := []rslog.LogLevel{
		rslog.TraceLevel,
		rslog.DebugLevel,
		rslog.InfoLevel,
		rslog.WarningLevel,
		rslog.ErrorLevel,
	}
	for _, level := range levels {
		stderr.Log(level, string(level))
	}
	// Unknown levels are logged at INFO.
	stderr.Log(rslog.LogLevel("LOUD"), "LOUD")

	entries, err := lgr.Entries()
	s.Require().Nil(err)
	s.Require().Len(entries, len(levels)+1)
	for i, level := range levels {
		s.Equal(level, entries[i].Level)
		s.Equal(string(level), entries[i].Message)
	}
	s.Equal(rslog.InfoLevel, entries[len(levels)].Level)
}

func (s *CategorySuite) TestMessageIsNotAFormat() {
	lgr := rslog.NewCapturingLogger(rslog.CapturingLoggerOptions{Level: rslog.InfoLevel})

	build, err := ForCategory(lgr, "BUILD")
	s.Require().Nil(err)
	build.Log(rslog.InfoLevel, "100% done %s")

	s.Equal([]string{"100% done %s"}, lgr.Messages())
}
