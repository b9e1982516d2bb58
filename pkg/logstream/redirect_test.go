package logstream

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/rstudio/platform-lib/pkg/rslog"
	"gopkg.in/check.v1"

	"github.com/rstudio/logstream/pkg/streamlog/streamlogtest"
)

func TestRedirect(t *testing.T) { check.TestingT(t) }

type RedirectSuite struct {
	lgr *streamlogtest.Recorder
}

var _ = check.Suite(&RedirectSuite{})

func (s *RedirectSuite) SetUpTest(c *check.C) {
	s.lgr = &streamlogtest.Recorder{}
}

func (s *RedirectSuite) TestPump(c *check.C) {
	var out bytes.Buffer
	err := Pump(context.Background(), strings.NewReader("some bytes"), &out)
	c.Assert(err, check.IsNil)
	c.Check(out.String(), check.Equals, "some bytes")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out.Reset()
	err = Pump(ctx, strings.NewReader("never read"), &out)
	c.Check(errors.Is(err, context.Canceled), check.Equals, true)
	c.Check(out.Len(), check.Equals, 0)
}

func (s *RedirectSuite) TestPumpStopsOnWriteError(c *check.C) {
	stream, err := New(s.lgr, rslog.InfoLevel, OutputStreamOptions{})
	c.Assert(err, check.IsNil)
	c.Assert(stream.Close(), check.IsNil)

	err = Pump(context.Background(), strings.NewReader("data"), stream)
	c.Check(errors.Is(err, ErrStreamClosed), check.Equals, true)
}

func (s *RedirectSuite) TestRedirectStdLog(c *check.C) {
	prevOut := log.Writer()
	prevFlags := log.Flags()

	restore, err := RedirectStdLog(s.lgr, rslog.WarningLevel)
	c.Assert(err, check.IsNil)

	log.Print("connection reset")
	log.Printf("retrying in %ds", 5)
	restore()

	c.Check(s.lgr.Messages(), check.DeepEquals, []string{"connection reset", "retrying in 5s"})
	for _, e := range s.lgr.Entries() {
		c.Check(e.Level, check.Equals, rslog.WarningLevel)
	}
	c.Check(log.Writer(), check.Equals, prevOut)
	c.Check(log.Flags(), check.Equals, prevFlags)
}

func (s *RedirectSuite) TestRedirectStdLogRequiresLogger(c *check.C) {
	_, err := RedirectStdLog(nil, rslog.InfoLevel)
	c.Check(errors.Is(err, ErrInvalidArgument), check.Equals, true)
}

func (s *RedirectSuite) TestRedirectFile(c *check.C) {
	defer leaktest.Check(c)()

	original := os.Stderr
	target := original

	red, err := RedirectFile(&target, s.lgr, rslog.ErrorLevel, OutputStreamOptions{})
	c.Assert(err, check.IsNil)
	c.Check(target, check.Not(check.Equals), original)

	fmt.Fprintln(target, "panic: runtime error")
	fmt.Fprint(target, "goroutine 1 [running]")

	c.Assert(red.Close(), check.IsNil)
	c.Check(target, check.Equals, original)
	c.Check(s.lgr.Messages(), check.DeepEquals, []string{
		"panic: runtime error",
		"goroutine 1 [running]",
	})

	// Closing twice is harmless.
	c.Check(red.Close(), check.IsNil)
}

func (s *RedirectSuite) TestRedirectFileInvalid(c *check.C) {
	var target *os.File
	_, err := RedirectFile(&target, s.lgr, rslog.InfoLevel, OutputStreamOptions{})
	c.Check(errors.Is(err, ErrInvalidArgument), check.Equals, true)

	target = os.Stdout
	_, err = RedirectFile(&target, s.lgr, "", OutputStreamOptions{})
	c.Check(errors.Is(err, ErrInvalidArgument), check.Equals, true)
	c.Check(target, check.Equals, os.Stdout)
}
