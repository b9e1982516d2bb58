package logstream

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"bytes"
	"errors"
	"runtime"

	pkgerrors "github.com/pkg/errors"
	"github.com/rstudio/platform-lib/pkg/rslog"

	"github.com/rstudio/logstream/pkg/streamlog"
)

// DefaultBufferLength is both the initial capacity of a stream's buffer and
// the amount it grows by.
const DefaultBufferLength = 2048

var (
	ErrInvalidArgument = streamlog.ErrInvalidArgument
	ErrStreamClosed    = errors.New("the stream has been closed")
)

// LineSeparator is the host's line terminator.
var LineSeparator = hostLineSeparator()

func hostLineSeparator() []byte {
	if runtime.GOOS == "windows" {
		return []byte("\r\n")
	}
	return []byte("\n")
}

// OutputStreamOptions configures the buffer of an OutputStream. The buffer
// only ever grows by whole increments, so InitialCapacity must be a multiple
// of GrowthIncrement.
type OutputStreamOptions struct {
	// Zero means DefaultBufferLength.
	InitialCapacity int
	// Zero means DefaultBufferLength.
	GrowthIncrement int
	// Nil means LineSeparator.
	LineSeparator []byte
}

// OutputStream collects written bytes and logs them as one message, at a fixed
// level, each time it is flushed. It is the sink end of a redirected stream:
// it never flushes on its own, that is up to whoever owns it (see Printer).
//
// An OutputStream is not safe for concurrent use. Use one stream per writer.
type OutputStream struct {
	logger    streamlog.LevelLogger
	level     rslog.LogLevel
	separator []byte
	increment int

	buf    []byte
	count  int
	closed bool
}

// New creates a stream that logs to logger at level. A nil pointer wrapped in
// a non-nil logger is not detected here; NewCategoryStream checks for it.
func New(logger streamlog.LevelLogger, level rslog.LogLevel, options OutputStreamOptions) (*OutputStream, error) {
	if logger == nil {
		return nil, pkgerrors.Wrap(ErrInvalidArgument, "logger == nil")
	}
	if level == "" {
		return nil, pkgerrors.Wrap(ErrInvalidArgument, "level is empty")
	}
	if options.InitialCapacity < 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidArgument, "initial capacity %d", options.InitialCapacity)
	}
	if options.GrowthIncrement < 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidArgument, "growth increment %d", options.GrowthIncrement)
	}

	initial := options.InitialCapacity
	if initial == 0 {
		initial = DefaultBufferLength
	}
	increment := options.GrowthIncrement
	if increment == 0 {
		increment = DefaultBufferLength
	}
	separator := options.LineSeparator
	if separator == nil {
		separator = LineSeparator
	}
	if initial%increment != 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidArgument, "initial capacity %d is not a multiple of growth increment %d", initial, increment)
	}

	return &OutputStream{
		logger:    logger,
		level:     level,
		separator: separator,
		increment: increment,
		buf:       make([]byte, initial),
	}, nil
}

// NewCategoryStream creates a stream whose messages are logged to the given
// category of logger.
func NewCategoryStream(logger rslog.Logger, category rslog.LogCategory, level rslog.LogLevel, options OutputStreamOptions) (*OutputStream, error) {
	lgr, err := streamlog.ForCategory(logger, category)
	if err != nil {
		return nil, err
	}
	return New(lgr, level, options)
}

// WriteByte appends b to the buffer. Zero bytes are dropped.
func (s *OutputStream) WriteByte(b byte) error {
	if s.closed {
		return ErrStreamClosed
	}
	if b == 0 {
		return nil
	}

	if s.count == len(s.buf) {
		grown := make([]byte, len(s.buf)+s.increment)
		copy(grown, s.buf)
		s.buf = grown
	}

	s.buf[s.count] = b
	s.count++
	return nil
}

// Write appends p to the buffer, byte by byte, with the same rules as
// WriteByte.
func (s *OutputStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	for _, b := range p {
		// Cannot fail on an open stream.
		_ = s.WriteByte(b)
	}
	return len(p), nil
}

// Flush logs the buffered bytes as a single message and empties the buffer.
// Nothing is logged when the buffer is empty or holds nothing but a line
// separator. The buffer keeps its capacity.
func (s *OutputStream) Flush() error {
	if s.count == 0 {
		return nil
	}

	// Print layers such as Printer write the separator on its own and flush;
	// logging it would add an empty entry after every line.
	if bytes.Equal(s.buf[:s.count], s.separator) {
		s.reset()
		return nil
	}

	s.logger.Log(s.level, string(s.buf[:s.count]))
	s.reset()
	return nil
}

// Close flushes any pending bytes and rejects all later writes.
func (s *OutputStream) Close() error {
	err := s.Flush()
	s.closed = true
	return err
}

func (s *OutputStream) reset() {
	s.count = 0
}

// Len returns the number of buffered bytes.
func (s *OutputStream) Len() int {
	return s.count
}

// Cap returns the allocated size of the buffer.
func (s *OutputStream) Cap() int {
	return len(s.buf)
}

func (s *OutputStream) Closed() bool {
	return s.closed
}

func (s *OutputStream) Level() rslog.LogLevel {
	return s.level
}
