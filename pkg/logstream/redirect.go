package logstream

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"context"
	"io"
	"log"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rstudio/platform-lib/pkg/rslog"

	"github.com/rstudio/logstream/pkg/streamlog"
)

const pumpBufferSize = 4096

// Pump copies r into w until EOF. The context is checked between reads, so a
// blocked read is not interrupted.
func Pump(ctx context.Context, r io.Reader, w io.Writer) error {
	buf := make([]byte, pumpBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// RedirectStdLog sends everything written through the standard library "log"
// package to logger at level. The returned function flushes any partial line
// and restores the previous output, flags and prefix.
func RedirectStdLog(logger streamlog.LevelLogger, level rslog.LogLevel) (func(), error) {
	stream, err := New(logger, level, OutputStreamOptions{})
	if err != nil {
		return nil, err
	}
	printer := NewPrinter(stream)

	prevOut := log.Writer()
	prevFlags := log.Flags()
	prevPrefix := log.Prefix()

	// The log package serializes writes to its output.
	log.SetOutput(printer)
	log.SetFlags(0)
	log.SetPrefix("")

	return func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		log.SetPrefix(prevPrefix)
		printer.Close()
	}, nil
}

// Redirection replaces an *os.File variable, such as os.Stdout, with the write
// end of a pipe whose contents are logged.
type Redirection struct {
	target   **os.File
	original *os.File
	reader   *os.File
	writer   *os.File
	printer  *Printer

	done    chan struct{}
	pumpErr error
	once    sync.Once
	err     error
}

// RedirectFile points *target at a pipe and logs every line written to it at
// level. Call Close to restore *target.
func RedirectFile(target **os.File, logger streamlog.LevelLogger, level rslog.LogLevel, options OutputStreamOptions) (*Redirection, error) {
	if target == nil || *target == nil {
		return nil, pkgerrors.Wrap(ErrInvalidArgument, "target file is nil")
	}
	stream, err := New(logger, level, options)
	if err != nil {
		return nil, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "creating redirection pipe")
	}

	red := &Redirection{
		target:   target,
		original: *target,
		reader:   r,
		writer:   w,
		printer:  NewPrinter(stream),
		done:     make(chan struct{}),
	}
	*target = w

	go func() {
		defer close(red.done)
		red.pumpErr = Pump(context.Background(), r, red.printer)
	}()

	return red, nil
}

// Close restores the original file, waits until everything written to the
// pipe has been logged, and closes the stream.
func (r *Redirection) Close() error {
	r.once.Do(func() {
		*r.target = r.original

		werr := r.writer.Close()
		<-r.done
		rerr := r.reader.Close()
		cerr := r.printer.Close()

		for _, err := range []error{r.pumpErr, werr, rerr, cerr} {
			if err != nil {
				r.err = pkgerrors.Wrap(err, "closing redirection")
				break
			}
		}
	})
	return r.err
}
