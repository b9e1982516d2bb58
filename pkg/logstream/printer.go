package logstream

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

type FlushWriter interface {
	io.Writer
	Flush() error
}

// Printer is an auto-flushing print layer over a FlushWriter. Every complete
// line is written and flushed on its own, followed by a separate
// write-and-flush of the line separator.
type Printer struct {
	w         FlushWriter
	separator []byte

	// A '\r' ending a partial line is held back until the next write shows
	// whether it starts a "\r\n".
	heldCR bool
}

func NewPrinter(w FlushWriter) *Printer {
	separator := LineSeparator
	if s, ok := w.(*OutputStream); ok {
		separator = s.separator
	}
	return &Printer{
		w:         w,
		separator: separator,
	}
}

// Print writes the operands without flushing.
func (p *Printer) Print(args ...interface{}) error {
	if err := p.releaseCR(); err != nil {
		return err
	}
	_, err := fmt.Fprint(p.w, args...)
	return err
}

// Printf writes the formatted text without flushing.
func (p *Printer) Printf(format string, args ...interface{}) error {
	if err := p.releaseCR(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// Println writes the operands as one line and terminates it.
func (p *Printer) Println(args ...interface{}) error {
	if err := p.releaseCR(); err != nil {
		return err
	}
	text := strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	return p.line([]byte(text))
}

// Write splits b into lines. Each complete line is written and terminated;
// a trailing partial line stays buffered in the underlying writer. A "\r\n"
// ending counts as '\n' even when it is split across two writes.
func (p *Printer) Write(b []byte) (int, error) {
	total := len(b)
	if p.heldCR && len(b) > 0 {
		p.heldCR = false
		if b[0] == '\n' {
			if err := p.line(nil); err != nil {
				return 0, err
			}
			b = b[1:]
		} else if _, err := p.w.Write([]byte{'\r'}); err != nil {
			return 0, err
		}
	}

	n := total - len(b)
	for len(b) > 0 {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			tail := bytes.TrimSuffix(b, []byte{'\r'})
			m, err := p.w.Write(tail)
			if err != nil {
				return n + m, err
			}
			p.heldCR = len(tail) < len(b)
			return total, nil
		}
		if err := p.line(bytes.TrimSuffix(b[:i], []byte{'\r'})); err != nil {
			return n, err
		}
		n += i + 1
		b = b[i+1:]
	}
	return n, nil
}

func (p *Printer) releaseCR() error {
	if !p.heldCR {
		return nil
	}
	p.heldCR = false
	_, err := p.w.Write([]byte{'\r'})
	return err
}

func (p *Printer) line(text []byte) error {
	if _, err := p.w.Write(text); err != nil {
		return err
	}
	if err := p.w.Flush(); err != nil {
		return err
	}
	if _, err := p.w.Write(p.separator); err != nil {
		return err
	}
	return p.w.Flush()
}

func (p *Printer) Flush() error {
	if err := p.releaseCR(); err != nil {
		return err
	}
	return p.w.Flush()
}

// Close closes the underlying writer if it is an io.Closer, otherwise it
// flushes it.
func (p *Printer) Close() error {
	if err := p.releaseCR(); err != nil {
		return err
	}
	if c, ok := p.w.(io.Closer); ok {
		return c.Close()
	}
	return p.w.Flush()
}
