package streamlogtest

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/rstudio/platform-lib/pkg/rslog"
)

type Entry struct {
	Level   rslog.LogLevel
	Message string
	Fields  map[string]interface{}
}

// Recorder keeps every message logged through it. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Log(level rslog.LogLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) Messages() []string {
	var result []string
	for _, e := range r.Entries() {
		result = append(result, e.Message)
	}
	return result
}

// JSONLogger is an rslog logger writing JSON into memory, so that tests can
// inspect the level and fields of every entry.
type JSONLogger struct {
	rslog.Logger
	out *bytes.Buffer
}

type bufferOutputBuilder struct {
	out *bytes.Buffer
}

func (b bufferOutputBuilder) Build(_ ...rslog.OutputDest) (io.Writer, error) {
	return b.out, nil
}

func NewJSONLogger(level rslog.LogLevel) (*JSONLogger, error) {
	out := &bytes.Buffer{}
	lgr, err := rslog.NewLoggerImpl(rslog.LoggerOptionsImpl{
		Output: []rslog.OutputDest{
			{
				Output: rslog.LogOutputStdout,
			},
		},
		Format: rslog.JSONFormat,
		Level:  level,
	}, bufferOutputBuilder{out: out})
	if err != nil {
		return nil, err
	}
	return &JSONLogger{
		Logger: lgr,
		out:    out,
	}, nil
}

var levels = map[string]rslog.LogLevel{
	"trace":   rslog.TraceLevel,
	"debug":   rslog.DebugLevel,
	"info":    rslog.InfoLevel,
	"warning": rslog.WarningLevel,
	"error":   rslog.ErrorLevel,
}

// Entries decodes everything logged so far. Do not call it while the logger
// is still in use.
func (l *JSONLogger) Entries() ([]Entry, error) {
	var result []Entry
	dec := json.NewDecoder(bytes.NewReader(l.out.Bytes()))
	for dec.More() {
		var fields map[string]interface{}
		if err := dec.Decode(&fields); err != nil {
			return nil, err
		}
		level, _ := fields["level"].(string)
		msg, _ := fields["msg"].(string)
		e := Entry{
			Level:   levels[level],
			Message: msg,
			Fields:  fields,
		}
		delete(fields, "level")
		delete(fields, "msg")
		delete(fields, "time")
		result = append(result, e)
	}
	return result, nil
}

func (l *JSONLogger) Messages() ([]string, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	var result []string
	for _, e := range entries {
		result = append(result, e.Message)
	}
	return result, nil
}
