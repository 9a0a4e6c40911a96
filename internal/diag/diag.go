// Package diag provides the diagnostics sink threaded through the pipeline.
// Components record recoverable problems (dropped records, malformed ignore
// rules, missing handlers) as they run; the CLI prints one summary after the
// run completes. Diagnostics never interleave with map output.
package diag

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a diagnostic.
type Level int

const (
	Info Level = iota
	Warn
)

func (l Level) String() string {
	if l == Warn {
		return "warn"
	}
	return "info"
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level     Level
	Component string // e.g. "ignore", "ctags", "handlers"
	Path      string // affected file or rule source, empty if not applicable
	Message   string
}

// Sink accumulates diagnostics. Safe for concurrent use: the tag extraction
// workers record into the same sink.
type Sink struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Sink {
	return &Sink{}
}

// Warnf records a warning-level diagnostic.
func (s *Sink) Warnf(component, path, format string, args ...any) {
	s.add(Warn, component, path, fmt.Sprintf(format, args...))
}

// Infof records an info-level diagnostic.
func (s *Sink) Infof(component, path, format string, args ...any) {
	s.add(Info, component, path, fmt.Sprintf(format, args...))
}

func (s *Sink) add(lvl Level, component, path, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Level: lvl, Component: component, Path: path, Message: msg})
}

// Entries returns a copy of all recorded diagnostics in recording order.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Summary writes all diagnostics to w, one per line, warnings first.
func (s *Sink) Summary(w io.Writer) {
	entries := s.Entries()
	for _, pass := range []Level{Warn, Info} {
		for _, e := range entries {
			if e.Level != pass {
				continue
			}
			if e.Path != "" {
				fmt.Fprintf(w, "%s [%s] %s: %s\n", e.Level, e.Component, e.Path, e.Message)
			} else {
				fmt.Fprintf(w, "%s [%s] %s\n", e.Level, e.Component, e.Message)
			}
		}
	}
}
