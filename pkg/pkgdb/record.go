// Package pkgdb holds the package record model shared by the package manager
// database parsers and the line fold they are built on.
package pkgdb

import (
	"strings"
)

// Record is one package entry decoded from a package manager database.
//
// Version and Source are nil when the database did not carry them.
// AutoInstalled is either true or absent (it is never reported as false).
type Record struct {
	Name          string   `json:"Name"`
	Version       *string  `json:"Version,omitempty"`
	Source        *string  `json:"Source,omitempty"`
	Provides      []string `json:"Provides"`
	Deps          Set      `json:"Deps"`
	AutoInstalled bool     `json:"AutoInstalled,omitempty"`
}

// NewRecord returns an empty record for the named package.
func NewRecord(name string) *Record {
	return &Record{
		Name:     name,
		Provides: []string{},
		Deps:     NewSet(),
	}
}

func (r *Record) SetVersion(value string) {
	r.Version = &value
}

func (r *Record) SetSource(value string) {
	r.Source = &value
}

// AddProvides records an alias name, keeping the first-seen order.
func (r *Record) AddProvides(name string) {
	if name == "" {
		return
	}

	for _, existing := range r.Provides {
		if existing == name {
			return
		}
	}

	r.Provides = append(r.Provides, name)
}

func (r *Record) AddDep(name string) {
	if name == "" {
		return
	}

	if r.Deps == nil {
		r.Deps = NewSet()
	}

	r.Deps.Add(name)
}

// VersionString returns the version or an empty string when it's absent.
func (r *Record) VersionString() string {
	if r.Version == nil {
		return ""
	}

	return *r.Version
}

// SourceString returns the source package name or an empty string when it's absent.
func (r *Record) SourceString() string {
	if r.Source == nil {
		return ""
	}

	return *r.Source
}

// Scan is the state threaded through a line-by-line database fold:
// the finalized records plus the record currently being filled in.
type Scan struct {
	done    []*Record
	current *Record
}

// Start finalizes the current record and opens a new one.
func (s Scan) Start(name string) Scan {
	s.done = finalize(s.done, s.current)
	s.current = NewRecord(name)
	return s
}

// Current returns the record being filled in (nil before the first record start).
func (s Scan) Current() *Record {
	return s.current
}

// Records returns every finalized record in first-seen order.
func (s Scan) Records() []*Record {
	records := finalize(append([]*Record{}, s.done...), s.current)
	if records == nil {
		return []*Record{}
	}

	return records
}

// nameless records still isolate the fields that follow them,
// but they are never reported
func finalize(done []*Record, current *Record) []*Record {
	if current == nil || current.Name == "" {
		return done
	}

	return append(done, current)
}

// Fold feeds every line of text to step, threading the state through.
// Carriage returns left over from CRLF line endings are removed.
func Fold[S any](text string, start S, step func(S, string) S) S {
	state := start
	for _, line := range strings.Split(text, "\n") {
		state = step(state, strings.TrimSuffix(line, "\r"))
	}

	return state
}
