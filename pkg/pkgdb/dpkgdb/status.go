// Package dpkgdb decodes the dpkg status database (var/lib/dpkg/status) and
// the apt extended states database (var/lib/apt/extended_states).
//
// Both files use "Key: value" lines with a "Package" field starting each
// stanza. Continuation lines and unknown fields are ignored.
package dpkgdb

import (
	"strings"

	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

const (
	fieldPackage       = "Package"
	fieldVersion       = "Version"
	fieldSource        = "Source"
	fieldProvides      = "Provides"
	fieldPreDepends    = "Pre-Depends"
	fieldDepends       = "Depends"
	fieldAutoInstalled = "Auto-Installed"
)

const fieldSeparator = ": "

// ParseStatus decodes the text of a dpkg status database.
// It never fails: malformed lines are skipped.
//
// Dependency alternatives ("a | b") are not resolved, every alternative
// is recorded as a dependency.
func ParseStatus(text string) []*pkgdb.Record {
	return pkgdb.Fold(text, pkgdb.Scan{}, parseStatusLine).Records()
}

func parseStatusLine(s pkgdb.Scan, line string) pkgdb.Scan {
	key, value, ok := splitField(line)
	if !ok {
		return s
	}

	if key == fieldPackage {
		return s.Start(value)
	}

	pkg := s.Current()
	if pkg == nil {
		return s
	}

	switch key {
	case fieldVersion:
		pkg.SetVersion(value)
	case fieldSource:
		//"Source: openssl (3.0.11-1)"
		if fields := strings.Fields(value); len(fields) > 0 {
			pkg.SetSource(fields[0])
		}
	case fieldProvides:
		for _, item := range strings.Split(value, ",") {
			pkg.AddProvides(relationName(item))
		}
	case fieldPreDepends, fieldDepends:
		for _, group := range strings.Split(value, ",") {
			for _, alt := range strings.Split(group, "|") {
				pkg.AddDep(relationName(alt))
			}
		}
	}

	return s
}

// splitField splits a "Key: value" line at the first ": ", the value is kept verbatim.
// A bare "Key:" line is a field with an empty value.
// Continuation lines (leading whitespace) and lines without the separator are rejected.
func splitField(line string) (string, string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return "", "", false
	}

	if key, value, found := strings.Cut(line, fieldSeparator); found {
		return key, value, true
	}

	key, found := strings.CutSuffix(line, ":")
	return key, "", found
}

// relationName drops the version clause from a relation ("libc6 (>= 2.34)" -> "libc6").
func relationName(item string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(item), " ")
	return name
}
