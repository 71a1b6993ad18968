// Package apkdb decodes the apk installed package database (lib/apk/db/installed).
//
// Each line has the form "<key>:<value>" where the key is a single letter.
// A "P" line starts a new package; the other recognized keys fill in the
// package started last. Everything else is ignored.
package apkdb

import (
	"strings"

	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

const (
	keyPackage  = 'P'
	keyVersion  = 'V'
	keyProvides = 'p'
	keyDepends  = 'D'
	keyReplaces = 'r'
)

// value starts right after "<key>:"
const valueOffset = 2

// Parse decodes the text of an apk installed database.
// It never fails: malformed lines are skipped.
func Parse(text string) []*pkgdb.Record {
	return pkgdb.Fold(text, pkgdb.Scan{}, parseLine).Records()
}

func parseLine(s pkgdb.Scan, line string) pkgdb.Scan {
	if len(line) < valueOffset || line[1] != ':' {
		return s
	}

	key, value := line[0], line[valueOffset:]
	if key == keyPackage {
		return s.Start(value)
	}

	pkg := s.Current()
	if pkg == nil {
		return s
	}

	switch key {
	case keyVersion:
		pkg.SetVersion(value)
	case keyProvides:
		for _, token := range strings.Split(value, " ") {
			pkg.AddProvides(stripConstraint(token))
		}
	case keyDepends, keyReplaces:
		for _, token := range strings.Split(value, " ") {
			if strings.HasPrefix(token, "!") {
				//conflict markers are not dependencies
				continue
			}

			pkg.AddDep(stripConstraint(token))
		}
	}

	return s
}

func stripConstraint(token string) string {
	name, _, _ := strings.Cut(token, "=")
	return name
}
