package dpkgdb

import (
	"strconv"
	"strings"

	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

type extStatesScan struct {
	current string
	auto    pkgdb.Set
}

// ParseExtendedStates returns the names of the packages apt marked as
// automatically installed ("Auto-Installed: 1").
func ParseExtendedStates(text string) pkgdb.Set {
	start := extStatesScan{auto: pkgdb.NewSet()}
	return pkgdb.Fold(text, start, parseExtStatesLine).auto
}

func parseExtStatesLine(s extStatesScan, line string) extStatesScan {
	key, value, ok := splitField(line)
	if !ok {
		return s
	}

	switch key {
	case fieldPackage:
		s.current = value
	case fieldAutoInstalled:
		if s.current == "" {
			return s
		}

		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n == 1 {
			s.auto.Add(s.current)
		}
	}

	return s
}

// MarkAutoInstalled flags the records whose name is in the auto set.
// Records that don't match are left as they are.
func MarkAutoInstalled(records []*pkgdb.Record, auto pkgdb.Set) {
	if auto.Len() == 0 {
		return
	}

	for _, r := range records {
		if auto.Has(r.Name) {
			r.AutoInstalled = true
		}
	}
}
