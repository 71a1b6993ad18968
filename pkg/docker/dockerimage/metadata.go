package dockerimage

import (
	"path"
	"strings"
)

//consts from https://github.com/moby/moby/blob/master/pkg/archive/whiteouts.go

// WhiteoutPrefix prefix means file is a whiteout. If this is followed by a
// filename this means that file has been removed from the base layer.
const WhiteoutPrefix = ".wh."

// WhiteoutMetaPrefix prefix means whiteout has a special meaning and is not
// for removing an actual file.
const WhiteoutMetaPrefix = WhiteoutPrefix + WhiteoutPrefix

// WhiteoutOpaqueDir file means directory has been made opaque - meaning
// readdir calls to this directory do not follow to lower layers.
const WhiteoutOpaqueDir = WhiteoutMetaPrefix + ".opq"

// pathSet maps normalized paths to the spellings the caller asked for
type pathSet map[string][]string

func newPathSet(paths []string) pathSet {
	ps := pathSet{}
	for _, p := range paths {
		key := cleanEntryName(p)
		if key == "" {
			continue
		}

		ps[key] = append(ps[key], p)
	}

	return ps
}

// whiteoutCovers returns the requested paths a whiteout entry hides in lower layers.
// The entry name must be normalized.
func (ps pathSet) whiteoutCovers(name string) []string {
	dir, base := path.Split(name)
	if !strings.HasPrefix(base, WhiteoutPrefix) {
		return nil
	}

	dir = strings.TrimSuffix(dir, "/")
	var covered []string
	switch {
	case base == WhiteoutOpaqueDir:
		for key, spellings := range ps {
			if dir == "" || strings.HasPrefix(key, dir+"/") {
				covered = append(covered, spellings...)
			}
		}
	case strings.HasPrefix(base, WhiteoutMetaPrefix):
		//other meta entries (e.g. ".wh..wh.plnk") don't delete anything
	default:
		target := path.Join(dir, base[len(WhiteoutPrefix):])
		for key, spellings := range ps {
			if key == target || strings.HasPrefix(key, target+"/") {
				covered = append(covered, spellings...)
			}
		}
	}

	return covered
}
