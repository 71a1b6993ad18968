package dockerimage

import (
	log "github.com/sirupsen/logrus"
)

// FileSet maps requested paths to their content in the merged image filesystem.
// Paths not in the set were not found.
type FileSet map[string][]byte

// Has returns true if the file is in the set
func (fs FileSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

// Text returns the file content as text ("" when the file is not in the set)
func (fs FileSet) Text(name string) string {
	return string(fs[name])
}

type resolveOptions struct {
	honorWhiteouts bool
}

type ResolveOption func(*resolveOptions)

// WithWhiteouts makes whiteout markers in upper layers hide files from lower layers.
func WithWhiteouts() ResolveOption {
	return func(o *resolveOptions) {
		o.honorWhiteouts = true
	}
}

// ResolveFiles merges the captured files following the manifest layer order.
// Upper layers take precedence; a path defined in several layers resolves to
// the content from the topmost one. Whiteout markers are ignored unless
// WithWhiteouts is used.
//
// An archive without a manifest resolves to an empty set.
func ResolveFiles(x *Extracted, opts ...ResolveOption) (FileSet, error) {
	var ro resolveOptions
	for _, opt := range opts {
		opt(&ro)
	}

	files := FileSet{}
	if x == nil || x.Manifest == nil {
		log.WithField("op", "dockerimage.ResolveFiles").Debug("no manifest")
		return files, nil
	}

	manifest, err := ParseManifest(x.Manifest)
	if err != nil {
		return nil, err
	}

	committed := map[string]struct{}{}
	for i := len(manifest.Layers) - 1; i >= 0; i-- {
		layerID := manifest.Layers[i]
		for name, data := range x.Layers[layerID] {
			if _, done := committed[name]; done {
				continue
			}

			committed[name] = struct{}{}
			files[name] = data
		}

		if !ro.honorWhiteouts {
			continue
		}

		for name := range x.Hidden[layerID] {
			if _, done := committed[name]; done {
				continue
			}

			//committed as absent
			committed[name] = struct{}{}
			log.WithFields(log.Fields{
				"op":    "dockerimage.ResolveFiles",
				"layer": layerID,
				"file":  name,
			}).Debug("file removed by whiteout")
		}
	}

	log.WithFields(log.Fields{
		"op":     "dockerimage.ResolveFiles",
		"layers": len(manifest.Layers),
		"files":  len(files),
	}).Debug("resolved")

	return files, nil
}
