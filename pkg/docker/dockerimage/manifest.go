package dockerimage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-containerregistry/pkg/v1/tarball"
)

var ErrMalformedManifest = errors.New("malformed image manifest")

// Manifest is the image entry of a `docker save` manifest.json
type Manifest struct {
	Config   string   //"IMAGE_ID.json" or "blobs/sha256/IMAGE_ID"
	RepoTags []string //["user/repo:tag"]
	Layers   []string //base to top: "LAYER_ID/layer.tar" or "blobs/sha256/LAYER_ID"
}

// ParseManifest decodes manifest.json and returns its first image entry.
// Layer names are normalized the same way archive entry names are.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifests tarball.Manifest
	if err := json.Unmarshal(data, &manifests); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}

	if len(manifests) == 0 {
		return nil, fmt.Errorf("%w: no manifests", ErrMalformedManifest)
	}

	first := manifests[0]
	if first.Layers == nil {
		return nil, fmt.Errorf("%w: no layer list", ErrMalformedManifest)
	}

	m := &Manifest{
		Config:   first.Config,
		RepoTags: first.RepoTags,
		Layers:   make([]string, 0, len(first.Layers)),
	}

	for _, layer := range first.Layers {
		m.Layers = append(m.Layers, cleanEntryName(layer))
	}

	return m, nil
}
