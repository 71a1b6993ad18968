package dockerimage

import (
	"encoding/json"
	"io"
	"path"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	dockerManifestFileName = "manifest.json"

	//dockerV1 layer archives: <LAYER_ID>/layer.tar
	dockerV1LayerFileName = "layer.tar"
)

const (
	//OCI layout (docker save in Docker 25+): layers are blobs/sha256/<HEX>
	ociBlobDirPrefix  = "blobs/"
	ociLayoutFileName = ocispec.ImageLayoutFile
)

// cleanEntryName normalizes archive entry names ("./a//b" -> "a/b", "/a" -> "a").
func cleanEntryName(name string) string {
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}

func isDockerV1LayerEntry(name string) bool {
	return path.Base(name) == dockerV1LayerFileName
}

func isOCIBlobEntry(name string) bool {
	return strings.HasPrefix(name, ociBlobDirPrefix)
}

func readOCILayout(r io.Reader) (*ocispec.ImageLayout, error) {
	var layout ocispec.ImageLayout
	if err := json.NewDecoder(r).Decode(&layout); err != nil {
		return nil, err
	}

	return &layout, nil
}
