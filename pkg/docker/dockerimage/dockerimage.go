package dockerimage

import (
	"archive/tar"
	"context"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Extracted holds what ExtractFiles found in an image archive.
type Extracted struct {
	// Manifest is the raw manifest.json content (nil when the archive has none)
	Manifest []byte
	// Layers maps layer entry names to the requested files found in that layer.
	// Only layers with at least one requested file are present.
	Layers map[string]map[string][]byte
	// Hidden maps layer entry names to the requested paths whiteout entries
	// in that layer remove from the layers below it.
	Hidden map[string]map[string]struct{}
	// OCILayout is set when the archive carries an oci-layout marker
	OCILayout bool
}

func newExtracted() *Extracted {
	return &Extracted{
		Layers: map[string]map[string][]byte{},
		Hidden: map[string]map[string]struct{}{},
	}
}

type layerCapture struct {
	files  map[string][]byte
	hidden map[string]struct{}
}

// ExtractFiles reads an image archive created by `docker save` and captures
// the manifest plus every requested file in every layer archive.
//
// Each layer archive is decoded by its own goroutine, fed through a pipe
// while the outer archive is read. ExtractFiles returns only after all
// layer decoders are done.
func ExtractFiles(ctx context.Context, archive io.Reader, paths []string) (*Extracted, error) {
	want := newPathSet(paths)
	result := newExtracted()

	var mu sync.Mutex
	collect := func(layerID string, lc *layerCapture) {
		mu.Lock()
		defer mu.Unlock()

		if len(lc.files) > 0 {
			result.Layers[layerID] = lc.files
		}

		if len(lc.hidden) > 0 {
			result.Hidden[layerID] = lc.hidden
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	decodeLayer := func(tr *tar.Reader, layerID string, isBlob bool) error {
		pr, pw := io.Pipe()
		g.Go(func() error {
			lc, err := layerFilesFromStream(gctx, pr, layerID, want, isBlob)
			if err != nil {
				pr.CloseWithError(err)
				return err
			}

			//consume whatever follows the end of the layer archive
			if _, err := io.Copy(io.Discard, pr); err != nil {
				return errors.Wrapf(err, "draining layer %s", layerID)
			}

			if lc != nil {
				collect(layerID, lc)
			}

			return nil
		})

		n, err := io.Copy(pw, tr)
		pw.CloseWithError(err)
		if err != nil {
			return errors.Wrapf(err, "streaming layer %s", layerID)
		}

		log.WithFields(log.Fields{
			"op":    "dockerimage.ExtractFiles",
			"layer": layerID,
			"size":  humanize.Bytes(uint64(n)),
		}).Trace("layer streamed")
		return nil
	}

	readErr := func() error {
		tr := tar.NewReader(archive)
		for {
			if err := gctx.Err(); err != nil {
				return err
			}

			hdr, err := tr.Next()
			if err == io.EOF {
				return nil
			}

			if err != nil {
				return errors.Wrap(err, "reading image archive")
			}

			if hdr == nil || hdr.Name == "" || hdr.Typeflag != tar.TypeReg {
				continue
			}

			name := cleanEntryName(hdr.Name)
			switch {
			case name == dockerManifestFileName:
				data, err := io.ReadAll(tr)
				if err != nil {
					return errors.Wrap(err, "reading manifest")
				}

				result.Manifest = data
			case name == ociLayoutFileName:
				layout, err := readOCILayout(tr)
				if err != nil {
					log.WithField("op", "dockerimage.ExtractFiles").WithError(err).Debug("ignoring bad oci-layout entry")
					continue
				}

				result.OCILayout = true
				log.Debugf("dockerimage.ExtractFiles: OCI image layout version %s", layout.Version)
			case isDockerV1LayerEntry(name):
				if err := decodeLayer(tr, name, false); err != nil {
					return err
				}
			case isOCIBlobEntry(name):
				if err := decodeLayer(tr, name, true); err != nil {
					return err
				}
			}
			//payloads of all other entries are skipped by tr.Next()
		}
	}()

	//layer decoder errors explain outer read failures, so they go first
	if err := g.Wait(); err != nil {
		log.Errorf("dockerimage.ExtractFiles: layer decode error - %v", err)
		return nil, err
	}

	if readErr != nil {
		log.Errorf("dockerimage.ExtractFiles: archive read error - %v", readErr)
		return nil, readErr
	}

	log.WithFields(log.Fields{
		"op":          "dockerimage.ExtractFiles",
		"manifest":    result.Manifest != nil,
		"layers.hits": len(result.Layers),
	}).Debug("archive decoded")

	return result, nil
}

// layerFilesFromStream decodes one layer archive and captures the requested files.
// A nil capture with no error means the blob is not a layer archive.
func layerFilesFromStream(ctx context.Context, r io.Reader, layerID string, want pathSet, isBlob bool) (*layerCapture, error) {
	src := r
	if isBlob {
		blob, closeBlob, isArchive, err := openBlob(r)
		if err != nil {
			return nil, errors.Wrapf(err, "opening blob %s", layerID)
		}

		defer closeBlob()
		if !isArchive {
			return nil, nil
		}

		src = blob
	}

	lc := &layerCapture{
		files:  map[string][]byte{},
		hidden: map[string]struct{}{},
	}

	tr := tar.NewReader(src)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading layer %s", layerID)
		}

		if hdr == nil || hdr.Name == "" {
			continue
		}

		name := cleanEntryName(hdr.Name)
		for _, p := range want.whiteoutCovers(name) {
			lc.hidden[p] = struct{}{}
		}

		spellings, ok := want[name]
		if !ok {
			continue
		}

		if hdr.Typeflag != tar.TypeReg {
			//links are not followed
			log.WithFields(log.Fields{
				"op":    "dockerimage.layerFilesFromStream",
				"layer": layerID,
				"file":  name,
				"type":  ObjectTypeFromTarType(hdr.Typeflag),
			}).Debug("skipping non-regular file")
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s from layer %s", name, layerID)
		}

		for _, p := range spellings {
			lc.files[p] = data
		}

		log.WithFields(log.Fields{
			"op":    "dockerimage.layerFilesFromStream",
			"layer": layerID,
			"file":  name,
			"size":  humanize.Bytes(uint64(len(data))),
		}).Debug("captured file")
	}

	return lc, nil
}
