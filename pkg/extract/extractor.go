package extract

import (
	"context"
	"errors"
	"os"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockersave"
	"github.com/slimtoolkit/imgpkg/pkg/util/fsutil"
)

const archivePrefix = "imgpkg-image-"

// ErrNoArchive is returned when the saver reports success without leaving an image archive
var ErrNoArchive = errors.New("image archive not created")

// Extractor fetches files from the merged filesystem of a local Docker image
type Extractor struct {
	imageRef       string
	saver          dockersave.Saver
	tempDir        string
	honorWhiteouts bool
}

type Option func(*Extractor)

// WithTempDir sets the directory for the temporary image archive
func WithTempDir(dir string) Option {
	return func(x *Extractor) {
		x.tempDir = dir
	}
}

// WithWhiteouts controls if deleted files in upper layers hide lower layer files
func WithWhiteouts(honor bool) Option {
	return func(x *Extractor) {
		x.honorWhiteouts = honor
	}
}

func New(imageRef string, saver dockersave.Saver, opts ...Option) *Extractor {
	x := &Extractor{
		imageRef: imageRef,
		saver:    saver,
	}

	for _, opt := range opts {
		opt(x)
	}

	return x
}

func (x *Extractor) ImageRef() string {
	return x.imageRef
}

// Files saves the image to a temporary archive and returns the requested
// files as they appear in the image. Files the image doesn't have are
// not in the returned set. The temporary archive is always removed.
func (x *Extractor) Files(ctx context.Context, paths []string) (dockerimage.FileSet, error) {
	logger := log.WithFields(log.Fields{"op": "extract.Extractor.Files", "image": x.imageRef})

	archivePath, err := fsutil.TempArchivePath(x.tempDir, archivePrefix)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := fsutil.Remove(archivePath); err != nil {
			logger.WithError(err).Warn("failed to remove image archive")
		}
	}()

	if err := x.saver.Save(ctx, x.imageRef, archivePath); err != nil {
		logger.WithError(err).Debug("image save failed")
		return nil, err
	}

	if !fsutil.IsRegularFile(archivePath) {
		return nil, ErrNoArchive
	}

	logger.WithFields(log.Fields{
		"archive": archivePath,
		"size":    humanize.Bytes(uint64(fsutil.FileSize(archivePath))),
	}).Debug("image saved")

	archive, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	extracted, err := dockerimage.ExtractFiles(ctx, archive, paths)
	if err != nil {
		return nil, err
	}

	var resolveOpts []dockerimage.ResolveOption
	if x.honorWhiteouts {
		resolveOpts = append(resolveOpts, dockerimage.WithWhiteouts())
	}

	files, err := dockerimage.ResolveFiles(extracted, resolveOpts...)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"requested": len(paths),
		"found":     len(files),
	}).Debug("files extracted")

	return files, nil
}
