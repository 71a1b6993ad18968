package dockerutil

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	dockerapi "github.com/fsouza/go-dockerclient"
	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/util/fsutil"
)

var (
	ErrBadParam = errors.New("bad parameter")
	ErrNotFound = errors.New("not found")
)

const exportInactivityTimeout = 20 * time.Second

type ImageIdentity struct {
	ID           string
	ShortTags    []string
	RepoTags     []string
	ShortDigests []string
	RepoDigests  []string
}

func ImageToIdentity(info *dockerapi.Image) *ImageIdentity {
	result := &ImageIdentity{
		ID:          info.ID,
		RepoTags:    info.RepoTags,
		RepoDigests: info.RepoDigests,
	}

	uniqueTags := map[string]struct{}{}
	for _, tag := range result.RepoTags {
		if idx := strings.LastIndex(tag, ":"); idx > 0 && !strings.Contains(tag[idx:], "/") {
			uniqueTags[tag[idx+1:]] = struct{}{}
		}
	}

	for k := range uniqueTags {
		result.ShortTags = append(result.ShortTags, k)
	}

	uniqueDigests := map[string]struct{}{}
	for _, digest := range result.RepoDigests {
		parts := strings.Split(digest, "@")
		if len(parts) == 2 {
			uniqueDigests[parts[1]] = struct{}{}
		}
	}

	for k := range uniqueDigests {
		result.ShortDigests = append(result.ShortDigests, k)
	}

	return result
}

func CleanImageID(id string) string {
	return strings.TrimPrefix(id, "sha256:")
}

func isBadImageRef(imageRef string) bool {
	return imageRef == "" || imageRef == "." || imageRef == ".."
}

func isNotFound(err error) bool {
	if errors.Is(err, dockerapi.ErrNoSuchImage) {
		return true
	}

	var apiErr *dockerapi.Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// HasImage checks if the image is available locally.
// Images are checked by name:tag, full or partial image ID or name@digest.
func HasImage(dclient *dockerapi.Client, imageRef string) (*ImageIdentity, error) {
	if dclient == nil || isBadImageRef(imageRef) {
		return nil, ErrBadParam
	}

	imageInfo, err := dclient.InspectImage(imageRef)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}

		log.Errorf("dockerutil.HasImage(%s): dclient.InspectImage() error = %v", imageRef, err)
		return nil, err
	}

	return ImageToIdentity(imageInfo), nil
}

// SaveImage exports the image (`docker save` format) to the local archive file.
// A partially written archive is removed.
func SaveImage(ctx context.Context, dclient *dockerapi.Client, imageRef, local string) error {
	if dclient == nil || local == "" || isBadImageRef(imageRef) {
		return ErrBadParam
	}

	imageRef = CleanImageID(imageRef)

	dir := fsutil.FileDir(local)
	if !fsutil.DirExists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	dfile, err := os.Create(local)
	if err != nil {
		return err
	}

	options := dockerapi.ExportImageOptions{
		Name:              imageRef,
		OutputStream:      dfile,
		InactivityTimeout: exportInactivityTimeout,
		Context:           ctx,
	}

	err = dclient.ExportImage(options)
	if cerr := dfile.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		log.Errorf("dockerutil.SaveImage: dclient.ExportImage() error = %v", err)
		os.Remove(local)
		if isNotFound(err) {
			return ErrNotFound
		}

		return err
	}

	return nil
}
