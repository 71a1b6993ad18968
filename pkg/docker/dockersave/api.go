package dockersave

import (
	"context"
	"errors"

	docker "github.com/fsouza/go-dockerclient"
	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerutil"
)

// APISaver exports images through the Docker Engine API
type APISaver struct {
	client *docker.Client
}

func NewAPISaver(client *docker.Client) *APISaver {
	return &APISaver{client: client}
}

func (s *APISaver) Save(ctx context.Context, imageRef, archivePath string) error {
	logger := log.WithFields(log.Fields{"op": "dockersave.APISaver.Save", "image": imageRef})

	identity, err := dockerutil.HasImage(s.client, imageRef)
	if err != nil {
		if errors.Is(err, dockerutil.ErrNotFound) {
			return imageNotFound(imageRef)
		}

		return &ProcessError{Op: "inspect", Err: err}
	}

	logger.WithFields(log.Fields{
		"id":   identity.ID,
		"tags": identity.ShortTags,
	}).Debug("exporting image")

	if err := dockerutil.SaveImage(ctx, s.client, imageRef, archivePath); err != nil {
		if errors.Is(err, dockerutil.ErrNotFound) {
			return imageNotFound(imageRef)
		}

		return &ProcessError{Op: "export", Err: err}
	}

	logger.WithField("archive", archivePath).Debug("image exported")
	return nil
}
