// Package dockersave materializes local Docker images as `docker save` archives.
package dockersave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerclient"
)

// ErrImageNotFound is returned when the image is not available locally
var ErrImageNotFound = errors.New("image not found")

// Saver writes the `docker save` archive of a local image to archivePath
type Saver interface {
	Save(ctx context.Context, imageRef, archivePath string) error
}

// ProcessError is returned when the image export fails for a reason other
// than a missing image
type ProcessError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	b.WriteString("image export failed")
	if e.Op != "" {
		b.WriteString(" (")
		b.WriteString(e.Op)
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}

	return b.String()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

func imageNotFound(imageRef string) error {
	return fmt.Errorf("%w: %s", ErrImageNotFound, imageRef)
}

// New creates the image saver for the Docker connection parameters.
// With useCLI set images are saved by running the docker CLI (cliPath or "docker").
func New(cfg *config.DockerClient, useCLI bool, cliPath string) (Saver, error) {
	if useCLI {
		return NewCLISaver(cliPath, cfg), nil
	}

	client, err := dockerclient.New(cfg)
	if err != nil {
		return nil, err
	}

	return NewAPISaver(client), nil
}
