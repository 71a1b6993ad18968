package dockersave

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerclient"
)

const defaultDockerCLI = "docker"

var notFoundMarkers = []string{
	"No such image",
	"reference does not exist",
}

// CLISaver exports images by running `docker save`
type CLISaver struct {
	path   string
	config *config.DockerClient
}

func NewCLISaver(path string, cfg *config.DockerClient) *CLISaver {
	if path == "" {
		path = defaultDockerCLI
	}

	if cfg == nil {
		cfg = &config.DockerClient{}
	}

	return &CLISaver{path: path, config: cfg}
}

// Args returns the docker CLI arguments used to save the image
func (s *CLISaver) Args(imageRef, archivePath string) []string {
	var args []string
	if s.config.Host != "" {
		args = append(args, "--host", s.config.Host)

		if s.config.UseTLS && s.config.TLSCertPath != "" {
			args = append(args,
				"--tlscert", filepath.Join(s.config.TLSCertPath, "cert.pem"),
				"--tlskey", filepath.Join(s.config.TLSCertPath, "key.pem"))

			if s.config.VerifyTLS {
				args = append(args,
					"--tlsverify",
					"--tlscacert", filepath.Join(s.config.TLSCertPath, "ca.pem"))
			}
		}
	}

	return append(args, "save", "-o", archivePath, imageRef)
}

func (s *CLISaver) Save(ctx context.Context, imageRef, archivePath string) error {
	args := s.Args(imageRef, archivePath)
	logger := log.WithFields(log.Fields{
		"op":    "dockersave.CLISaver.Save",
		"image": imageRef,
		"cmd":   s.path,
	})
	logger.Tracef("args: %v", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.path, args...)
	cmd.Stderr = &stderr
	cmd.Env = os.Environ()
	if s.config.APIVersion != "" && s.config.Env[dockerclient.EnvDockerAPIVer] == "" {
		cmd.Env = append(cmd.Env, dockerclient.EnvDockerAPIVer+"="+s.config.APIVersion)
	}

	if err := cmd.Run(); err != nil {
		output := stderr.String()
		for _, marker := range notFoundMarkers {
			if strings.Contains(output, marker) {
				return imageNotFound(imageRef)
			}
		}

		logger.WithError(err).Debugf("stderr: %s", output)
		return &ProcessError{Op: "docker save", Stderr: output, Err: err}
	}

	logger.WithField("archive", archivePath).Debug("image saved")
	return nil
}
