package dockersave

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	docker "github.com/fsouza/go-dockerclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
)

const archiveData = "fake image archive"

func newFakeDockerAPI(t *testing.T, knownImage string, exportStatus int) *docker.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/images/"+knownImage+"/json"):
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"Id":"sha256:0123456789ab","RepoTags":["` + knownImage + `"]}`))
		case strings.HasSuffix(r.URL.Path, "/json"):
			http.Error(w, `{"message":"No such image"}`, http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, "/images/"+knownImage+"/get"):
			if exportStatus != http.StatusOK {
				http.Error(w, `{"message":"export failed"}`, exportStatus)
				return
			}

			w.Header().Set("Content-Type", "application/x-tar")
			w.Write([]byte(archiveData))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client, err := docker.NewClient(server.URL)
	require.NoError(t, err)
	return client
}

func TestAPISaver(t *testing.T) {
	client := newFakeDockerAPI(t, "alpine:3.19", http.StatusOK)
	saver := NewAPISaver(client)

	t.Run("saved", func(t *testing.T) {
		archivePath := filepath.Join(t.TempDir(), "image.tar")
		require.NoError(t, saver.Save(context.Background(), "alpine:3.19", archivePath))

		data, err := os.ReadFile(archivePath)
		require.NoError(t, err)
		assert.Equal(t, archiveData, string(data))
	})

	t.Run("not found", func(t *testing.T) {
		archivePath := filepath.Join(t.TempDir(), "image.tar")
		err := saver.Save(context.Background(), "missing:latest", archivePath)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrImageNotFound))
		assert.Equal(t, "image not found: missing:latest", err.Error())

		var perr *ProcessError
		assert.False(t, errors.As(err, &perr))
	})
}

func TestAPISaverExportFailure(t *testing.T) {
	client := newFakeDockerAPI(t, "alpine:3.19", http.StatusInternalServerError)
	saver := NewAPISaver(client)

	archivePath := filepath.Join(t.TempDir(), "image.tar")
	err := saver.Save(context.Background(), "alpine:3.19", archivePath)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrImageNotFound))

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "export", perr.Op)

	_, serr := os.Stat(archivePath)
	assert.True(t, os.IsNotExist(serr))
}

func writeFakeDocker(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported")
	}

	path := filepath.Join(t.TempDir(), "docker")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestCLISaver(t *testing.T) {
	tt := []struct {
		name        string
		script      string
		notFound    bool
		processFail bool
	}{
		{
			name: "saved",
			script: `while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
printf 'fake image archive' > "$out"
`,
		},
		{
			name:     "no such image",
			script:   "echo 'Error response from daemon: No such image: missing:latest' >&2\nexit 1\n",
			notFound: true,
		},
		{
			name:     "reference does not exist",
			script:   "echo 'Error response from daemon: reference does not exist' >&2\nexit 1\n",
			notFound: true,
		},
		{
			name:        "daemon down",
			script:      "echo 'Cannot connect to the Docker daemon' >&2\nexit 1\n",
			processFail: true,
		},
	}

	for _, test := range tt {
		t.Run(test.name, func(t *testing.T) {
			saver := NewCLISaver(writeFakeDocker(t, test.script), nil)
			archivePath := filepath.Join(t.TempDir(), "image.tar")

			err := saver.Save(context.Background(), "missing:latest", archivePath)
			switch {
			case test.notFound:
				assert.True(t, errors.Is(err, ErrImageNotFound))
			case test.processFail:
				var perr *ProcessError
				require.True(t, errors.As(err, &perr))
				assert.False(t, errors.Is(err, ErrImageNotFound))
				assert.Contains(t, perr.Stderr, "Cannot connect")
				assert.Contains(t, perr.Error(), "Cannot connect")
			default:
				require.NoError(t, err)
				data, err := os.ReadFile(archivePath)
				require.NoError(t, err)
				assert.Equal(t, archiveData, string(data))
			}
		})
	}
}

func TestCLISaverMissingBinary(t *testing.T) {
	saver := NewCLISaver(filepath.Join(t.TempDir(), "no-docker"), nil)
	err := saver.Save(context.Background(), "alpine", filepath.Join(t.TempDir(), "image.tar"))

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestCLISaverArgs(t *testing.T) {
	tt := []struct {
		name     string
		config   *config.DockerClient
		expected []string
	}{
		{
			name:     "default",
			config:   nil,
			expected: []string{"save", "-o", "/tmp/a.tar", "alpine"},
		},
		{
			name:     "host",
			config:   &config.DockerClient{Host: "tcp://10.0.0.1:2375"},
			expected: []string{"--host", "tcp://10.0.0.1:2375", "save", "-o", "/tmp/a.tar", "alpine"},
		},
		{
			name: "tls verify",
			config: &config.DockerClient{
				Host:        "tcp://10.0.0.1:2376",
				UseTLS:      true,
				VerifyTLS:   true,
				TLSCertPath: "/certs",
			},
			expected: []string{
				"--host", "tcp://10.0.0.1:2376",
				"--tlscert", "/certs/cert.pem",
				"--tlskey", "/certs/key.pem",
				"--tlsverify",
				"--tlscacert", "/certs/ca.pem",
				"save", "-o", "/tmp/a.tar", "alpine",
			},
		},
		{
			name: "tls no verify",
			config: &config.DockerClient{
				Host:        "tcp://10.0.0.1:2376",
				UseTLS:      true,
				TLSCertPath: "/certs",
			},
			expected: []string{
				"--host", "tcp://10.0.0.1:2376",
				"--tlscert", "/certs/cert.pem",
				"--tlskey", "/certs/key.pem",
				"save", "-o", "/tmp/a.tar", "alpine",
			},
		},
	}

	for _, test := range tt {
		t.Run(test.name, func(t *testing.T) {
			saver := NewCLISaver("", test.config)
			assert.Equal(t, test.expected, saver.Args("alpine", "/tmp/a.tar"))
		})
	}
}

func TestProcessErrorMessage(t *testing.T) {
	err := &ProcessError{Op: "docker save", Stderr: "boom\n", Err: errors.New("exit status 1")}
	assert.Equal(t, "image export failed (docker save): exit status 1: boom", err.Error())
}
