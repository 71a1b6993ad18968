package dockerclient

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	docker "github.com/fsouza/go-dockerclient"
	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/util/errutil"
	"github.com/slimtoolkit/imgpkg/pkg/util/fsutil"
	"github.com/slimtoolkit/imgpkg/pkg/util/jsonutil"
)

const (
	EnvDockerAPIVer      = "DOCKER_API_VERSION"
	EnvDockerHost        = "DOCKER_HOST"
	EnvDockerTLSVerify   = "DOCKER_TLS_VERIFY"
	EnvDockerCertPath    = "DOCKER_CERT_PATH"
	UnixSocketPath       = "/var/run/docker.sock"
	UnixSocketAddr       = "unix:///var/run/docker.sock"
	unixUserSocketSuffix = ".docker/run/docker.sock"
)

const (
	tlsCertFileName = "cert.pem"
	tlsKeyFileName  = "key.pem"
	tlsCAFileName   = "ca.pem"
)

var EnvVarNames = []string{
	EnvDockerHost,
	EnvDockerTLSVerify,
	EnvDockerCertPath,
	EnvDockerAPIVer,
}

var (
	ErrNoDockerInfo = errors.New("no docker info")
	ErrNoSocket     = errors.New("docker socket not found")
)

// ConnectMode identifies how the client connects to the Docker daemon
type ConnectMode string

const (
	ConnectTLSVerify ConnectMode = "tls.verify"
	ConnectTLS       ConnectMode = "tls"
	ConnectHost      ConnectMode = "host"
	ConnectEnvTLS    ConnectMode = "env.tls"
	ConnectEnv       ConnectMode = "env"
	ConnectSocket    ConnectMode = "socket"
)

// Mode selects the connection mode for the client parameters
func Mode(config *config.DockerClient) (ConnectMode, error) {
	if config == nil {
		return "", ErrNoDockerInfo
	}

	switch {
	case config.Host != "" && config.UseTLS && config.TLSCertPath != "":
		if config.VerifyTLS {
			return ConnectTLSVerify, nil
		}

		return ConnectTLS, nil
	case config.Host != "" && !config.UseTLS:
		return ConnectHost, nil
	case config.Host == "" &&
		!config.VerifyTLS &&
		config.Env[EnvDockerTLSVerify] == "1" &&
		config.Env[EnvDockerCertPath] != "" &&
		config.Env[EnvDockerHost] != "":
		return ConnectEnvTLS, nil
	case config.Env[EnvDockerHost] != "":
		return ConnectEnv, nil
	case config.Host == "":
		return ConnectSocket, nil
	}

	return "", ErrNoDockerInfo
}

func UserDockerSocket() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, unixUserSocketSuffix)
}

type SocketInfo struct {
	Address   string `json:"address"`
	FilePath  string `json:"file_path"`
	IsSymlink bool   `json:"is_symlink,omitempty"`
	CanRead   bool   `json:"can_read"`
	CanWrite  bool   `json:"can_write"`
}

func getSocketInfo(filePath string) (*SocketInfo, error) {
	info := &SocketInfo{
		FilePath: filePath,
		Address:  fmt.Sprintf("unix://%s", filePath),
	}

	fi, err := os.Lstat(filePath)
	if err != nil {
		log.Errorf("dockerclient.getSocketInfo.os.Lstat(%s): error - %v", filePath, err)
		return nil, err
	}

	info.IsSymlink = fi.Mode()&os.ModeSymlink != 0

	info.CanRead, err = fsutil.HasReadAccess(filePath)
	if err != nil {
		log.Errorf("dockerclient.getSocketInfo.fsutil.HasReadAccess(%s): error - %v", filePath, err)
		return nil, err
	}

	info.CanWrite, err = fsutil.HasWriteAccess(filePath)
	if err != nil {
		log.Errorf("dockerclient.getSocketInfo.fsutil.HasWriteAccess(%s): error - %v", filePath, err)
		return nil, err
	}

	return info, nil
}

// GetUnixSocketAddr finds the system or the user Docker socket
func GetUnixSocketAddr() (*SocketInfo, error) {
	for _, socketPath := range []string{UnixSocketPath, UserDockerSocket()} {
		if !fsutil.Exists(socketPath) {
			continue
		}

		socketInfo, err := getSocketInfo(socketPath)
		if err != nil {
			return nil, err
		}

		log.Debugf("dockerclient.GetUnixSocketAddr(): found => %s", jsonutil.ToString(socketInfo))
		return socketInfo, nil
	}

	return nil, ErrNoSocket
}

func newTLSClient(host string, certPath string, verify bool, apiVersion string) (*docker.Client, error) {
	var ca []byte

	cert, err := os.ReadFile(filepath.Join(certPath, tlsCertFileName))
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(filepath.Join(certPath, tlsKeyFileName))
	if err != nil {
		return nil, err
	}

	if verify {
		ca, err = os.ReadFile(filepath.Join(certPath, tlsCAFileName))
		if err != nil {
			return nil, err
		}
	}

	return docker.NewVersionedTLSClientFromBytes(host, cert, key, ca, apiVersion)
}

func newHostClient(host, apiVersion string) (*docker.Client, error) {
	client, err := docker.NewVersionedClient(host, apiVersion)
	if err != nil {
		return nil, err
	}

	if apiVersion != "" {
		client.SkipServerVersionCheck = true
	}

	return client, nil
}

// New creates a new Docker client instance
func New(config *config.DockerClient) (*docker.Client, error) {
	mode, err := Mode(config)
	if err != nil {
		return nil, err
	}

	var client *docker.Client
	switch mode {
	case ConnectTLSVerify:
		client, err = newTLSClient(config.Host, config.TLSCertPath, true, config.APIVersion)
	case ConnectTLS:
		client, err = newTLSClient(config.Host, config.TLSCertPath, false, config.APIVersion)
	case ConnectHost:
		client, err = newHostClient(config.Host, config.APIVersion)
	case ConnectEnvTLS:
		client, err = newTLSClient(config.Env[EnvDockerHost], config.Env[EnvDockerCertPath], false, config.APIVersion)
	case ConnectEnv:
		client, err = docker.NewClientFromEnv()
	case ConnectSocket:
		var socketInfo *SocketInfo
		socketInfo, err = GetUnixSocketAddr()
		if err != nil {
			return nil, err
		}

		if !socketInfo.CanRead || !socketInfo.CanWrite {
			return nil, fmt.Errorf("insufficient socket permissions (can_read=%v can_write=%v)", socketInfo.CanRead, socketInfo.CanWrite)
		}

		config.Host = socketInfo.Address
		client, err = newHostClient(config.Host, config.APIVersion)
	}

	if err != nil {
		log.Errorf("dockerclient.New(%s): error - %v", mode, err)
		return nil, err
	}

	log.Debugf("dockerclient.New: new Docker client (%s)", mode)

	if config.Env[EnvDockerHost] == "" && config.Host != "" {
		if err := os.Setenv(EnvDockerHost, config.Host); err != nil {
			errutil.WarnOn(err)
		}

		log.Debug("dockerclient.New: configured DOCKER_HOST env var")
	}

	if config.APIVersion != "" && config.Env[EnvDockerAPIVer] == "" {
		if err := os.Setenv(EnvDockerAPIVer, config.APIVersion); err != nil {
			errutil.WarnOn(err)
		}

		log.Debug("dockerclient.New: configured DOCKER_API_VERSION env var")
	}

	return client, nil
}
