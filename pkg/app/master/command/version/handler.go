package version

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/app"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerclient"
	"github.com/slimtoolkit/imgpkg/pkg/util/jsonutil"
	v "github.com/slimtoolkit/imgpkg/pkg/version"
)

type ovars = app.OutVars

type Info struct {
	Version       string `json:"version"`
	Tag           string `json:"tag"`
	DockerServer  string `json:"docker_server,omitempty"`
	DockerAPI     string `json:"docker_api,omitempty"`
	DockerMissing bool   `json:"docker_missing,omitempty"`
}

// OnCommand implements the 'version' command
func OnCommand(
	xc *app.ExecutionContext,
	clientConfig *config.DockerClient) {
	logger := log.WithFields(log.Fields{"app": command.AppName, "cmd": Name})

	info := Info{
		Version: v.Current(),
		Tag:     v.Tag(),
	}

	client, err := dockerclient.New(clientConfig)
	if err != nil {
		logger.Debugf("no docker client - %v", err)
		info.DockerMissing = true
	} else {
		ver, err := client.Version()
		if err != nil {
			logger.Debugf("error getting docker version - %v", err)
			info.DockerMissing = true
		} else {
			info.DockerServer = ver.Get("Version")
			info.DockerAPI = ver.Get("ApiVersion")
		}
	}

	if xc.Out.IsJSON() {
		xc.Out.Result(jsonutil.ToPretty(info))
		return
	}

	if xc.Out.Quiet {
		xc.Out.Result(fmt.Sprintf("%s %s", command.AppName, info.Version))
		return
	}

	xc.Out.Info("app", ovars{"version": info.Version, "tag": info.Tag})
	if info.DockerMissing {
		xc.Out.Info("no.docker.client", ovars{})
		return
	}

	xc.Out.Info("docker",
		ovars{
			"server.version": info.DockerServer,
			"api.version":    info.DockerAPI,
		})
}
