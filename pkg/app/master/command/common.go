package command

import (
	"github.com/slimtoolkit/imgpkg/pkg/app"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/consts"
)

type GenericParams struct {
	NoColor      bool
	Debug        bool
	Verbose      bool
	QuietCLIMode bool
	LogLevel     string
	LogFormat    string
	OutputFormat string
	Log          string
	ClientConfig *config.DockerClient
}

// Exit Code Types
const (
	ECTCommon  = 0x01000000
	ECTAnalyze = 0x02000000
)

// Command exit codes
const (
	ECCOther = iota + 1
	ECCImageNotFound
	ECCNoDockerConnectInfo
	ECCBadParams
	ECCMalformedImage
)

const AppName = consts.AppName

// ShowCommunityInfo reminds the user where to report problems (text output only)
func ShowCommunityInfo(outputFormat string) {
	if outputFormat != OutputFormatJSON {
		app.ShowIssuesInfo()
	}
}
