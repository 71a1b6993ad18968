package command

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Global flag names
const (
	FlagDebug        = "debug"
	FlagVerbose      = "verbose"
	FlagQuietCLIMode = "quiet"
	FlagLogLevel     = "log-level"
	FlagLog          = "log"
	FlagLogFormat    = "log-format"
	FlagAPIVersion   = "crt-api-version"
	FlagUseTLS       = "tls"
	FlagVerifyTLS    = "tls-verify"
	FlagTLSCertPath  = "tls-cert-path"
	FlagHost         = "host"
	FlagNoColor      = "no-color"
	FlagOutputFormat = "output-format"
)

const (
	OutputFormatJSON = "json"
	OutputFormatText = "text"
)

// Global flag usage info
const (
	FlagDebugUsage        = "enable debug logs"
	FlagVerboseUsage      = "enable info logs"
	FlagQuietCLIModeUsage = "Quiet CLI execution mode (print the command result only)"
	FlagLogLevelUsage     = "set the logging level ('trace', 'debug', 'info', 'warn' (default), 'error', 'fatal', 'panic')"
	FlagLogUsage          = "log file to store logs"
	FlagLogFormatUsage    = "set the format used by logs ('text' (default), or 'json')"
	FlagOutputFormatUsage = "set the output format to use ('text' (default), or 'json')"
	FlagUseTLSUsage       = "use TLS"
	FlagVerifyTLSUsage    = "verify TLS"
	FlagTLSCertPathUsage  = "path to TLS cert files"
	FlagAPIVersionUsage   = "Container runtime API version"
	FlagHostUsage         = "Docker host address or socket (prefix with 'tcp://' or 'unix://')"
	FlagNoColorUsage      = "disable color output"
)

// Shared command flag names
const (
	FlagTarget         = "target"
	FlagDockerCLI      = "docker-cli"
	FlagDockerCLIPath  = "docker-cli-path"
	FlagHonorWhiteouts = "honor-whiteouts"
	FlagTempDir        = "temp-dir"
)

// Shared command flag usage info
const (
	FlagTargetUsage         = "Target container image (name or ID)"
	FlagDockerCLIUsage      = "Save the target image with the docker CLI instead of the Docker API"
	FlagDockerCLIPathUsage  = "docker CLI executable to use with --docker-cli"
	FlagHonorWhiteoutsUsage = "Hide files deleted in upper image layers"
	FlagTempDirUsage        = "Directory for the temporary image archive (system temp directory by default)"
)

func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    FlagDebug,
			Usage:   FlagDebugUsage,
			EnvVars: []string{"IMGPKG_DEBUG"},
		},
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Usage:   FlagVerboseUsage,
			EnvVars: []string{"IMGPKG_VERBOSE"},
		},
		&cli.BoolFlag{
			Name:    FlagQuietCLIMode,
			Usage:   FlagQuietCLIModeUsage,
			EnvVars: []string{"IMGPKG_QUIET"},
		},
		&cli.StringFlag{
			Name:    FlagLogLevel,
			Value:   "warn",
			Usage:   FlagLogLevelUsage,
			EnvVars: []string{"IMGPKG_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:  FlagLog,
			Usage: FlagLogUsage,
		},
		&cli.StringFlag{
			Name:  FlagLogFormat,
			Value: "text",
			Usage: FlagLogFormatUsage,
		},
		&cli.StringFlag{
			Name:  FlagOutputFormat,
			Value: OutputFormatText,
			Usage: FlagOutputFormatUsage,
		},
		&cli.BoolFlag{
			Name:  FlagUseTLS,
			Value: true,
			Usage: FlagUseTLSUsage,
		},
		&cli.BoolFlag{
			Name:  FlagVerifyTLS,
			Value: true,
			Usage: FlagVerifyTLSUsage,
		},
		&cli.StringFlag{
			Name:  FlagTLSCertPath,
			Value: "",
			Usage: FlagTLSCertPathUsage,
		},
		&cli.StringFlag{
			Name:    FlagAPIVersion,
			Value:   "",
			Usage:   FlagAPIVersionUsage,
			EnvVars: []string{"IMGPKG_CRT_API_VER"},
		},
		&cli.StringFlag{
			Name:  FlagHost,
			Value: "",
			Usage: FlagHostUsage,
		},
		&cli.BoolFlag{
			Name:  FlagNoColor,
			Usage: FlagNoColorUsage,
		},
	}
}

var CommonFlags = map[string]cli.Flag{
	FlagTarget: &cli.StringFlag{
		Name:    FlagTarget,
		Value:   "",
		Usage:   FlagTargetUsage,
		EnvVars: []string{"IMGPKG_TARGET"},
	},
	FlagDockerCLI: &cli.BoolFlag{
		Name:    FlagDockerCLI,
		Usage:   FlagDockerCLIUsage,
		EnvVars: []string{"IMGPKG_DOCKER_CLI"},
	},
	FlagDockerCLIPath: &cli.StringFlag{
		Name:    FlagDockerCLIPath,
		Value:   "docker",
		Usage:   FlagDockerCLIPathUsage,
		EnvVars: []string{"IMGPKG_DOCKER_CLI_PATH"},
	},
	FlagHonorWhiteouts: &cli.BoolFlag{
		Name:    FlagHonorWhiteouts,
		Usage:   FlagHonorWhiteoutsUsage,
		EnvVars: []string{"IMGPKG_HONOR_WHITEOUTS"},
	},
	FlagTempDir: &cli.StringFlag{
		Name:    FlagTempDir,
		Value:   "",
		Usage:   FlagTempDirUsage,
		EnvVars: []string{"IMGPKG_TEMP_DIR"},
	},
}

func Cflag(name string) cli.Flag {
	cf, ok := CommonFlags[name]
	if !ok {
		log.Fatalf("command.Cflag: unknown flag='%s'", name)
	}

	return cf
}
