package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerclient"
)

func GlobalFlagValues(ctx *cli.Context) *GenericParams {
	values := GenericParams{
		NoColor:      ctx.Bool(FlagNoColor),
		Debug:        ctx.Bool(FlagDebug),
		Verbose:      ctx.Bool(FlagVerbose),
		QuietCLIMode: ctx.Bool(FlagQuietCLIMode),
		LogLevel:     ctx.String(FlagLogLevel),
		LogFormat:    ctx.String(FlagLogFormat),
		OutputFormat: ctx.String(FlagOutputFormat),
		Log:          ctx.String(FlagLog),
	}

	values.ClientConfig = GetDockerClientConfig(ctx)

	return &values
}

func GetDockerClientConfig(ctx *cli.Context) *config.DockerClient {
	config := &config.DockerClient{
		APIVersion:  ctx.String(FlagAPIVersion),
		UseTLS:      ctx.Bool(FlagUseTLS),
		VerifyTLS:   ctx.Bool(FlagVerifyTLS),
		TLSCertPath: ctx.String(FlagTLSCertPath),
		Host:        ctx.String(FlagHost),
		Env:         map[string]string{},
	}

	getEnv := func(name string) {
		if value, exists := os.LookupEnv(name); exists {
			config.Env[name] = value
		}
	}

	for _, ev := range dockerclient.EnvVarNames {
		getEnv(ev)
	}

	return config
}

// GetTarget returns the target image from the target flag or the first command arg
func GetTarget(ctx *cli.Context) string {
	if target := ctx.String(FlagTarget); target != "" {
		return target
	}

	return ctx.Args().First()
}

func GetAnalyzeParams(ctx *cli.Context, analyzerType string) *config.AnalyzeParams {
	return &config.AnalyzeParams{
		Target:         GetTarget(ctx),
		Type:           analyzerType,
		UseDockerCLI:   ctx.Bool(FlagDockerCLI),
		DockerCLIPath:  ctx.String(FlagDockerCLIPath),
		HonorWhiteouts: ctx.Bool(FlagHonorWhiteouts),
		TempDir:        ctx.String(FlagTempDir),
	}
}
