package analyze

import (
	"github.com/urfave/cli/v2"

	"github.com/slimtoolkit/imgpkg/pkg/app"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command"
)

const (
	Name  = "analyze"
	Usage = "List the OS packages (apk, apt) installed in a local container image"
	Alias = "a"
)

const (
	FlagType      = "type"
	FlagTypeUsage = "Package manager database to read ('auto' (default), 'apk' or 'apt')"
)

const (
	TypeAuto = "auto"
	TypeApk  = "apk"
	TypeApt  = "apt"
)

var CLI = &cli.Command{
	Name:      Name,
	Aliases:   []string{Alias},
	Usage:     Usage,
	ArgsUsage: "IMAGE",
	Flags: []cli.Flag{
		command.Cflag(command.FlagTarget),
		&cli.StringFlag{
			Name:    FlagType,
			Value:   TypeAuto,
			Usage:   FlagTypeUsage,
			EnvVars: []string{"IMGPKG_TYPE"},
		},
		command.Cflag(command.FlagDockerCLI),
		command.Cflag(command.FlagDockerCLIPath),
		command.Cflag(command.FlagHonorWhiteouts),
		command.Cflag(command.FlagTempDir),
	},
	Action: func(ctx *cli.Context) error {
		gcvalues := command.GlobalFlagValues(ctx)
		xc := app.NewExecutionContext(
			Name,
			gcvalues.QuietCLIMode,
			gcvalues.OutputFormat)

		OnCommand(
			xc,
			gcvalues,
			command.GetAnalyzeParams(ctx, ctx.String(FlagType)))

		return nil
	},
}
