package app

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/slimtoolkit/imgpkg/pkg/app"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command/analyze"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command/version"
	v "github.com/slimtoolkit/imgpkg/pkg/version"
)

// imgpkg app CLI constants
const (
	AppName  = command.AppName
	AppUsage = "inventory the OS packages of your container images without running them"
)

func newCLI() *cli.App {
	cliApp := cli.NewApp()
	cliApp.Version = v.Current()
	cliApp.Name = AppName
	cliApp.Usage = AppUsage
	cliApp.CommandNotFound = func(ctx *cli.Context, command string) {
		fmt.Printf("unknown command - %v \n\n", command)
		cli.ShowAppHelp(ctx)
	}

	cliApp.Flags = command.GlobalFlags()

	cliApp.Before = func(ctx *cli.Context) error {
		if ctx.Bool(command.FlagNoColor) {
			app.NoColor()
		}

		if err := configureLogging(ctx); err != nil {
			return err
		}

		return nil
	}

	cliApp.After = func(ctx *cli.Context) error {
		if !ctx.Bool(command.FlagQuietCLIMode) {
			command.ShowCommunityInfo(ctx.String(command.FlagOutputFormat))
		}

		return nil
	}

	cliApp.Commands = []*cli.Command{
		analyze.CLI,
		version.CLI,
	}

	return cliApp
}

func configureLogging(ctx *cli.Context) error {
	if ctx.Bool(command.FlagDebug) {
		log.SetLevel(log.DebugLevel)
	} else {
		if ctx.Bool(command.FlagVerbose) {
			log.SetLevel(log.InfoLevel)
		} else {
			logLevel, err := parseLogLevel(ctx.String(command.FlagLogLevel))
			if err != nil {
				return err
			}

			log.SetLevel(logLevel)
		}
	}

	if path := ctx.String(command.FlagLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		log.SetOutput(f)
	}

	logFormat := ctx.String(command.FlagLogFormat)
	switch logFormat {
	case "text":
		log.SetFormatter(&log.TextFormatter{DisableColors: true})
	case "json":
		log.SetFormatter(new(log.JSONFormatter))
	default:
		return fmt.Errorf("unknown log-format %q", logFormat)
	}

	return nil
}

func parseLogLevel(name string) (log.Level, error) {
	switch name {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	case "panic":
		return log.PanicLevel, nil
	}

	return log.WarnLevel, fmt.Errorf("unknown log-level %q", name)
}
