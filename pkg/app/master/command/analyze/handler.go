package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/analyzer"
	"github.com/slimtoolkit/imgpkg/pkg/app"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/command"
	"github.com/slimtoolkit/imgpkg/pkg/app/master/config"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerclient"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockersave"
	"github.com/slimtoolkit/imgpkg/pkg/extract"
	"github.com/slimtoolkit/imgpkg/pkg/util/fsutil"
	"github.com/slimtoolkit/imgpkg/pkg/util/jsonutil"
	v "github.com/slimtoolkit/imgpkg/pkg/version"
)

const appName = command.AppName

type ovars = app.OutVars

const (
	saverModeAPI = "api"
	saverModeCLI = "cli"
)

// OnCommand implements the 'analyze' command
func OnCommand(
	xc *app.ExecutionContext,
	gparams *command.GenericParams,
	cparams *config.AnalyzeParams) {
	const cmdName = Name
	logger := log.WithFields(log.Fields{"app": appName, "cmd": cmdName})

	if cparams.Type == "" {
		cparams.Type = TypeAuto
	}

	xc.Out.State("started")
	xc.Out.Info("params",
		ovars{
			"target":          cparams.Target,
			"type":            cparams.Type,
			"saver":           saverMode(cparams),
			"honor.whiteouts": cparams.HonorWhiteouts,
		})

	exitWith := func(ect, ecc int, infoType, message string) {
		xc.Out.Info(infoType,
			ovars{
				"message": message,
			})

		exitCode := ect | ecc
		xc.Out.State("exited",
			ovars{
				"exit.code": exitCode,
				"version":   v.Current(),
				"location":  fsutil.ExeDir(),
			})
		xc.Exit(exitCode)
	}

	if cparams.Target == "" {
		exitWith(command.ECTAnalyze, command.ECCBadParams, "param.error", "missing target image")
	}

	analyzers, err := selectAnalyzers(cparams.Type)
	if err != nil {
		exitWith(command.ECTAnalyze, command.ECCBadParams, "param.error", err.Error())
	}

	saver, err := dockersave.New(gparams.ClientConfig, cparams.UseDockerCLI, cparams.DockerCLIPath)
	if errors.Is(err, dockerclient.ErrNoDockerInfo) {
		exitWith(command.ECTCommon, command.ECCNoDockerConnectInfo, "docker.connect.error", "missing Docker connection info")
	}
	xc.FailOn(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	xc.AddCleanupHandler(stop)

	extractor := extract.New(cparams.Target,
		saver,
		extract.WithTempDir(cparams.TempDir),
		extract.WithWhiteouts(cparams.HonorWhiteouts))

	var results []*analyzer.Result
	if cparams.Type == TypeAuto {
		results, err = analyzer.Detect(ctx, cparams.Target, extractor, analyzers...)
	} else {
		var result *analyzer.Result
		result, err = analyzers[0].Analyze(ctx, cparams.Target, extractor)
		if result != nil {
			results = append(results, result)
		}
	}

	switch {
	case errors.Is(err, dockersave.ErrImageNotFound):
		exitWith(command.ECTAnalyze, command.ECCImageNotFound, "target.image.error", err.Error())
	case errors.Is(err, dockerimage.ErrMalformedManifest):
		exitWith(command.ECTAnalyze, command.ECCMalformedImage, "target.image.error", err.Error())
	}
	xc.FailOnWithInfo(err, failureInfo(cparams))

	logger.Debugf("analyzed image - target=%s results=%d", extractor.ImageRef(), len(results))

	if xc.Out.IsJSON() {
		if cparams.Type == TypeAuto {
			xc.Out.Result(jsonutil.ToPretty(results))
		} else {
			xc.Out.Result(jsonutil.ToPretty(results[0]))
		}
	} else {
		if len(results) == 0 {
			xc.Out.Message("no package database found")
		}

		for _, result := range results {
			xc.Out.Info("inventory",
				ovars{
					"image":    result.Image,
					"kind":     result.Kind,
					"packages": len(result.Packages),
				})

			xc.Out.Result(renderTable(result))
		}
	}

	xc.Out.State("completed")
	xc.Out.State("done")
}

func saverMode(cparams *config.AnalyzeParams) string {
	if cparams.UseDockerCLI {
		return saverModeCLI
	}

	return saverModeAPI
}

func failureInfo(cparams *config.AnalyzeParams) map[string]string {
	return map[string]string{
		"target": cparams.Target,
		"type":   cparams.Type,
		"saver":  saverMode(cparams),
	}
}

func selectAnalyzers(kind string) ([]analyzer.Analyzer, error) {
	switch kind {
	case TypeAuto, "":
		return analyzer.All(), nil
	case TypeApk:
		return []analyzer.Analyzer{analyzer.NewApk(analyzer.DefaultApkConfig())}, nil
	case TypeApt:
		return []analyzer.Analyzer{analyzer.NewApt(analyzer.DefaultAptConfig())}, nil
	}

	return nil, fmt.Errorf("unknown package manager type - %q", kind)
}

func renderTable(result *analyzer.Result) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Name", "Version", "Source", "Auto", "Provides", "Deps"})

	for _, pkg := range result.Packages {
		auto := ""
		if pkg.AutoInstalled {
			auto = "yes"
		}

		tw.AppendRow(table.Row{
			pkg.Name,
			pkg.VersionString(),
			pkg.SourceString(),
			auto,
			strings.Join(pkg.Provides, ","),
			pkg.Deps.Len(),
		})
	}

	tw.SetStyle(table.StyleLight)
	tw.Style().Options.DrawBorder = false
	return tw.Render()
}
