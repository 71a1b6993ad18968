package analyzer

import (
	"context"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb/apkdb"
)

const apkInstalledDB = "/lib/apk/db/installed"

type ApkConfig struct {
	Installed string
}

func DefaultApkConfig() ApkConfig {
	return ApkConfig{Installed: apkInstalledDB}
}

// Apk reads the Alpine package database
type Apk struct {
	config ApkConfig
}

func NewApk(config ApkConfig) *Apk {
	if config.Installed == "" {
		config.Installed = apkInstalledDB
	}

	return &Apk{config: config}
}

func (a *Apk) Kind() Kind {
	return KindApk
}

func (a *Apk) Paths() []string {
	return []string{a.config.Installed}
}

func (a *Apk) Present(files dockerimage.FileSet) bool {
	return files.Has(a.config.Installed)
}

func (a *Apk) Packages(files dockerimage.FileSet) []*pkgdb.Record {
	return apkdb.Parse(files.Text(a.config.Installed))
}

func (a *Apk) Analyze(ctx context.Context, image string, provider FileProvider) (*Result, error) {
	return analyze(ctx, a, image, provider)
}
