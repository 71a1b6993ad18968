package analyzer

import (
	"context"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb/dpkgdb"
)

const (
	dpkgStatusDB       = "/var/lib/dpkg/status"
	aptExtendedStateDB = "/var/lib/apt/extended_states"
)

type AptConfig struct {
	Status         string
	ExtendedStates string
}

func DefaultAptConfig() AptConfig {
	return AptConfig{
		Status:         dpkgStatusDB,
		ExtendedStates: aptExtendedStateDB,
	}
}

// Apt reads the dpkg status database and marks the packages apt installed
// automatically
type Apt struct {
	config AptConfig
}

func NewApt(config AptConfig) *Apt {
	if config.Status == "" {
		config.Status = dpkgStatusDB
	}

	if config.ExtendedStates == "" {
		config.ExtendedStates = aptExtendedStateDB
	}

	return &Apt{config: config}
}

func (a *Apt) Kind() Kind {
	return KindApt
}

func (a *Apt) Paths() []string {
	return []string{a.config.Status, a.config.ExtendedStates}
}

func (a *Apt) Present(files dockerimage.FileSet) bool {
	return files.Has(a.config.Status)
}

func (a *Apt) Packages(files dockerimage.FileSet) []*pkgdb.Record {
	records := dpkgdb.ParseStatus(files.Text(a.config.Status))
	if files.Has(a.config.ExtendedStates) {
		auto := dpkgdb.ParseExtendedStates(files.Text(a.config.ExtendedStates))
		dpkgdb.MarkAutoInstalled(records, auto)
	}

	return records
}

func (a *Apt) Analyze(ctx context.Context, image string, provider FileProvider) (*Result, error) {
	return analyze(ctx, a, image, provider)
}
