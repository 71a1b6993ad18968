package analyzer

import (
	"context"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

// Kind identifies the package manager an inventory comes from
type Kind string

const (
	KindApk Kind = "Apk"
	KindApt Kind = "Apt"
)

// Result is the package inventory of an image
type Result struct {
	Image    string
	Kind     Kind
	Packages []*pkgdb.Record
}

// FileProvider returns the requested files of the merged image filesystem
type FileProvider interface {
	Files(ctx context.Context, paths []string) (dockerimage.FileSet, error)
}

// StaticFiles provides files that are already extracted
type StaticFiles dockerimage.FileSet

func (sf StaticFiles) Files(ctx context.Context, paths []string) (dockerimage.FileSet, error) {
	files := dockerimage.FileSet{}
	for _, p := range paths {
		if data, ok := sf[p]; ok {
			files[p] = data
		}
	}

	return files, nil
}

// Analyzer builds the package inventory for one package manager
type Analyzer interface {
	Kind() Kind
	// Paths returns the package database files the analyzer reads
	Paths() []string
	// Present returns true if the primary package database is in the files
	Present(files dockerimage.FileSet) bool
	// Packages parses the package databases (missing files have no packages)
	Packages(files dockerimage.FileSet) []*pkgdb.Record
	Analyze(ctx context.Context, image string, provider FileProvider) (*Result, error)
}

func analyze(ctx context.Context, a Analyzer, image string, provider FileProvider) (*Result, error) {
	logger := log.WithFields(log.Fields{"op": "analyzer.Analyze", "kind": a.Kind(), "image": image})

	files, err := provider.Files(ctx, a.Paths())
	if err != nil {
		logger.WithError(err).Debug("file extraction failed")
		return nil, err
	}

	if !a.Present(files) {
		logger.Debug("no package database")
	}

	return newResult(a, image, files), nil
}

func newResult(a Analyzer, image string, files dockerimage.FileSet) *Result {
	packages := a.Packages(files)
	if packages == nil {
		packages = []*pkgdb.Record{}
	}

	log.WithFields(log.Fields{
		"op":       "analyzer.newResult",
		"kind":     a.Kind(),
		"image":    image,
		"packages": len(packages),
	}).Debug("inventory ready")

	return &Result{
		Image:    image,
		Kind:     a.Kind(),
		Packages: packages,
	}
}

// All returns the analyzers for every supported package manager
func All() []Analyzer {
	return []Analyzer{
		NewApk(DefaultApkConfig()),
		NewApt(DefaultAptConfig()),
	}
}

// Detect extracts the package database files of all analyzers at once and
// returns the inventories for the package managers present in the image.
// All analyzers are used when none are given.
func Detect(ctx context.Context, image string, provider FileProvider, analyzers ...Analyzer) ([]*Result, error) {
	if len(analyzers) == 0 {
		analyzers = All()
	}

	unique := map[string]struct{}{}
	for _, a := range analyzers {
		for _, p := range a.Paths() {
			unique[p] = struct{}{}
		}
	}

	paths := make([]string, 0, len(unique))
	for p := range unique {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files, err := provider.Files(ctx, paths)
	if err != nil {
		return nil, err
	}

	results := []*Result{}
	for _, a := range analyzers {
		if !a.Present(files) {
			continue
		}

		results = append(results, newResult(a, image, files))
	}

	log.WithFields(log.Fields{
		"op":       "analyzer.Detect",
		"image":    image,
		"detected": len(results),
	}).Debug("done")

	return results, nil
}
