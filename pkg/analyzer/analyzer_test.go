package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimtoolkit/imgpkg/pkg/docker/dockerimage"
	"github.com/slimtoolkit/imgpkg/pkg/docker/dockersave"
	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

type failingProvider struct {
	err error
}

func (p failingProvider) Files(ctx context.Context, paths []string) (dockerimage.FileSet, error) {
	return nil, p.err
}

type countingProvider struct {
	files StaticFiles
	calls int
	paths []string
}

func (p *countingProvider) Files(ctx context.Context, paths []string) (dockerimage.FileSet, error) {
	p.calls++
	p.paths = paths
	return p.files.Files(ctx, paths)
}

func findRecord(records []*pkgdb.Record, name string) *pkgdb.Record {
	for _, r := range records {
		if r.Name == name {
			return r
		}
	}

	return nil
}

func TestApkAnalyze(t *testing.T) {
	files := StaticFiles{
		"/lib/apk/db/installed": []byte("P:foo\nV:1.0\np:bar baz=2\nD:qux !excl\n\nP:qux\nV:2.1\n"),
	}

	result, err := NewApk(DefaultApkConfig()).Analyze(context.Background(), "alpine:3.19", files)
	require.NoError(t, err)

	assert.Equal(t, "alpine:3.19", result.Image)
	assert.Equal(t, KindApk, result.Kind)
	require.Len(t, result.Packages, 2)

	foo := result.Packages[0]
	assert.Equal(t, "foo", foo.Name)
	assert.Equal(t, "1.0", foo.VersionString())
	assert.Equal(t, []string{"bar", "baz"}, foo.Provides)
	assert.Equal(t, []string{"qux"}, foo.Deps.Sorted())
	assert.False(t, foo.AutoInstalled)
	assert.Equal(t, "qux", result.Packages[1].Name)
}

func TestAptAnalyzeAutoInstalled(t *testing.T) {
	files := StaticFiles{
		"/var/lib/dpkg/status": []byte("Package: foo\nVersion: 1.0\nProvides: bar, baz (>= 2)\nDepends: a | b, c\n\n" +
			"Package: foobar\nVersion: 2\n\nPackage: a\nVersion: 3\n"),
		"/var/lib/apt/extended_states": []byte("Package: foo\nArchitecture: amd64\nAuto-Installed: 1\n\n" +
			"Package: a\nAuto-Installed: 0\n"),
	}

	result, err := NewApt(DefaultAptConfig()).Analyze(context.Background(), "debian:12", files)
	require.NoError(t, err)
	assert.Equal(t, KindApt, result.Kind)
	require.Len(t, result.Packages, 3)

	foo := findRecord(result.Packages, "foo")
	require.NotNil(t, foo)
	assert.True(t, foo.AutoInstalled)
	assert.Equal(t, []string{"bar", "baz"}, foo.Provides)
	assert.Equal(t, []string{"a", "b", "c"}, foo.Deps.Sorted())

	assert.False(t, findRecord(result.Packages, "foobar").AutoInstalled)
	assert.False(t, findRecord(result.Packages, "a").AutoInstalled)
}

func TestAptAnalyzeWithoutExtendedStates(t *testing.T) {
	files := StaticFiles{
		"/var/lib/dpkg/status": []byte("Package: foo\nVersion: 1.0\n"),
	}

	result, err := NewApt(AptConfig{}).Analyze(context.Background(), "debian:12", files)
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	assert.False(t, result.Packages[0].AutoInstalled)
}

func TestAnalyzeMissingDatabase(t *testing.T) {
	for _, a := range All() {
		t.Run(string(a.Kind()), func(t *testing.T) {
			result, err := a.Analyze(context.Background(), "scratch", StaticFiles{})
			require.NoError(t, err)
			assert.NotNil(t, result.Packages)
			assert.Empty(t, result.Packages)
		})
	}
}

func TestAnalyzeProviderErrors(t *testing.T) {
	notFound := fmt.Errorf("%w: nope:latest", dockersave.ErrImageNotFound)
	failure := &dockersave.ProcessError{Op: "docker save", Err: errors.New("exit status 1")}

	for _, a := range All() {
		t.Run(string(a.Kind()), func(t *testing.T) {
			_, err := a.Analyze(context.Background(), "nope:latest", failingProvider{err: notFound})
			assert.True(t, errors.Is(err, dockersave.ErrImageNotFound))

			var perr *dockersave.ProcessError
			assert.False(t, errors.As(err, &perr))

			_, err = a.Analyze(context.Background(), "nope:latest", failingProvider{err: failure})
			assert.False(t, errors.Is(err, dockersave.ErrImageNotFound))
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestCustomPaths(t *testing.T) {
	files := StaticFiles{
		"/custom/installed": []byte("P:musl\n"),
	}

	result, err := NewApk(ApkConfig{Installed: "/custom/installed"}).Analyze(context.Background(), "img", files)
	require.NoError(t, err)
	require.Len(t, result.Packages, 1)
	assert.Equal(t, "musl", result.Packages[0].Name)
}

func TestDetect(t *testing.T) {
	provider := &countingProvider{
		files: StaticFiles{
			"/var/lib/dpkg/status":   []byte("Package: bash\nVersion: 5.2\n"),
			"/lib/apk/db/installed2": []byte("P:ignored\n"),
		},
	}

	results, err := Detect(context.Background(), "debian:12", provider)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, []string{
		"/lib/apk/db/installed",
		"/var/lib/apt/extended_states",
		"/var/lib/dpkg/status",
	}, provider.paths)

	require.Len(t, results, 1)
	assert.Equal(t, KindApt, results[0].Kind)
	assert.Equal(t, "bash", results[0].Packages[0].Name)
}

func TestDetectNothing(t *testing.T) {
	results, err := Detect(context.Background(), "scratch", StaticFiles{}, NewApk(DefaultApkConfig()))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
