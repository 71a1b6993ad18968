package dpkgdb

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slimtoolkit/imgpkg/pkg/pkgdb"
)

const statusDB = `Package: libc6
Status: install ok installed
Priority: optional
Section: libs
Installed-Size: 12993
Maintainer: GNU Libc Maintainers <debian-glibc@lists.debian.org>
Architecture: amd64
Multi-Arch: same
Source: glibc (2.36-9+deb12u3)
Version: 2.36-9+deb12u3
Depends: libgcc-s1
Recommends: libidn2-0 (>= 2.0.5~)
Breaks: hurd (<< 1:0.9.git20170910-1), nscd (<< 2.36)
Description: GNU C Library: Shared libraries
 Contains the standard libraries that are used by nearly all programs on
 the system. This package includes shared versions of the standard C library
 Depends: not-a-field

Package: libssl3
Status: install ok installed
Source: openssl
Version: 3.0.11-1~deb12u2
Pre-Depends: libc6 (>= 2.34)
Provides: libssl, libssl-abi (= 3)
Description: Secure Sockets Layer toolkit - shared libraries

Package: debconf
Version: 1.5.82
Pre-Depends: perl-base (>= 5.20.1-3~)
Depends: debconf-i18n | debconf-english, perl-base | perl
Provides: debconf-2.0
`

func TestParseStatusExample(t *testing.T) {
	got := ParseStatus("Package: foo\nVersion: 1.0\nProvides: bar, baz (>= 2)\nDepends: a | b, c\n")

	want := pkgdb.NewRecord("foo")
	want.SetVersion("1.0")
	want.AddProvides("bar")
	want.AddProvides("baz")
	want.Deps = pkgdb.NewSet("a", "b", "c")

	if diff := cmp.Diff([]*pkgdb.Record{want}, got); diff != "" {
		t.Errorf("ParseStatus() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatus(t *testing.T) {
	records := ParseStatus(statusDB)
	require.Len(t, records, 3)

	libc := records[0]
	assert.Equal(t, "libc6", libc.Name)
	assert.Equal(t, "2.36-9+deb12u3", libc.VersionString())
	assert.Equal(t, "glibc", libc.SourceString())
	assert.Equal(t, []string{"libgcc-s1"}, libc.Deps.Sorted())
	assert.Empty(t, libc.Provides)

	ssl := records[1]
	assert.Equal(t, "openssl", ssl.SourceString())
	assert.Equal(t, []string{"libssl", "libssl-abi"}, ssl.Provides)
	assert.Equal(t, []string{"libc6"}, ssl.Deps.Sorted())

	debconf := records[2]
	assert.Nil(t, debconf.Source)
	assert.Equal(t, []string{"debconf-english", "debconf-i18n", "perl", "perl-base"}, debconf.Deps.Sorted())
	assert.Equal(t, []string{"debconf-2.0"}, debconf.Provides)
}

func TestParseStatusTolerance(t *testing.T) {
	tt := []struct {
		name  string
		in    string
		names []string
	}{
		{name: "empty", in: "", names: []string{}},
		{name: "fields before package", in: "Version: 1\nDepends: x\n\nPackage: a\n", names: []string{"a"}},
		{name: "garbage", in: "no colon here\n::::\nPackage: b\n\x00\x01\n", names: []string{"b"}},
		{name: "empty package name", in: "Package: a\nPackage:\nVersion: 2\nPackage: c\n", names: []string{"a", "c"}},
	}

	for _, test := range tt {
		records := ParseStatus(test.in)
		names := []string{}
		for _, r := range records {
			names = append(names, r.Name)
		}

		assert.Equal(t, test.names, names, test.name)
	}

	records := ParseStatus("Package: a\nPackage:\nVersion: 2\n")
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Version, "version of a nameless stanza leaked into the previous record")
}

func TestSplitField(t *testing.T) {
	tt := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{line: "Version: 1:2.36-9", key: "Version", value: "1:2.36-9", ok: true},
		{line: "Version: 1.0 ", key: "Version", value: "1.0 ", ok: true},
		{line: "Version:  1.0", key: "Version", value: " 1.0", ok: true},
		{line: "Package:", key: "Package", value: "", ok: true},
		{line: "Version: 2.0:", key: "Version", value: "2.0:", ok: true},
		{line: "Version:1.0"},
		{line: " Depends: x"},
		{line: "\tDepends: x"},
		{line: "no separator"},
		{line: ""},
	}

	for _, test := range tt {
		key, value, ok := splitField(test.line)
		assert.Equal(t, test.ok, ok, test.line)
		if test.ok {
			assert.Equal(t, test.key, key, test.line)
			assert.Equal(t, test.value, value, test.line)
		}
	}
}

func TestParseStatusVersionVerbatim(t *testing.T) {
	records := ParseStatus("Package: a\nVersion: 1:2.0-1~deb12u1 \nPackage: b\nVersion:3.0\n")
	require.Len(t, records, 2)
	assert.Equal(t, "1:2.0-1~deb12u1 ", records[0].VersionString())
	assert.Nil(t, records[1].Version)
}

func TestParseStatusRecordIsolation(t *testing.T) {
	whole := ParseStatus(statusDB)

	var pieces []*pkgdb.Record
	for _, stanza := range strings.SplitAfter(statusDB, "\n\n") {
		pieces = append(pieces, ParseStatus(stanza)...)
	}

	if diff := cmp.Diff(whole, pieces); diff != "" {
		t.Errorf("record isolation mismatch (-whole +pieces):\n%s", diff)
	}
}

func TestParseExtendedStates(t *testing.T) {
	const states = `Package: foo
Architecture: amd64
Auto-Installed: 1

Package: bar
Architecture: amd64
Auto-Installed: 0

Package: baz
Auto-Installed: yes

Package: qux
Architecture: amd64
Auto-Installed:  1
`

	auto := ParseExtendedStates(states)
	assert.Equal(t, []string{"foo", "qux"}, auto.Sorted())

	orphan := ParseExtendedStates("Auto-Installed: 1\n")
	assert.Equal(t, 0, orphan.Len())
}

func TestMarkAutoInstalled(t *testing.T) {
	records := ParseStatus("Package: foo\n\nPackage: foobar\n\nPackage: bar\n")
	MarkAutoInstalled(records, ParseExtendedStates("Package: foo\nAuto-Installed: 1\n"))

	require.Len(t, records, 3)
	assert.True(t, records[0].AutoInstalled)
	assert.False(t, records[1].AutoInstalled)
	assert.False(t, records[2].AutoInstalled)
}
