package pkgdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRecords(t *testing.T) {
	var s Scan
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Records())

	s = s.Start("foo")
	s.Current().SetVersion("1.0")
	s = s.Start("")
	s.Current().AddDep("lost")
	s = s.Start("bar")

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "foo", records[0].Name)
	assert.Equal(t, "1.0", records[0].VersionString())
	assert.Equal(t, 0, records[0].Deps.Len())
	assert.Equal(t, "bar", records[1].Name)
	assert.Nil(t, records[1].Version)
}

func TestFold(t *testing.T) {
	lines := Fold("a\r\nb\n\nc", []string{}, func(acc []string, line string) []string {
		return append(acc, line)
	})

	assert.Equal(t, []string{"a", "b", "", "c"}, lines)
}

func TestRecordProvidesUnique(t *testing.T) {
	r := NewRecord("foo")
	r.AddProvides("bar")
	r.AddProvides("")
	r.AddProvides("baz")
	r.AddProvides("bar")

	assert.Equal(t, []string{"bar", "baz"}, r.Provides)
}

func TestRecordJSON(t *testing.T) {
	tt := []struct {
		name   string
		record func() *Record
		want   string
	}{
		{
			name:   "bare",
			record: func() *Record { return NewRecord("foo") },
			want:   `{"Name":"foo","Provides":[],"Deps":[]}`,
		},
		{
			name: "full",
			record: func() *Record {
				r := NewRecord("foo")
				r.SetVersion("1.0")
				r.SetSource("foo-src")
				r.AddProvides("bar")
				r.AddDep("zlib")
				r.AddDep("libc")
				r.AutoInstalled = true
				return r
			},
			want: `{"Name":"foo","Version":"1.0","Source":"foo-src","Provides":["bar"],"Deps":["libc","zlib"],"AutoInstalled":true}`,
		},
	}

	for _, test := range tt {
		data, err := json.Marshal(test.record())
		require.NoError(t, err, test.name)
		assert.JSONEq(t, test.want, string(data), test.name)
	}
}

func TestSetUnmarshal(t *testing.T) {
	var s Set
	require.NoError(t, json.Unmarshal([]byte(`["b","a","b"]`), &s))
	assert.Equal(t, []string{"a", "b"}, s.Sorted())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
}
