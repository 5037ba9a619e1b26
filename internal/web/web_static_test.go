package web

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFilesMatch(t *testing.T) {
	sf := NewStaticFiles(t.TempDir(), "/static/", "no-cache")
	assert.Equal(t, "/static", sf.Prefix)

	testCases := []struct {
		path  string
		match bool
	}{
		{"/static/app.js", true},
		{"/static/", true},
		{"/static/a/b/c.css", true},
		{"/static", false},
		{"/staticfoo", false},
		{"/", false},
		{"/dashboard/static/app.js", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.match, sf.Match(tc.path), tc.path)
	}
}

func TestStaticFilesResolve(t *testing.T) {
	sf := NewStaticFiles(t.TempDir(), "/static", "no-cache")

	testCases := []struct {
		path string
		name string
		ok   bool
	}{
		{"/static/app.js", "app.js", true},
		{"/static/assets/app.css", "assets/app.css", true},
		{"/static//assets//app.css", "assets/app.css", true},
		{"/static/./app.js", "app.js", true},
		{"/static/../app.js", "app.js", true},
		{"/static/../../../etc/passwd", "etc/passwd", true},
		{"/static/", "", false},
		{"/static/.", "", false},
		{"/static/..", "", false},
	}
	for _, tc := range testCases {
		name, ok := sf.Resolve(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.name, name, tc.path)
	}
}

func TestStaticFilesOpen(t *testing.T) {
	site := newTestSite(t)
	sf := NewStaticFiles(site.StaticDir, "/static", "no-cache")

	f, info, err := sf.Open("logo.png")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "logo.png", info.Name())
	assert.Equal(t, int64(len(testLogoPNG)), info.Size())

	_, _, err = sf.Open("assets")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, _, err = sf.Open("missing.js")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
