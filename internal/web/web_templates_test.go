package web

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRendererRender(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(testIndexHTML), 0o644))

	r := NewIndexRenderer(dir, "index.html")
	assert.False(t, r.Loaded())
	require.NoError(t, r.Load())
	assert.True(t, r.Loaded())

	body, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, testIndexHTML, string(body))
}

func TestIndexRendererLoadFailureDropsTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(testIndexHTML), 0o644))

	r := NewIndexRenderer(dir, "index.html")
	require.NoError(t, r.Load())

	require.NoError(t, os.WriteFile(path, []byte("{{ end }}"), 0o644))
	assert.Error(t, r.Load())
	assert.False(t, r.Loaded())

	_, err := r.Render()
	assert.Error(t, err)
}

func TestIndexRendererExecuteError(t *testing.T) {
	dir := t.TempDir()
	// parses fine, fails at execution since there is no data
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<p>{{ template "missing" }}</p>`), 0o644))

	r := NewIndexRenderer(dir, "index.html")
	_, err := r.Render()
	assert.Error(t, err)
}

func TestIndexRendererWatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>v1</p>"), 0o644))

	r := NewIndexRenderer(dir, "index.html")
	require.NoError(t, r.Load())
	require.NoError(t, r.Watch())
	defer r.Close()

	require.NoError(t, os.WriteFile(path, []byte("<p>v2</p>"), 0o644))
	assert.Eventually(t, func() bool {
		body, err := r.Render()
		return err == nil && string(body) == "<p>v2</p>"
	}, 5*time.Second, 20*time.Millisecond)

	// replace via rename the way editors do
	tmp := filepath.Join(dir, "index.html.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("<p>v3</p>"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.Eventually(t, func() bool {
		body, err := r.Render()
		return err == nil && string(body) == "<p>v3</p>"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestIndexRendererWatchMissingDir(t *testing.T) {
	r := NewIndexRenderer(filepath.Join(t.TempDir(), "nope"), "index.html")
	assert.Error(t, r.Watch())
	r.Close()
}

func TestIndexRendererCloseTwice(t *testing.T) {
	dir := t.TempDir()
	r := NewIndexRenderer(dir, "index.html")
	require.NoError(t, r.Watch())
	r.Close()
	r.Close()
}
