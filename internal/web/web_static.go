package web

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFiles serves the client bundle from a directory on disk
type StaticFiles struct {
	Dir          string
	Prefix       string // URL prefix without trailing slash, e.g. "/static"
	CacheControl string
	root         fs.FS
}

// NewStaticFiles returns a StaticFiles rooted at dir and mounted under prefix
func NewStaticFiles(dir string, prefix string, cacheControl string) *StaticFiles {
	return &StaticFiles{
		Dir:          dir,
		Prefix:       strings.TrimSuffix(prefix, "/"),
		CacheControl: cacheControl,
		root:         os.DirFS(dir),
	}
}

// Match reports whether urlPath belongs to the static prefix.
// "/static" itself is no match, "/static/" and below are.
func (sf *StaticFiles) Match(urlPath string) bool {
	return strings.HasPrefix(urlPath, sf.Prefix+"/")
}

// Resolve maps a URL path below the prefix to a name inside the static root.
// Returns false if nothing is left after the prefix.
func (sf *StaticFiles) Resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, sf.Prefix)
	// Clean against "/" so ".." can never climb above the root
	name := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

// Open returns the named regular file and its info.
// Directories count as missing: static directories have no index file.
func (sf *StaticFiles) Open(name string) (fs.File, fs.FileInfo, error) {
	f, err := sf.root.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}

// staticPage serves one file below the static prefix or answers 404
func (s *WebServer) staticPage(c *gin.Context) {
	name, ok := s.static.Resolve(c.Request.URL.Path)
	if !ok {
		// Static directory has no index file, return 404
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	f, info, err := s.static.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[WEB]: static file %s: %v", name, err)
		}
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		s.renderError(c, http.StatusInternalServerError, "Static file not seekable", name)
		return
	}

	c.Header("Cache-Control", s.static.CacheControl)
	// ServeContent sets Content-Type from the extension and handles
	// If-Modified-Since, If-None-Match and Range.
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), content)
}

