package web

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"
)

// IndexRenderer holds the parsed index template.
// A failed parse is retried on the next Render.
// Parsed with text/template: the body must match the file byte for byte,
// HTML comments included, and there is no data to escape.
type IndexRenderer struct {
	Dir  string
	Name string

	mux     sync.RWMutex
	tmpl    *template.Template
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewIndexRenderer returns a renderer for dir/name; nothing is parsed yet
func NewIndexRenderer(dir string, name string) *IndexRenderer {
	return &IndexRenderer{
		Dir:  dir,
		Name: name,
		done: make(chan struct{}),
	}
}

// Path returns the template file path
func (r *IndexRenderer) Path() string {
	return filepath.Join(r.Dir, r.Name)
}

// Load parses the template file and swaps it in.
// On error the previously loaded template is dropped.
func (r *IndexRenderer) Load() error {
	tmpl, err := template.New(r.Name).ParseFiles(r.Path())
	r.mux.Lock()
	defer r.mux.Unlock()
	if err != nil {
		r.tmpl = nil
		return fmt.Errorf("failed to parse template %s: %w", r.Path(), err)
	}
	r.tmpl = tmpl
	return nil
}

// Loaded reports whether a parsed template is available
func (r *IndexRenderer) Loaded() bool {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.tmpl != nil
}

// Render executes the template without data and returns the full body
func (r *IndexRenderer) Render() ([]byte, error) {
	r.mux.RLock()
	tmpl := r.tmpl
	r.mux.RUnlock()

	if tmpl == nil {
		if err := r.Load(); err != nil {
			return nil, err
		}
		r.mux.RLock()
		tmpl = r.tmpl
		r.mux.RUnlock()
		if tmpl == nil {
			// lost a race against a failing reload
			return nil, errors.New("template not loaded")
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", r.Name, err)
	}
	return buf.Bytes(), nil
}

// Watch reloads the template whenever something in Dir changes.
// Editors often replace files via rename, so the directory is watched
// instead of the file.
func (r *IndexRenderer) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", r.Dir, err)
	}
	r.mux.Lock()
	r.watcher = watcher
	r.mux.Unlock()

	r.wg.Add(1)
	go r.watchLoop(watcher)
	log.Printf("[WEB]: Watching %s for template changes", r.Dir)
	return nil
}

func (r *IndexRenderer) watchLoop(watcher *fsnotify.Watcher) {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != r.Name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := r.Load(); err != nil {
				log.Printf("[WEB]: Template reload failed: %v", err)
				continue
			}
			log.Printf("[WEB]: Template %s reloaded (%s)", r.Path(), event.Op)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WEB]: Template watcher error: %v", err)
		}
	}
}

// Close stops the watcher if one is running. Safe to call more than once.
func (r *IndexRenderer) Close() {
	r.mux.Lock()
	watcher := r.watcher
	r.watcher = nil
	r.mux.Unlock()
	if watcher == nil {
		return
	}
	close(r.done)
	watcher.Close()
	r.wg.Wait()
}
