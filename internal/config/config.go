// Package config provides configuration management for go-frontdoor.
package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Web server defaults
	DefaultListenPort    = 5001
	DefaultStaticDir     = "static/dist"
	DefaultStaticURLPath = "/static"
	DefaultTemplateDir   = "templates"
	DefaultIndexTemplate = "index.html"
	DefaultStaticMaxAge  = 3600 // seconds, browser caches an hour
)

// Config holds the main configuration for go-frontdoor
type MainConfig struct {
	// Server settings
	Server ServerConfig `json:"server"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// ServerConfig holds the web server configuration
type ServerConfig struct {
	WEB *WebConfig `json:"web"`
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenHost    string `json:"listen_host"`
	ListenPort    int    `json:"listen_port"`
	SSL           bool   `json:"ssl"`
	CertFile      string `json:"cert_file,omitempty"`
	KeyFile       string `json:"key_file,omitempty"`
	StaticDir     string `json:"static_dir"`      // directory on disk holding the client bundle
	StaticURLPath string `json:"static_url_path"` // URL prefix the bundle is served under
	TemplateDir   string `json:"template_dir"`
	IndexTemplate string `json:"index_template"` // the one template rendered for every other path
	StaticMaxAge  int    `json:"static_max_age"` // Cache-Control max-age for static files in seconds
	Debug         bool   `json:"debug"`          // verbose errors, template reload, no static caching
	PprofAddr     string `json:"pprof_addr,omitempty"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {

	maincfg := &MainConfig{
		AppVersion: AppVersion, // Set application version

		Server: ServerConfig{
			WEB: &WebConfig{
				ListenPort:    DefaultListenPort,
				SSL:           false,
				StaticDir:     DefaultStaticDir,
				StaticURLPath: DefaultStaticURLPath,
				TemplateDir:   DefaultTemplateDir,
				IndexTemplate: DefaultIndexTemplate,
				StaticMaxAge:  DefaultStaticMaxAge,
				Debug:         true,
			},
		},
	}

	log.Printf("MainConfig initialized (version: %s)", maincfg.AppVersion)
	return maincfg
}

// Addr returns the listen address in host:port form
func (wc *WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", wc.ListenHost, wc.ListenPort)
}

// IndexTemplatePath returns the on-disk path of the index template
func (wc *WebConfig) IndexTemplatePath() string {
	return filepath.Join(wc.TemplateDir, wc.IndexTemplate)
}

// Validate checks the web configuration before the server is built
func (wc *WebConfig) Validate() error {
	if wc == nil {
		return errors.New("web config is nil")
	}
	if wc.ListenPort < 1 || wc.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", wc.ListenPort)
	}
	if !strings.HasPrefix(wc.StaticURLPath, "/") {
		return fmt.Errorf("static url path %q must start with '/'", wc.StaticURLPath)
	}
	if wc.StaticURLPath == "/" || strings.HasSuffix(wc.StaticURLPath, "/") {
		return fmt.Errorf("static url path %q must not be '/' or end with '/'", wc.StaticURLPath)
	}
	if wc.StaticDir == "" {
		return errors.New("static dir not set")
	}
	if wc.TemplateDir == "" {
		return errors.New("template dir not set")
	}
	if wc.IndexTemplate == "" || filepath.Base(wc.IndexTemplate) != wc.IndexTemplate {
		return fmt.Errorf("index template %q must be a plain file name", wc.IndexTemplate)
	}
	if wc.StaticMaxAge < 0 {
		return fmt.Errorf("invalid static max age: %d", wc.StaticMaxAge)
	}
	if wc.SSL && (wc.CertFile == "" || wc.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	return nil
}
