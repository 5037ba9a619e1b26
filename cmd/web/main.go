// Web front door for go-frontdoor: serves the client bundle and one index page
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-while/go-frontdoor/internal/config"
	"github.com/go-while/go-frontdoor/internal/web"
)

var (
	// command-line flags
	webhost      string
	webport      int
	webssl       bool
	webcertFile  string
	webkeyFile   string
	staticDir    string
	staticURL    string
	templateDir  string
	templateName string
	staticMaxAge int
	debugMode    bool
	pprofAddr    string
)

var appVersion = "-unset-"

const shutdownTimeout = 10 * time.Second

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&webhost, "webhost", "", "Web server listen host (default: all interfaces)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 5001)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&staticDir, "staticdir", "", "Directory holding the client bundle (default: static/dist)")
	flag.StringVar(&staticURL, "staticurl", "", "URL prefix for static files (default: /static)")
	flag.StringVar(&templateDir, "templatedir", "", "Template directory (default: templates)")
	flag.StringVar(&templateName, "template", "", "Template rendered for every other path (default: index.html)")
	flag.IntVar(&staticMaxAge, "staticmaxage", -1, "Cache-Control max-age for static files in seconds, ignored in debug mode (default: 3600)")
	flag.BoolVar(&debugMode, "debug", true, "Debug mode: error details in responses, template auto-reload, no static caching")
	flag.StringVar(&pprofAddr, "pprof", "", "Start pprof web on this address (e.g. :51111)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting go-frontdoor: Web Server (version: %s)", appVersion)

	// Debug: Log parsed flags
	log.Printf("[WEB]: Web Parsed flags - port: %d, ssl: %t, cert: %s, key: %s, debug: %t", webport, webssl, webcertFile, webkeyFile, debugMode)

	webConfig := mainConfig.Server.WEB
	log.Printf("[WEB]: Default config loaded - port: %d, ssl: %t", webConfig.ListenPort, webConfig.SSL)

	// Override config with command-line flags if provided
	if webhost != "" {
		webConfig.ListenHost = webhost
	}
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	} else {
		log.Printf("[WEB]: No port flag provided, using default: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	if staticDir != "" {
		webConfig.StaticDir = staticDir
	}
	if staticURL != "" {
		webConfig.StaticURLPath = staticURL
	}
	if templateDir != "" {
		webConfig.TemplateDir = templateDir
	}
	if templateName != "" {
		webConfig.IndexTemplate = templateName
	}
	if staticMaxAge >= 0 {
		webConfig.StaticMaxAge = staticMaxAge
	}
	webConfig.Debug = debugMode
	webConfig.PprofAddr = pprofAddr

	if err := webConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid configuration: %v", err)
	}
	log.Printf("[WEB]: Using WEB configuration: %#v", webConfig)

	if webConfig.Debug {
		log.Printf("[WEB]: WARNING: debug mode is enabled. Error details are sent to clients. Do not use it in production (-debug=false)")
	}

	setupConsole(webConfig.Debug)
	startProfiler(webConfig.PprofAddr)

	checkPaths(webConfig)

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Starting go-frontdoor web server on %s://localhost:%d", protocol, webConfig.ListenPort)

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to create web server: %v", err)
	}

	// Set up cross-platform signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	// Wait for either shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Printf("[WEB]: Received %s, initiating graceful shutdown...", sig)
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
		return
	}

	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
