package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	prof "github.com/go-while/go-cpu-mem-profiler"
	"golang.org/x/term"

	"github.com/go-while/go-frontdoor/internal/config"
)

var Prof *prof.Profiler

// setupConsole enables gin's colored debug output only on a terminal
func setupConsole(debug bool) {
	if debug && term.IsTerminal(int(os.Stdout.Fd())) {
		gin.ForceConsoleColor()
		return
	}
	gin.DisableConsoleColor()
}

// startProfiler serves pprof on addr, does nothing if addr is empty
func startProfiler(addr string) {
	if addr == "" {
		return
	}
	Prof = prof.NewProf()
	go Prof.PprofWeb(addr)
	log.Printf("[WEB]: pprof web started on %s", addr)
}

// checkPaths warns about missing directories, the server still starts:
// static requests answer 404 and index requests 500 until they appear
func checkPaths(wc *config.WebConfig) {
	if fi, err := os.Stat(wc.StaticDir); err != nil || !fi.IsDir() {
		log.Printf("[WEB]: Warning: static dir '%s' not found, static requests will return 404", wc.StaticDir)
	}
	if _, err := os.Stat(wc.IndexTemplatePath()); err != nil {
		log.Printf("[WEB]: Warning: template '%s' not found, pages will return 500", wc.IndexTemplatePath())
	}
}
