// Package web provides the HTTP front door for go-frontdoor
package web

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-frontdoor/internal/config"
)

// TrustedProxies may set X-Forwarded-For / X-Real-IP, everyone else is logged by peer address
var TrustedProxies = []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

// WebServer represents the web server
type WebServer struct {
	Router *gin.Engine
	Config *config.WebConfig

	templates *IndexRenderer
	static    *StaticFiles
	httpSrv   *http.Server
}

// NewServer creates a new web server instance logging requests to stdout
func NewServer(webconfig *config.WebConfig) (*WebServer, error) {
	return NewServerWithLog(webconfig, os.Stdout)
}

// NewServerWithLog creates a new web server instance writing the access log to accessLog
func NewServerWithLog(webconfig *config.WebConfig, accessLog io.Writer) (*WebServer, error) {
	if err := webconfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid web config: %w", err)
	}

	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		// Set Gin to release mode for production
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// every non-GET request on a known path gets 405
	router.HandleMethodNotAllowed = true

	// Client IP headers are only honored when the peer is a trusted proxy
	router.ForwardedByClientIP = true
	router.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	if err := router.SetTrustedProxies(TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	server := &WebServer{
		Router: router,
		Config: webconfig,
		static: NewStaticFiles(webconfig.StaticDir, webconfig.StaticURLPath, staticCacheControl(webconfig)),
		httpSrv: &http.Server{
			Addr:              webconfig.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 30 * time.Second,
		},
	}

	server.templates = NewIndexRenderer(webconfig.TemplateDir, webconfig.IndexTemplate)
	if err := server.templates.Load(); err != nil {
		// not fatal: every request retries and answers 500 until the template is readable
		log.Printf("[WEB]: Warning: index template not loaded: %v", err)
	}
	if webconfig.Debug {
		if err := server.templates.Watch(); err != nil {
			log.Printf("[WEB]: Warning: template auto-reload disabled: %v", err)
		}
	}

	router.Use(gin.CustomRecovery(server.recoveryHandler))
	router.Use(ApacheLogFormat(accessLog))

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
		secureConfig.SSLProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
	}

	// Apply security middleware
	router.Use(secure.New(secureConfig))

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// A single catch-all claims every GET path. Static assets are split off
	// inside the handler since gin does not allow "/static/*filepath" next
	// to a root wildcard.
	s.Router.GET("/*path", s.frontDoor)
}

// frontDoor dispatches a request to the static file handler or the index page
func (s *WebServer) frontDoor(c *gin.Context) {
	if s.static.Match(c.Request.URL.Path) {
		s.staticPage(c)
		return
	}
	s.indexPage(c)
}

// Start starts the web server with SSL support if configured.
// Returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	if s.Config.SSL {
		log.Printf("[WEB]: Starting HTTPS server on %s", s.httpSrv.Addr)
		return s.httpSrv.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the listener and the template watcher
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.templates.Close()
	return s.httpSrv.Shutdown(ctx)
}

// ApacheLogFormat writes one combined-log-format line per request to out
func ApacheLogFormat(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
				param.ClientIP,
				param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.BodySize,
				param.Request.Referer(),
				param.Request.UserAgent(),
			)
		},
	})
}

// staticCacheControl picks the Cache-Control value for static files
func staticCacheControl(wc *config.WebConfig) string {
	if wc.Debug || wc.StaticMaxAge == 0 {
		return "no-cache"
	}
	return fmt.Sprintf("public, max-age=%d", wc.StaticMaxAge)
}
