package web

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// renderError answers with a plain text error page.
// Details are only sent to the client in debug mode.
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)
	if !s.Config.Debug {
		c.String(statusCode, "%s", http.StatusText(statusCode))
		return
	}
	c.String(statusCode, "%d %s\n\n%s\n", statusCode, message, errstring)
}

// recoveryHandler is handed to gin.CustomRecovery and turns a panic into a 500
func (s *WebServer) recoveryHandler(c *gin.Context, recovered any) {
	detail := fmt.Sprintf("panic: %v\n\n%s", recovered, debug.Stack())
	if c.Writer.Written() {
		// headers are gone, nothing left but logging
		log.Printf("[WEB]: panic after response started on %s: %v", c.Request.URL.Path, recovered)
		c.Abort()
		return
	}
	s.renderError(c, http.StatusInternalServerError, "Internal Server Error", detail)
	c.Abort()
}
