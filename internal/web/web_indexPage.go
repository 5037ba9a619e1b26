package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// indexPage renders the index template for every path outside the static prefix.
// The matched path is left to the client side router.
func (s *WebServer) indexPage(c *gin.Context) {
	body, err := s.templates.Render()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
