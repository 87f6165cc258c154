package handler

import (
	"fmt"
	"net/http"

	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/gin-gonic/gin"
)

// PagesHandler serves the minimal HTML entry points. The product surface is
// the JSON API; these pages exist so a browser hitting the root or being
// redirected to login gets something other than a 404.
type PagesHandler struct{}

// NewPagesHandler creates a new PagesHandler
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>COINctrl</title></head>
<body>
<h1>COINctrl</h1>
<p>Personal finance API. See <code>/api/v1</code>.</p>
</body>
</html>`

const loginPage = `<!DOCTYPE html>
<html>
<head><title>COINctrl - Sign in</title></head>
<body>
<h1>Sign in</h1>
<p>POST your credentials to <code>/api/v1/auth/login%s</code>,
or continue with <a href="/api/v1/auth/google">Google</a>.</p>
</body>
</html>`

// Index serves the landing page
// GET /
func (h *PagesHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// Login serves the login page. A relative next parameter survives the round
// trip so the client can resume after authenticating.
// GET /auth/login
func (h *PagesHandler) Login(c *gin.Context) {
	suffix := ""
	if next := service.SafeNextPath(c.Query("next")); next != "" {
		suffix = "?next=" + next
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(loginPage, suffix)))
}

// RegisterRoutes registers the HTML page routes on the root router
func (h *PagesHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/auth/login", h.Login)
}
