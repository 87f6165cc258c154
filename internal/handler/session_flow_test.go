package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coinctrl/coinctrl/internal/config"
	"github.com/coinctrl/coinctrl/internal/handler"
	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope represents the standard API response wrapper
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter() *gin.Engine {
	sessions := service.NewSessionManager(nil, config.SessionConfig{
		Secret:      "test-secret",
		ExpireHours: 1,
		CookieName:  "coinctrl_session",
	})

	router := gin.New()
	handler.NewPagesHandler().RegisterRoutes(router)

	protected := router.Group("/api/v1")
	protected.Use(middleware.SessionAuthMiddleware(sessions))
	protected.GET("/transactions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200})
	})
	return router
}

func TestUnauthenticatedAPIRequestGets401Envelope(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Negative(t, env.Code)
	assert.NotEmpty(t, env.Message)
}

func TestUnauthenticatedBrowserRequestRedirectsToLogin(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?page=2", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/auth/login?next="), "got %q", location)
	assert.Contains(t, location, "%2Fapi%2Fv1%2Ftransactions")
	assert.Contains(t, location, "page%3D2")
}

func TestMalformedBearerTokenRejected(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginPageEchoesRelativeNextOnly(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login?next=/goals", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "next=/goals")

	// Absolute URLs must not survive into the page
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login?next=https://evil.example", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "evil.example")
}

func TestIndexPageServed(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "COINctrl")
}
