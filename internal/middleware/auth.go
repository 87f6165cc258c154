package middleware

import (
	"net/url"
	"strings"

	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyUsername is the key for username in gin context
	ContextKeyUsername = "username"
	// ContextKeySessionToken is the key for the raw session token
	ContextKeySessionToken = "session_token"
)

// SessionAuthMiddleware authenticates requests via the session cookie, with
// Authorization: Bearer as a fallback for API clients. Browser requests
// without a valid session are redirected to the login page, preserving the
// originally requested path; API clients get 401.
func SessionAuthMiddleware(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, sessions.CookieName())
		if token == "" {
			reject(c, "missing session")
			return
		}

		claims, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			reject(c, "invalid or expired session")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeySessionToken, token)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func reject(c *gin.Context, message string) {
	if wantsHTML(c) {
		next := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			next += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(302, "/auth/login?next="+url.QueryEscape(next))
		c.Abort()
		return
	}

	response.Unauthorized(c, message)
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// GetUserID gets the user ID from the gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// GetUsername gets the username from the gin context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	return username.(string)
}

// GetSessionToken gets the raw session token from the gin context
func GetSessionToken(c *gin.Context) string {
	token, exists := c.Get(ContextKeySessionToken)
	if !exists {
		return ""
	}
	return token.(string)
}
