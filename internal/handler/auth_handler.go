package handler

import (
	"errors"
	"net/http"

	"github.com/coinctrl/coinctrl/internal/middleware"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/service"
	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService  *service.AuthService
	oauthService *service.GoogleOAuthService
	sessions     *service.SessionManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	authService *service.AuthService,
	oauthService *service.GoogleOAuthService,
	sessions *service.SessionManager,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		oauthService: oauthService,
		sessions:     sessions,
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"email":           user.Email,
		"username":        user.Username,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"display_name":    user.DisplayName(),
		"profile_picture": user.ProfilePicture,
		"auth_provider":   user.AuthProvider,
		"created_at":      user.CreatedAt,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token *service.SessionToken) {
	c.SetCookie(
		h.sessions.CookieName(),
		token.Token,
		token.ExpiresIn,
		"/",
		"",
		h.sessions.CookieSecure(),
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.sessions.CookieName(), "", -1, "/", "", h.sessions.CookieSecure(), true)
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, userPayload(user))
}

// Login handles user login. A relative `next` query parameter is echoed
// back as redirect_to so browser clients can resume where they left off.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAccountLocked) {
			response.Error(c, http.StatusTooManyRequests, http.StatusTooManyRequests, "account temporarily locked, try again later")
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountDisabled) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	h.setSessionCookie(c, token)

	response.Success(c, gin.H{
		"token":       token.Token,
		"token_type":  token.TokenType,
		"expires_in":  token.ExpiresIn,
		"user":        userPayload(user),
		"redirect_to": service.SafeNextPath(c.Query("next")),
	})
}

// Logout revokes the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetSessionToken(c)
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			middleware.LogError("failed to revoke session: %v", err)
		}
	}
	h.clearSessionCookie(c)
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.Unauthorized(c, "session user no longer exists")
		return
	}
	response.Success(c, userPayload(user))
}

// UpdateProfile applies a partial profile update
// PUT /api/v1/auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		if handleValidation(c, err) {
			return
		}
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, userPayload(user))
}

// ChangePassword verifies the current password and sets a new one
// PUT /api/v1/auth/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		if handleValidation(c, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "current password is incorrect")
			return
		}
		response.InternalError(c, "failed to change password")
		return
	}

	response.Success(c, gin.H{"message": "password updated"})
}

// GoogleLogin redirects the browser to Google's consent screen
// GET /api/v1/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.oauthService.Enabled() {
		response.Error(c, http.StatusNotImplemented, http.StatusNotImplemented, "google login is not configured")
		return
	}

	url, err := h.oauthService.AuthURL(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to start google login")
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback completes the OAuth flow, issues a session and sends the
// browser back to the dashboard
// GET /api/v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if !h.oauthService.Enabled() {
		response.Error(c, http.StatusNotImplemented, http.StatusNotImplemented, "google login is not configured")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.BadRequest(c, "missing state or code")
		return
	}

	user, err := h.oauthService.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, service.ErrOAuthInvalidState) {
			response.BadRequest(c, "invalid or expired oauth state")
			return
		}
		middleware.LogError("google callback failed: %v", err)
		response.Unauthorized(c, "google login failed")
		return
	}

	token, err := h.oauthService.IssueSession(c.Request.Context(), user)
	if err != nil {
		response.InternalError(c, "failed to create session")
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/")
}

// RegisterRoutes registers public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/google", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
	}
}

// RegisterProtectedRoutes registers auth routes that require a session
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.PUT("/me", h.UpdateProfile)
		auth.PUT("/me/password", h.ChangePassword)
	}
}
