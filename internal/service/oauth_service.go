package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coinctrl/coinctrl/internal/config"
	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrOAuthDisabled     = errors.New("google oauth is not configured")
	ErrOAuthInvalidState = errors.New("invalid oauth state")
)

const (
	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 10 * time.Minute
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleOAuthService runs the Google sign-in flow. Callback users are linked
// to an existing account by email or provisioned as new local records.
type GoogleOAuthService struct {
	oauthCfg *oauth2.Config
	rdb      *redis.Client
	userRepo *repository.UserRepository
	auth     *AuthService
}

// NewGoogleOAuthService creates a new GoogleOAuthService. The service is
// inert (Enabled() == false) when no client id is configured.
func NewGoogleOAuthService(
	cfg config.GoogleOAuthConfig,
	rdb *redis.Client,
	userRepo *repository.UserRepository,
	auth *AuthService,
) *GoogleOAuthService {
	var oauthCfg *oauth2.Config
	if cfg.ClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	return &GoogleOAuthService{
		oauthCfg: oauthCfg,
		rdb:      rdb,
		userRepo: userRepo,
		auth:     auth,
	}
}

// Enabled reports whether Google sign-in is configured
func (s *GoogleOAuthService) Enabled() bool {
	return s.oauthCfg != nil
}

// AuthURL generates the provider redirect URL with a one-time state token
func (s *GoogleOAuthService) AuthURL(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", ErrOAuthDisabled
	}

	state := uuid.New().String()
	if err := s.rdb.Set(ctx, oauthStatePrefix+state, 1, oauthStateTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

type googleUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Name      string `json:"name"`
	Picture   string `json:"picture"`
}

// HandleCallback validates the state, exchanges the code and links or
// creates the user record.
func (s *GoogleOAuthService) HandleCallback(ctx context.Context, state, code string) (*models.User, error) {
	if !s.Enabled() {
		return nil, ErrOAuthDisabled
	}

	// One-time state: delete returns 0 when the state was never issued.
	deleted, err := s.rdb.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrOAuthInvalidState
	}

	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	return s.linkOrCreate(info)
}

func (s *GoogleOAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	client := s.oauthCfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfo)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var info googleUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("google account has no email")
	}
	info.Email = strings.ToLower(info.Email)
	return &info, nil
}

// linkOrCreate attaches the provider id to an existing user found by email,
// or provisions a fresh account with a generated username.
func (s *GoogleOAuthService) linkOrCreate(info *googleUser) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(info.Email)
	if err == nil {
		if user.AuthProvider != models.AuthProviderGoogle {
			user.AuthProvider = models.AuthProviderGoogle
			user.GoogleID = info.ID
			user.ProfilePicture = info.Picture
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	firstName := info.GivenName
	if firstName == "" && info.Name != "" {
		firstName = strings.Fields(info.Name)[0]
	}

	user = &models.User{
		Email:          info.Email,
		FirstName:      firstName,
		ProfilePicture: info.Picture,
		AuthProvider:   models.AuthProviderGoogle,
		GoogleID:       info.ID,
		IsActive:       true,
	}
	if err := s.auth.provision(user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueSession creates a session for an OAuth-authenticated user
func (s *GoogleOAuthService) IssueSession(ctx context.Context, user *models.User) (*SessionToken, error) {
	return s.auth.sessions.Issue(ctx, user)
}
