package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coinctrl/coinctrl/internal/models"
	"github.com/coinctrl/coinctrl/internal/repository"
	"github.com/coinctrl/coinctrl/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService handles registration, login and profile operations
type AuthService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	categoryRepo *repository.CategoryRepository
	sessions     *SessionManager
}

// NewAuthService creates a new AuthService
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	categoryRepo *repository.CategoryRepository,
	sessions *SessionManager,
) *AuthService {
	return &AuthService{
		db:           db,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		sessions:     sessions,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *RegisterRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r *RegisterRequest) validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.FirstName == "" {
		errs["first_name"] = "first name is required"
	}
	if r.Email == "" {
		errs["email"] = "email is required"
	} else if !ValidEmail(r.Email) {
		errs["email"] = "email is invalid"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	} else if ok, reason := ValidatePassword(r.Password); !ok {
		errs["password"] = reason
	}
	if r.ConfirmPassword == "" {
		errs["confirm_password"] = "password confirmation is required"
	} else if r.Password != r.ConfirmPassword {
		errs["confirm_password"] = "passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Register creates a local user with a derived unique username, hashed
// password and the default category set, all in one DB transaction.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	req.normalize()
	if errs := req.validate(); errs != nil {
		return nil, errs
	}

	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: models.AuthProviderLocal,
		IsActive:     true,
	}

	if err := s.provision(user); err != nil {
		return nil, err
	}
	return user, nil
}

// provision assigns a unique username and persists the user together with
// the default categories. Shared by local registration and OAuth sign-up.
func (s *AuthService) provision(user *models.User) error {
	username, err := s.uniqueUsername(user.Email)
	if err != nil {
		return err
	}
	user.Username = username

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		return s.categoryRepo.WithTx(tx).CreateBatch(models.DefaultCategories(user.ID))
	})
}

// uniqueUsername derives a username from the email local part, appending an
// incrementing numeric suffix until it is free.
func (s *AuthService) uniqueUsername(email string) (string, error) {
	return deriveUsername(UsernameBase(email), s.userRepo.ExistsByUsername)
}

// deriveUsername tries base, then base1, base2, ... until exists reports the
// candidate free.
func deriveUsername(base string, exists func(string) (bool, error)) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password fail identically. The lockout check runs before any password
// comparison, so a locked account rejects even the correct password.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*models.User, *SessionToken, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		user.RecordLoginFailure(now)
		if err := s.userRepo.Update(user); err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.RecordLoginSuccess()
		if err := s.userRepo.Update(user); err != nil {
			return nil, nil, err
		}
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Logout revokes the session for the given token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfileRequest represents the profile update request
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateProfile applies a partial profile update
func (s *AuthService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordRequest represents the password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !crypto.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	if ok, reason := ValidatePassword(req.NewPassword); !ok {
		return ValidationErrors{"new_password": reason}
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(user)
}
