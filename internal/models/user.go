package models

import (
	"time"
)

// AuthProvider identifies how a user authenticates
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

const (
	// MaxLoginFailures is the number of consecutive failed logins that locks an account
	MaxLoginFailures = 5
	// LockoutDuration is how long a locked account stays locked
	LockoutDuration = 30 * time.Minute
)

// User represents a registered user
type User struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	Email               string       `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Username            string       `gorm:"uniqueIndex;size:120;not null" json:"username"`
	PasswordHash        string       `gorm:"size:255" json:"-"`
	FirstName           string       `gorm:"size:80" json:"first_name"`
	LastName            string       `gorm:"size:80" json:"last_name"`
	ProfilePicture      string       `gorm:"size:255" json:"profile_picture,omitempty"`
	AuthProvider        AuthProvider `gorm:"size:20;not null;default:'local'" json:"auth_provider"`
	GoogleID            string       `gorm:"size:64;index" json:"-"`
	IsActive            bool         `gorm:"not null;default:true" json:"is_active"`
	FailedLoginAttempts int          `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time   `json:"-"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	// Relations
	Categories   []Category    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Accounts     []Account     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Budgets      []Budget      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Goals        []Goal        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsLocked reports whether the account is locked out at the given time
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RecordLoginFailure registers a failed login attempt. Reaching
// MaxLoginFailures locks the account for LockoutDuration.
func (u *User) RecordLoginFailure(now time.Time) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxLoginFailures {
		until := now.Add(LockoutDuration)
		u.LockedUntil = &until
	}
}

// RecordLoginSuccess clears the failure counter and any lock
func (u *User) RecordLoginSuccess() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

// DisplayName returns the name shown in greetings
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
