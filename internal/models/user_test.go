package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLoginFailureLocksAfterFive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	u := &User{}

	for i := 0; i < MaxLoginFailures-1; i++ {
		u.RecordLoginFailure(now)
		assert.False(t, u.IsLocked(now), "attempt %d must not lock", i+1)
	}

	u.RecordLoginFailure(now)
	require.True(t, u.IsLocked(now))
	require.NotNil(t, u.LockedUntil)
	assert.Equal(t, now.Add(LockoutDuration), *u.LockedUntil)

	// Even before the lock window ends the account stays locked; the caller
	// must not reach password verification in this state.
	assert.True(t, u.IsLocked(now.Add(29*time.Minute)))
	assert.False(t, u.IsLocked(now.Add(31*time.Minute)))
}

func TestRecordLoginSuccessClearsLockState(t *testing.T) {
	now := time.Now()
	u := &User{}
	for i := 0; i < MaxLoginFailures; i++ {
		u.RecordLoginFailure(now)
	}
	require.True(t, u.IsLocked(now))

	u.RecordLoginSuccess()
	assert.False(t, u.IsLocked(now))
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", Username: "ada1"}).DisplayName())
	assert.Equal(t, "ada1", (&User{Username: "ada1"}).DisplayName())
}
