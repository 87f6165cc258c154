package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Str0ngpass", true},
		{"too short", "Ab1x", false},
		{"no upper", "weakpass1", false},
		{"no lower", "WEAKPASS1", false},
		{"no digit", "Weakpassword", false},
		{"exactly eight", "Abcdefg1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ValidatePassword(tc.password)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ada@example.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("@example.com"))
	assert.False(t, ValidEmail(""))
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "ada.lovelace", UsernameBase("Ada.Lovelace@example.com"))
	assert.Equal(t, "bob", UsernameBase("bob@example.com"))
	// Everything outside the safe alphabet is stripped.
	assert.Equal(t, "jos", UsernameBase("josé@example.com"))
	assert.Equal(t, "user", UsernameBase("@example.com"))
}

func TestSafeNextPath(t *testing.T) {
	assert.Equal(t, "/transactions?page=2", SafeNextPath("/transactions?page=2"))
	assert.Equal(t, "", SafeNextPath("https://evil.example/phish"))
	assert.Equal(t, "", SafeNextPath("//evil.example/phish"))
	assert.Equal(t, "", SafeNextPath("relative/path"))
	assert.Equal(t, "", SafeNextPath(""))
}

func TestRegisterRequestValidateCollectsAllErrors(t *testing.T) {
	req := &RegisterRequest{
		Email:           "bad-email",
		Password:        "short",
		ConfirmPassword: "different",
	}
	req.normalize()
	errs := req.validate()

	// Every failing field is reported at once, not just the first.
	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "confirm_password")
}

func TestValidateTransactionFields(t *testing.T) {
	date, errs := validateTransactionFields(dec("10.00"), "income", "salary", "2024-01-05")
	assert.Nil(t, errs)
	assert.Equal(t, 2024, date.Year())

	_, errs = validateTransactionFields(dec("0"), "transfer", " ", "05/01/2024")
	assert.Contains(t, errs, "amount")
	assert.Contains(t, errs, "type")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "transaction_date")

	// amount <= 0 always fails, regardless of type
	_, errs = validateTransactionFields(dec("-5.00"), "expense", "refund", "2024-01-05")
	assert.Contains(t, errs, "amount")
}
