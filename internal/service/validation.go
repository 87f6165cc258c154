package service

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ValidationErrors collects per-field failures so a response can report all
// of them at once instead of failing on the first.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address has a plausible mailbox form
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces the password policy: at least 8 characters with
// an upper-case letter, a lower-case letter and a digit.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return false, "password must contain an upper-case letter"
	case !hasLower:
		return false, "password must contain a lower-case letter"
	case !hasDigit:
		return false, "password must contain a digit"
	}
	return true, ""
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9._\-]`)

// UsernameBase derives the starting username from an email's local part.
// Collisions are resolved by the caller with a numeric suffix.
func UsernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	local = usernameStrip.ReplaceAllString(strings.ToLower(local), "")
	if local == "" {
		local = "user"
	}
	return local
}

// SafeNextPath returns the post-login redirect target if it is a relative
// path on this site, empty otherwise. Absolute URLs are rejected so login
// can never bounce a browser to another host.
func SafeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return next
}
