package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations matches werkzeug's pbkdf2:sha256 default so hashes imported
	// from the legacy deployment keep verifying.
	Iterations = 260000
	SaltLength = 16
	KeyLength  = 32
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a PBKDF2-SHA256 hash for the given password.
// The encoded form is "pbkdf2:sha256:<iterations>$<salt-hex>$<hash-hex>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, Iterations, KeyLength, sha256.New)

	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s",
		Iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(key),
	), nil
}

// CheckPassword reports whether the password matches the encoded hash.
// Unknown or malformed encodings never match.
func CheckPassword(password, encoded string) bool {
	iterations, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func decodeHash(encoded string) (int, []byte, []byte, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return 0, nil, nil, ErrMalformedHash
	}

	method := strings.Split(parts[0], ":")
	if len(method) != 3 || method[0] != "pbkdf2" || method[1] != "sha256" {
		return 0, nil, nil, ErrMalformedHash
	}

	iterations, err := strconv.Atoi(method[2])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, ErrMalformedHash
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return 0, nil, nil, ErrMalformedHash
	}

	hash, err := hex.DecodeString(parts[2])
	if err != nil || len(hash) == 0 {
		return 0, nil, nil, ErrMalformedHash
	}

	return iterations, salt, hash, nil
}
