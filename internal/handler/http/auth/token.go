package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum JWT secret length (256 bits).
const MinSecretLength = 32

// DefaultTokenTTL is the lifetime of issued tokens when none is given.
const DefaultTokenTTL = time.Hour

var (
	// ErrWeakSecret is returned by ValidateSecret.
	ErrWeakSecret = errors.New("weak JWT secret")
	// ErrInvalidRole is returned when a token is requested for an unknown role.
	ErrInvalidRole = errors.New("invalid role")
)

var weakSecrets = []string{"secret", "password", "test", "admin", "default", "changeme"}

// ValidateSecret rejects empty and short secrets as well as secrets built by
// repeating one character or a common word.
func ValidateSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: JWT_SECRET must be set", ErrWeakSecret)
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%w: JWT_SECRET must be at least %d characters (256 bits)", ErrWeakSecret, MinSecretLength)
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return fmt.Errorf("%w: JWT_SECRET must not repeat a single character", ErrWeakSecret)
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.ReplaceAll(lower, weak, "") == "" {
			return fmt.Errorf("%w: JWT_SECRET must not be a common weak value", ErrWeakSecret)
		}
	}
	return nil
}

// IssueToken signs an HS256 token carrying sub, role and exp claims.
func IssueToken(secret []byte, subject, role string, ttl time.Duration, now time.Time) (string, error) {
	if !IsValidRole(role) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	RecordTokenIssued(role)
	return signed, nil
}
