package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength is the maximum number of characters allowed in a username.
const MaxUsernameLength = 150

// User represents an account that can author articles.
// Deleting a user deletes every article it authored.
type User struct {
	ID         int64
	Username   string
	Email      string
	DateJoined time.Time
}

// Validate checks the username constraints.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if utf8.RuneCountInString(u.Username) > MaxUsernameLength {
		return &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("must be at most %d characters (too long)", MaxUsernameLength),
		}
	}
	return nil
}
