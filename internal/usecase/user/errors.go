// Package user provides use cases for managing article authors.
package user

import (
	"errors"

	"blog-admin/internal/domain/entity"
)

var (
	// ErrUserNotFound indicates that the requested user was not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUserID indicates that the provided user ID is not a positive integer.
	ErrInvalidUserID = errors.New("invalid user ID")

	// ErrUsernameTaken is a validation error on the username field.
	ErrUsernameTaken error = &entity.ValidationError{Field: "username", Message: "already exists"}
)
