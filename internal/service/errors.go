package service

import (
	"errors"
	"fmt"

	"usermanager/internal/credential"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("user role not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken covers bad/expired tokens and tokens whose user no longer exists.
	ErrInvalidToken = credential.ErrInvalidToken
)

// FieldError rejects one request field for a rule the binding tags cannot express.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
