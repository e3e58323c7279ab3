package usecases

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorizedSignup    = errors.New("you are not authorized to sign up")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRefreshToken   = errors.New("invalid refresh token")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateEmail        = errors.New("user with that email already exists")
	ErrInvalidCode           = errors.New("invalid or expired code")
	ErrNoUnitsSpecified      = errors.New("no units specified")
	ErrTenantProfileNotFound = errors.New("tenant profile not found for this user")
	ErrNotAuthorized         = errors.New("not authorized to perform this action")
)

// ValidationError lists every rejected field of an input.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// err returns nil when nothing was rejected.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
