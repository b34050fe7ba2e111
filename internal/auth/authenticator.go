// Package auth resolves bearer credentials into caller identities.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/fitvs/coaching-service/internal/models"
)

var (
	// ErrMissingCredential means no bearer token was presented
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential means the token failed verification or maps to no usable account
	ErrInvalidCredential = errors.New("invalid credential")
)

// Authenticator turns a bearer token into the caller identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredential
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidCredential
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}
