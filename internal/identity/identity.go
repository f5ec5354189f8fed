// Package identity talks to the identity provider: it creates and deletes
// login identities, signs users in and verifies their access tokens.
package identity

import (
	"context"
	"errors"
	"strings"

	"hotlunchhub/internal/domain/users"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotConfigured = errors.New("identity provider not configured")
)

// ProviderError is a failure reported by the identity provider. Its message
// is returned to callers unchanged.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Claims describe the bearer of a verified access token.
type Claims struct {
	UserID   string
	Email    string
	Metadata map[string]any
}

func (c Claims) MetadataString(key string) string {
	if c.Metadata == nil {
		return ""
	}
	value, _ := c.Metadata[key].(string)
	return strings.TrimSpace(value)
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         Claims `json:"-"`
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Authenticator is the full provider surface the HTTP layer needs.
type Authenticator interface {
	users.IdentityProvider
	Verifier
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
