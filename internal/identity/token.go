package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"hotlunchhub/pkg/logger"
)

const defaultLeeway = 30 * time.Second

type tokenClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

func (c *tokenClaims) toClaims() (*Claims, error) {
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return &Claims{UserID: c.Subject, Email: c.Email, Metadata: c.UserMetadata}, nil
}

// HMACVerifier checks HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	claims := &tokenClaims{}
	secret := func(*jwt.Token) (any, error) { return v.secret, nil }
	_, err := jwt.ParseWithClaims(token, claims, secret,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(defaultLeeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.toClaims()
}

func (v *HMACVerifier) issue(claims tokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// JWKSVerifier checks asymmetric tokens against the provider's published key set.
type JWKSVerifier struct {
	keys keyfunc.Keyfunc
}

func NewJWKSVerifier(ctx context.Context, jwksURL string, refresh time.Duration, log logger.Logger) (*JWKSVerifier, error) {
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			log.Warn("identity.jwks: refresh failed", "url", jwksURL, "err", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jwks storage: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("jwks keyfunc: %w", err)
	}
	return &JWKSVerifier{keys: keys}, nil
}

// NewJWKSVerifierWithKeyfunc wraps an existing key source.
func NewJWKSVerifierWithKeyfunc(keys keyfunc.Keyfunc) *JWKSVerifier {
	return &JWKSVerifier{keys: keys}
}

func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, v.keys.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(defaultLeeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.toClaims()
}

// ChainVerifier tries each verifier in turn and returns the first success.
type ChainVerifier []Verifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if len(c) == 0 {
		return nil, ErrNotConfigured
	}
	var errs []error
	for _, verifier := range c {
		claims, err := verifier.Verify(ctx, token)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
