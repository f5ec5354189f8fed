package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotlunchhub/internal/config"
	"hotlunchhub/internal/domain/users"
)

const localIssuer = "hotlunchhub"

type authIdentity struct {
	ID           string            `gorm:"type:uuid;primaryKey"`
	Email        string            `gorm:"not null;uniqueIndex"`
	PasswordHash string            `gorm:"not null"`
	UserMetadata datatypes.JSONMap `gorm:"column:user_metadata"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
}

func (authIdentity) TableName() string {
	return "auth_identities"
}

// Local keeps identities in the service's own database and issues HS256
// tokens. It stands in for Supabase in development and self-hosted setups.
type Local struct {
	db     *gorm.DB
	tokens *HMACVerifier
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewLocal(db *gorm.DB, cfg config.AuthConfig) *Local {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Local{
		db:     db,
		tokens: NewHMACVerifier(cfg.LocalJWTSecret),
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
	}
}

func (l *Local) CreateIdentity(ctx context.Context, identity users.NewIdentity) (*users.Identity, error) {
	email := normalizeEmail(identity.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ProviderError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "Unable to validate email address: invalid format"}
	}
	if len(identity.Password) < 6 {
		return nil, &ProviderError{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: "Password should be at least 6 characters."}
	}

	var existing int64
	if err := l.db.WithContext(ctx).Model(&authIdentity{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &ProviderError{Status: http.StatusUnprocessableEntity, Code: "email_exists", Message: "A user with this email address has already been registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(identity.Password), l.cost)
	if err != nil {
		return nil, err
	}

	metadata := datatypes.JSONMap{}
	for key, value := range identity.Metadata {
		metadata[key] = value
	}
	row := authIdentity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		UserMetadata: metadata,
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &users.Identity{ID: row.ID, Email: row.Email}, nil
}

func (l *Local) DeleteIdentity(ctx context.Context, id string) error {
	result := l.db.WithContext(ctx).Delete(&authIdentity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ProviderError{Status: http.StatusNotFound, Code: "user_not_found", Message: "User not found"}
	}
	return nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var row authIdentity
	err := l.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return nil, &ProviderError{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	}

	now := l.now()
	token, err := l.tokens.issue(tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   row.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
		},
		Email:        row.Email,
		Role:         "authenticated",
		UserMetadata: row.UserMetadata,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(l.ttl.Seconds()),
		User:        Claims{UserID: row.ID, Email: row.Email, Metadata: row.UserMetadata},
	}, nil
}

func (l *Local) Verify(ctx context.Context, token string) (*Claims, error) {
	return l.tokens.Verify(ctx, token)
}

// Model exposes the identity table for schema setup in tests and tools.
func Model() any {
	return &authIdentity{}
}
