package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"hotlunchhub/internal/config"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/identity"
	"hotlunchhub/internal/metrics"
	"hotlunchhub/pkg/logger"
)

type contextKey int

const (
	callerKey contextKey = iota
)

// Caller is the authenticated user behind a request. Role and Status come
// from the profile row and are empty when the user has no profile yet.
type Caller struct {
	UserID   string
	Email    string
	Name     string
	Role     usersdomain.Role
	Status   string
	Token    string
	Metadata map[string]any
}

func (c Caller) HasProfile() bool {
	return c.Role != ""
}

type ProfileLoader interface {
	GetProfile(ctx context.Context, id string) (*usersdomain.Profile, error)
}

type Auth struct {
	verifier identity.Verifier
	profiles ProfileLoader
	cache    *expirable.LRU[string, usersdomain.Profile]
	stats    metrics.Cache
	skipAuth bool
	mockUser Caller
	log      logger.Logger
}

func NewAuth(cfg config.AuthConfig, verifier identity.Verifier, profiles ProfileLoader, log logger.Logger) *Auth {
	size := cfg.ProfileCacheSize
	if size <= 0 {
		size = 1024
	}
	return &Auth{
		verifier: verifier,
		profiles: profiles,
		cache:    expirable.NewLRU[string, usersdomain.Profile](size, nil, cfg.ProfileCacheTTL),
		stats:    metrics.NewCache("profiles"),
		skipAuth: cfg.SkipAuth,
		mockUser: Caller{
			UserID: strings.TrimSpace(cfg.MockUserID),
			Email:  strings.TrimSpace(cfg.MockUserEmail),
			Name:   "Mock Admin",
			Role:   usersdomain.RoleAdmin,
			Status: usersdomain.StatusActive,
		},
		log: log,
	}
}

// ErrorWriter renders a rejected request. Routes with their own error
// contract pass one to ErrorsWith and RequireRoleWith.
type ErrorWriter func(w http.ResponseWriter, status int, code, message string)

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return a.ErrorsWith(writeError)(next)
}

// ErrorsWith is Middleware with rejections rendered by write.
func (a *Auth) ErrorsWith(write ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.authenticate(next, write)
	}
}

func (a *Auth) authenticate(next http.Handler, write ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.UserID == "" {
				write(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), a.mockUser)))
			return
		}

		if a.verifier == nil {
			write(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, write)
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrNotConfigured) {
				write(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
				return
			}
			a.log.Debug("auth: token rejected", "err", err, "remote_addr", r.RemoteAddr)
			unauthorized(w, write)
			return
		}

		caller := Caller{
			UserID:   claims.UserID,
			Email:    claims.Email,
			Name:     firstNonEmpty(claims.MetadataString("name"), claims.MetadataString("full_name")),
			Token:    token,
			Metadata: claims.Metadata,
		}

		profile, err := a.profile(r.Context(), claims.UserID)
		switch {
		case err == nil:
			caller.Role = profile.Role
			caller.Status = profile.Status
			caller.Name = firstNonEmpty(profile.Name, caller.Name)
			caller.Email = firstNonEmpty(caller.Email, profile.Email)
		case errors.Is(err, usersdomain.ErrProfileNotFound):
		default:
			a.log.InternalError("auth: load profile failed", err, "user_id", claims.UserID)
			write(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func (a *Auth) profile(ctx context.Context, userID string) (*usersdomain.Profile, error) {
	if profile, ok := a.cache.Get(userID); ok {
		a.stats.Hit()
		return &profile, nil
	}
	a.stats.Miss()

	if a.profiles == nil {
		return nil, usersdomain.ErrProfileNotFound
	}
	profile, err := a.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.cache.Add(userID, *profile)
	return profile, nil
}

// Forget drops a cached profile after it changed or was deleted.
func (a *Auth) Forget(userID string) {
	a.cache.Remove(userID)
}

// RequireRole lets through active callers whose profile role is one of roles.
func RequireRole(roles ...usersdomain.Role) func(http.Handler) http.Handler {
	return RequireRoleWith(writeError, roles...)
}

func RequireRoleWith(write ErrorWriter, roles ...usersdomain.Role) func(http.Handler) http.Handler {
	allowed := make(map[usersdomain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				unauthorized(w, write)
				return
			}
			if !caller.HasProfile() {
				write(w, http.StatusForbidden, "profile_not_found", "no profile for this user")
				return
			}
			if caller.Status == usersdomain.StatusInactive {
				write(w, http.StatusForbidden, "account_inactive", "account is inactive")
				return
			}
			if _, ok := allowed[caller.Role]; !ok {
				write(w, http.StatusForbidden, "forbidden", "role not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, write ErrorWriter) {
	write(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	if !ok || caller.UserID == "" {
		return Caller{}, false
	}
	return caller, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
