package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotlunchhub/internal/config"
	"hotlunchhub/internal/domain/users"
)

// Supabase is a client for the GoTrue auth API: admin user management with
// the service role key, password sign-in and token lookup with the anon key.
type Supabase struct {
	baseURL    string
	anonKey    string
	serviceKey string
	client     *http.Client
	verifier   Verifier
}

type gotrueUser struct {
	ID           string         `json:"id"`
	Sub          string         `json:"sub"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type gotrueError struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorName        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int        `json:"expires_in"`
	User         gotrueUser `json:"user"`
}

// NewSupabase builds the client. verifier, when non-nil, checks tokens
// locally; otherwise every Verify asks GoTrue who the bearer is.
func NewSupabase(cfg config.SupabaseConfig, verifier Verifier) *Supabase {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Supabase{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		client:     &http.Client{Timeout: timeout},
		verifier:   verifier,
	}
}

func (s *Supabase) CreateIdentity(ctx context.Context, identity users.NewIdentity) (*users.Identity, error) {
	if s.baseURL == "" || s.serviceKey == "" {
		return nil, ErrNotConfigured
	}

	payload := map[string]any{
		"email":         strings.TrimSpace(identity.Email),
		"password":      identity.Password,
		"email_confirm": true,
	}
	if len(identity.Metadata) > 0 {
		payload["user_metadata"] = identity.Metadata
	}

	resp, err := s.do(ctx, http.MethodPost, "/auth/v1/admin/users", s.serviceKey, s.serviceKey, payload)
	if err != nil {
		return nil, err
	}

	var user gotrueUser
	if err := decodeResponse(resp, &user); err != nil {
		return nil, err
	}
	id := firstNonEmpty(user.ID, user.Sub)
	if id == "" {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "identity provider returned no user id"}
	}
	return &users.Identity{ID: id, Email: user.Email}, nil
}

func (s *Supabase) DeleteIdentity(ctx context.Context, id string) error {
	if s.baseURL == "" || s.serviceKey == "" {
		return ErrNotConfigured
	}

	resp, err := s.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), s.serviceKey, s.serviceKey, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

func (s *Supabase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if s.baseURL == "" || s.anonKey == "" {
		return nil, ErrNotConfigured
	}

	payload := map[string]string{"email": strings.TrimSpace(email), "password": password}
	resp, err := s.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", s.anonKey, "", payload)
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if err := decodeResponse(resp, &token); err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
		User: Claims{
			UserID:   firstNonEmpty(token.User.ID, token.User.Sub),
			Email:    token.User.Email,
			Metadata: token.User.UserMetadata,
		},
	}, nil
}

func (s *Supabase) Verify(ctx context.Context, token string) (*Claims, error) {
	if s.verifier != nil {
		return s.verifier.Verify(ctx, token)
	}
	if s.baseURL == "" || s.anonKey == "" {
		return nil, ErrNotConfigured
	}

	resp, err := s.do(ctx, http.MethodGet, "/auth/v1/user", s.anonKey, token, nil)
	if err != nil {
		return nil, err
	}

	var user gotrueUser
	if err := decodeResponse(resp, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := firstNonEmpty(user.ID, user.Sub)
	if id == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return &Claims{UserID: id, Email: user.Email, Metadata: user.UserMetadata}, nil
}

func (s *Supabase) do(ctx context.Context, method, path, apiKey, bearer string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request: %w", err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providerError(resp)
	}
	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode identity provider response: %w", err)
	}
	return nil
}

func providerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload gotrueError
	_ = json.Unmarshal(body, &payload)

	return &ProviderError{
		Status: resp.StatusCode,
		Code:   firstNonEmpty(payload.ErrorCode, payload.ErrorName),
		Message: firstNonEmpty(
			payload.Msg,
			payload.ErrorDescription,
			payload.Message,
			payload.ErrorName,
			string(body),
			http.StatusText(resp.StatusCode),
		),
	}
}
