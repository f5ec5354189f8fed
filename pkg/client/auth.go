package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Me is the caller as seen by the backend. Profile is nil until an admin
// has created one.
type Me struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Role    string   `json:"role"`
	Status  string   `json:"status"`
	Profile *Profile `json:"profile"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	raw, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encode sign-in: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/sign-in", nil, bytes.NewReader(raw), false)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out Session
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Session(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/session", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MeRecord(ctx context.Context) (*Record, error) {
	var out Record
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me/record", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
