// Package storage uploads objects to Supabase Storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotlunchhub/internal/config"
)

var ErrNotConfigured = errors.New("object storage not configured")

type Supabase struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

func NewSupabase(cfg config.SupabaseConfig) *Supabase {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	bucket := cfg.StorageBucket
	if bucket == "" {
		bucket = "images"
	}
	return &Supabase{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		bucket:     bucket,
		serviceKey: cfg.ServiceRoleKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// Upload stores body at objectPath in the bucket and returns its public URL.
func (s *Supabase) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if s.baseURL == "" || s.serviceKey == "" {
		return "", ErrNotConfigured
	}

	objectPath = strings.TrimLeft(objectPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL("object", objectPath), body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", uploadError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return s.objectURL("object/public", objectPath), nil
}

func (s *Supabase) objectURL(prefix, objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/storage/v1/%s/%s/%s", s.baseURL, prefix, url.PathEscape(s.bucket), strings.Join(segments, "/"))
}

func uploadError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("storage upload failed (%d): %s", resp.StatusCode, message)
}
