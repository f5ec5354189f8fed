package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotlunchhub/internal/config"
)

func TestUpload(t *testing.T) {
	var gotBody, gotType, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer service" {
			t.Errorf("expected service key, got %q", r.Header.Get("Authorization"))
		}
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"Key":"images/meals/1/a.png"}`))
	}))
	defer server.Close()

	store := NewSupabase(config.SupabaseConfig{URL: server.URL, ServiceRoleKey: "service", StorageBucket: "images"})
	publicURL, err := store.Upload(context.Background(), "meals/1/a.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotPath != "/storage/v1/object/images/meals/1/a.png" {
		t.Fatalf("unexpected upload path %q", gotPath)
	}
	if gotBody != "png-bytes" || gotType != "image/png" {
		t.Fatalf("unexpected upload %q %q", gotBody, gotType)
	}
	if publicURL != server.URL+"/storage/v1/object/public/images/meals/1/a.png" {
		t.Fatalf("unexpected public url %q", publicURL)
	}
}

func TestUploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer server.Close()

	store := NewSupabase(config.SupabaseConfig{URL: server.URL, ServiceRoleKey: "service"})
	_, err := store.Upload(context.Background(), "meals/1/a.png", "image/png", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "The resource already exists") {
		t.Fatalf("expected upstream message, got %v", err)
	}
}

func TestUploadNotConfigured(t *testing.T) {
	store := NewSupabase(config.SupabaseConfig{})
	if _, err := store.Upload(context.Background(), "a", "image/png", strings.NewReader("x")); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
