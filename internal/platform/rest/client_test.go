package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_GetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	var out map[string]string
	if err := c.Get(context.Background(), "/health", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["status"] != "ok" {
		t.Errorf("expected ok, got %q", out["status"])
	}
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["format"] != "pdf" {
			t.Errorf("expected format pdf, got %q", body["format"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "exp-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	var out map[string]string
	err := c.Post(context.Background(), "/export/request", map[string]string{"format": "pdf"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["id"] != "exp-1" {
		t.Errorf("expected exp-1, got %q", out["id"])
	}
}

func TestClient_Non2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "export not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.Get(context.Background(), "/export/status/nope", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
}

func TestClient_TokenSourceAttachesBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second).WithTokenSource(func(ctx context.Context) (string, error) {
		return "session-token", nil
	})
	if err := c.Get(context.Background(), "/profile", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
