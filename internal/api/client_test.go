package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/chattalk/talk-cli/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.ServerConfig{BaseURL: baseURL, Timeout: 5})
}

func TestGetDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Errorf("path = %q, want /api/config", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ServerInfo{Name: "Chat&Talk GPT", Version: "1.0.0"})
	}))
	defer srv.Close()

	var info ServerInfo
	if err := testClient(srv.URL).Get(context.Background(), "/api/config", nil, &info); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if info.Name != "Chat&Talk GPT" || info.Version != "1.0.0" {
		t.Errorf("decoded %+v, want name and version", info)
	}
}

func TestQueryParamsSent(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	q := url.Values{}
	q.Set("user_id", "7")
	q.Set("enabled_only", "true")
	if err := testClient(srv.URL).Get(context.Background(), "/api/reminders", q, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotQuery.Get("user_id") != "7" || gotQuery.Get("enabled_only") != "true" {
		t.Errorf("query = %v, want user_id and enabled_only", gotQuery)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	body := map[string]string{"theme": "light"}
	if err := testClient(srv.URL).Post(context.Background(), "/api/user/theme", nil, body, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody["theme"] != "light" {
		t.Errorf("body = %v, want theme=light", gotBody)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"fastapi detail", http.StatusBadRequest, `{"detail": "Invalid theme"}`, "Invalid theme"},
		{"auth error", http.StatusUnauthorized, `{"error": "Invalid or expired token"}`, "Invalid or expired token"},
		{"reminder message", http.StatusNotFound, `{"message": "Reminder not found"}`, "Reminder not found"},
		{"plain body", http.StatusInternalServerError, `boom`, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := testClient(srv.URL).Get(context.Background(), "/x", nil, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("want *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.message {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.message)
			}
		})
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	err := testClient(srv.URL).Get(context.Background(), "/x", nil, nil)
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError, got %v", apiErr)
	}
}
