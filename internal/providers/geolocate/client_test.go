package geolocate

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_CurrentPosition(t *testing.T) {
	var gotCacheControl string
	var gotBody PositionRequest
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location": {"lat": 18.52043, "lng": 73.856744}, "accuracy": 20.5}`))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.baseURL = server.URL

	pos, err := client.CurrentPosition()
	if err != nil {
		t.Fatalf("CurrentPosition() unexpected error = %v", err)
	}

	if gotCacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache (no cached fix reuse)", gotCacheControl)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q, want test-key", gotKey)
	}
	if !gotBody.ConsiderIP {
		t.Error("request body should set considerIp")
	}

	if pos.Latitude != 18.52043 {
		t.Errorf("Latitude = %v, want 18.52043", pos.Latitude)
	}
	if pos.Longitude != 73.856744 {
		t.Errorf("Longitude = %v, want 73.856744", pos.Longitude)
	}
	if pos.Accuracy != 20.5 {
		t.Errorf("Accuracy = %v, want 20.5", pos.Accuracy)
	}
}

func TestClient_CurrentPosition_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "permission denied",
			status:  http.StatusForbidden,
			body:    `{"error": {"code": 403, "message": "The caller does not have permission"}}`,
			wantErr: ErrPermissionDenied,
		},
		{
			name:    "not found means unsupported",
			status:  http.StatusNotFound,
			body:    `{"error": {"code": 404, "message": "Not Found", "errors": [{"reason": "notFound"}]}}`,
			wantErr: ErrUnsupported,
		},
		{
			name:    "not implemented means unsupported",
			status:  http.StatusNotImplemented,
			body:    ``,
			wantErr: ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("")
			client.baseURL = server.URL

			_, err := client.CurrentPosition()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CurrentPosition() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_CurrentPosition_apiErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid value for UserLocation"}}`))
	}))
	defer server.Close()

	client := NewClient("")
	client.baseURL = server.URL

	_, err := client.CurrentPosition()
	if err == nil {
		t.Fatal("CurrentPosition() expected error")
	}
	if !strings.Contains(err.Error(), "Invalid value for UserLocation") {
		t.Errorf("error = %q, want the provider message surfaced", err)
	}
}
