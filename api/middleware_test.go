package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/gigpay/pkg/models"
	"github.com/garnizeh/gigpay/pkg/repository/mock"
)

func TestLoggingMiddleware_SetsRequestID(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(CtxRequestID) == nil {
			t.Errorf("expected request id in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("OPTIONS", "/contracts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS origin header")
	}

	req = httptest.NewRequest("GET", "/contracts", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected pass-through for GET, got %d", rr.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/jobs/unpaid", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rr.Code)
	}
}

func TestProfileAuthMiddleware(t *testing.T) {
	store := mock.NewStore()
	client := store.AddProfile(models.Profile{FirstName: "Harry", LastName: "Potter", Type: models.ProfileTypeClient})

	var gotProfile *models.Profile
	handler := ProfileAuthMiddleware(store, testJWTSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProfile = ProfileFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	auth := NewAuthHandler(store, testJWTSecret, time.Hour)
	token, err := auth.issueToken(client.ID)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	tests := []struct {
		name       string
		setHeader  func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "no credentials",
			setHeader:  func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed profile header",
			setHeader:  func(r *http.Request) { r.Header.Set(ProfileHeader, "not-a-number") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown profile id",
			setHeader:  func(r *http.Request) { r.Header.Set(ProfileHeader, "9999") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid profile header",
			setHeader:  func(r *http.Request) { r.Header.Set(ProfileHeader, fmt.Sprintf("%d", client.ID)) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			setHeader:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "garbage bearer token",
			setHeader:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotProfile = nil
			req := httptest.NewRequest("GET", "/contracts", nil)
			tc.setHeader(req)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				if gotProfile == nil || gotProfile.ID != client.ID {
					t.Fatalf("expected profile %d in context, got %#v", client.ID, gotProfile)
				}
			}
		})
	}
}
