package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	handler := &SystemHandler{}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handler.HealthHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "gigpay" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestVersionHandler(t *testing.T) {
	handler := &SystemHandler{}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()
	handler.VersionHandler("1.2.3", "2026-01-02T15:04:05Z")(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["version"] != "1.2.3" {
		t.Fatalf("unexpected version: %v", body)
	}
	if body["buildTime"] != "2026-01-02T15:04:05Z" {
		t.Fatalf("unexpected buildTime: %v", body)
	}
}
