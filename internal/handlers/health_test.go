package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Miltondz/one-page-rpg-sub001/internal/services"
	"github.com/Miltondz/one-page-rpg-sub001/internal/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		pingErr         error
		llm             services.LLMService
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
		expectedLLM     string
	}{
		{
			name:            "all healthy",
			llm:             services.NewMockLLMAPI(),
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
			expectedLLM:     "configured",
		},
		{
			name:            "procedural only",
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
			expectedLLM:     "disabled",
		},
		{
			name:            "unhealthy storage",
			pingErr:         errors.New("connection failed"),
			llm:             services.NewMockLLMAPI(),
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
			expectedLLM:     "configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMockStorage()
			if tt.pingErr != nil {
				store.SetPingError(tt.pingErr)
			}
			handler := NewHealthHandler(store, tt.llm, testLogger())

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("expected status %s, got %s", tt.expectedHealth, resp.Status)
			}
			if resp.Service != serviceName {
				t.Errorf("expected service %s, got %s", serviceName, resp.Service)
			}
			if resp.Components["storage"] != tt.expectedStorage {
				t.Errorf("expected storage %s, got %s", tt.expectedStorage, resp.Components["storage"])
			}
			if resp.Components["llm"] != tt.expectedLLM {
				t.Errorf("expected llm %s, got %s", tt.expectedLLM, resp.Components["llm"])
			}
			if resp.Timestamp.IsZero() {
				t.Error("timestamp should be set")
			}
		})
	}
}
