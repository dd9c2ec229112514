package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed bool
		nextCalled  bool
	}{
		{"allowed origin simple request", http.MethodGet, "https://dashboard.example.com", false, http.StatusOK, true, true},
		{"disallowed origin simple request", http.MethodGet, "https://evil.example.com", false, http.StatusOK, false, true},
		{"allowed preflight", http.MethodOptions, "https://dashboard.example.com", true, http.StatusNoContent, true, false},
		{"disallowed preflight", http.MethodOptions, "https://evil.example.com", true, http.StatusNoContent, false, false},
		{"plain options reaches handler", http.MethodOptions, "", false, http.StatusOK, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := CORS([]string{" https://dashboard.example.com/ ", ""}, next)

			req := httptest.NewRequest(tt.method, "http://test/notifications", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.nextCalled, nextCalled)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
				if tt.preflight {
					assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
				}
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
