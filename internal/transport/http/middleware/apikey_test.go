package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured []string
		header     string
		wantStatus int
	}{
		// No keys configured → open mode, every request passes.
		{"open mode nil keys", nil, "", http.StatusOK},
		{"open mode empty slice", []string{}, "", http.StatusOK},
		{"open mode blank keys only", []string{"  ", ""}, "", http.StatusOK},

		{"valid key", []string{"urls-admin-k1"}, "urls-admin-k1", http.StatusOK},
		{"second of two keys", []string{"urls-admin-k1", "urls-admin-k2"}, "urls-admin-k2", http.StatusOK},
		{"missing header", []string{"urls-admin-k1"}, "", http.StatusUnauthorized},
		{"wrong key", []string{"urls-admin-k1"}, "urls-reader-k9", http.StatusUnauthorized},
		{"key with padding", []string{"urls-admin-k1"}, "  urls-admin-k1  ", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := APIKeyMiddleware(tt.configured)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/api/urls", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
