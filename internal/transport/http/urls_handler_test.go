package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nexuslabs/nexus-shortener/internal/config"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
)

type stubURLRepo struct {
	inserted []shortener.URLRecord
}

func (s *stubURLRepo) Insert(ctx context.Context, record *shortener.URLRecord) error {
	for _, existing := range s.inserted {
		if existing.ShortCode == record.ShortCode {
			return shortener.ErrCodeTaken
		}
	}
	s.inserted = append(s.inserted, *record)
	return nil
}

func (s *stubURLRepo) FindActiveByCode(ctx context.Context, code string) (*shortener.URLRecord, error) {
	for _, existing := range s.inserted {
		if existing.ShortCode == code && existing.IsActive {
			record := existing
			return &record, nil
		}
	}
	return nil, shortener.ErrNotFound
}

func (s *stubURLRepo) IncrementClicks(ctx context.Context, code string) error { return nil }

func (s *stubURLRepo) List(ctx context.Context, offset, limit int64) ([]shortener.URLRecord, error) {
	return s.inserted, nil
}

type stubCodeGen struct {
	code string
}

func (s stubCodeGen) Generate() (string, error) { return s.code, nil }

func newCreateHandler(repo *stubURLRepo, code string) *URLsHandler {
	cfg := &config.Config{
		Shortener: config.ShortenerConfig{
			BaseURL:        "http://sho.rt",
			RedirectStatus: http.StatusFound,
		},
	}
	svc := shortener.NewService(repo, stubCodeGen{code: code}, 5)
	return NewURLsHandler(cfg, svc, nil, nil)
}

func TestCreateAcceptsOriginalURLBody(t *testing.T) {
	h := newCreateHandler(&stubURLRepo{}, "abc123")

	req := httptest.NewRequest(http.MethodPost, "/shorten",
		strings.NewReader(`{"original_url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Data struct {
			ShortCode   string `json:"short_code"`
			ShortURL    string `json:"short_url"`
			OriginalURL string `json:"original_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.ShortCode != "abc123" {
		t.Errorf("short_code = %q, want abc123", resp.Data.ShortCode)
	}
	if resp.Data.ShortURL != "http://sho.rt/abc123" {
		t.Errorf("short_url = %q", resp.Data.ShortURL)
	}
	if resp.Data.OriginalURL != "https://example.com" {
		t.Errorf("original_url = %q", resp.Data.OriginalURL)
	}
}

func TestCreateAcceptsCustomCode(t *testing.T) {
	repo := &stubURLRepo{}
	h := newCreateHandler(repo, "unused")

	req := httptest.NewRequest(http.MethodPost, "/shorten",
		strings.NewReader(`{"original_url":"https://example.com","custom_code":"promo"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// Same custom code again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/shorten",
		strings.NewReader(`{"original_url":"https://other.example","custom_code":"promo"}`))
	rec = httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate custom code: status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCreateRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing original_url", `{}`},
		{"blank original_url", `{"original_url":"   "}`},
		{"relative url", `{"original_url":"example.com"}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCreateHandler(&stubURLRepo{}, "abc123")

			req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}
