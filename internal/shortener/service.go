package shortener

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// Service implements the creation and resolution paths. Generation and
// persistence are not atomic: the service generates a candidate, the
// repository attempts an atomic insert, and a uniqueness violation asks the
// generator for a fresh candidate, bounded by maxAttempts.
type Service struct {
	urls        URLRepository
	gen         CodeGenerator
	maxAttempts int
	now         func() time.Time
}

func NewService(urls URLRepository, gen CodeGenerator, maxAttempts int) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &Service{
		urls:        urls,
		gen:         gen,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (s *Service) CreateURL(ctx context.Context, in CreateURLInput) (*URLRecord, error) {
	normalizedURL, err := validateAndNormalizeURL(in.OriginalURL)
	if err != nil {
		return nil, ErrInvalidURL
	}

	record := &URLRecord{
		OriginalURL: normalizedURL,
		CreatedAt:   s.now().UTC(),
		IsActive:    true,
		CreatorIP:   strings.TrimSpace(in.CreatorIP),
	}

	if custom := strings.TrimSpace(in.CustomCode); custom != "" {
		if err := ValidateCustomCode(custom); err != nil {
			return nil, err
		}
		record.ShortCode = custom
		if err := s.urls.Insert(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	for range s.maxAttempts {
		code, err := s.gen.Generate()
		if err != nil {
			return nil, err
		}
		record.ShortCode = code

		if err := s.urls.Insert(ctx, record); err != nil {
			if errors.Is(err, ErrCodeTaken) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, ErrGenerationExhausted
}

// Resolve returns the active record for a code. Absent and deactivated
// codes yield the same ErrNotFound.
func (s *Service) Resolve(ctx context.Context, code string) (*URLRecord, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}

	return s.urls.FindActiveByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, offset, limit int64) ([]URLRecord, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.urls.List(ctx, offset, limit)
}

func validateAndNormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if strings.TrimSpace(u.Host) == "" {
		return "", ErrInvalidURL
	}

	u.Fragment = ""
	return u.String(), nil
}
