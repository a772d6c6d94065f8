package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nexuslabs/nexus-shortener/internal/config"
	"github.com/nexuslabs/nexus-shortener/internal/constants"
	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/logger"
	appvalidation "github.com/nexuslabs/nexus-shortener/internal/infrastructure/validation"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"github.com/nexuslabs/nexus-shortener/internal/transport/http/middleware"
	"github.com/nexuslabs/nexus-shortener/pkg/httputils"
	"go.uber.org/zap"
)

// defaultAnalyticsWindow is the lookback applied when the analytics query
// carries no explicit range.
const defaultAnalyticsWindow = 30 * 24 * time.Hour

type URLsHandler struct {
	cfg  *config.Config
	svc  *shortener.Service
	agg  *shortener.Aggregator
	sink shortener.ClickSink
}

func NewURLsHandler(cfg *config.Config, svc *shortener.Service, agg *shortener.Aggregator, sink shortener.ClickSink) *URLsHandler {
	return &URLsHandler{
		cfg:  cfg,
		svc:  svc,
		agg:  agg,
		sink: sink,
	}
}

type createURLRequest struct {
	OriginalURL string `json:"original_url" validate:"required,notblank,http_url"`
	CustomCode  string `json:"custom_code,omitempty"`
}

type urlResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClickCount  int64     `json:"click_count"`
	IsActive    bool      `json:"is_active"`
}

func (h *URLsHandler) toResponse(record *shortener.URLRecord) urlResponse {
	return urlResponse{
		ID:          record.ID,
		ShortCode:   record.ShortCode,
		ShortURL:    strings.TrimRight(h.cfg.Shortener.BaseURL, "/") + "/" + record.ShortCode,
		OriginalURL: record.OriginalURL,
		CreatedAt:   record.CreatedAt,
		ClickCount:  record.ClickCount,
		IsActive:    record.IsActive,
	}
}

func (h *URLsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		apiErr := constants.ErrInvalidRequestBody
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				if e.Field() == "original_url" {
					apiErr = constants.ErrInvalidURL
					break
				}
			}
		}
		httputils.WriteAPIError(w, r, apiErr)
		return
	}

	record, err := h.svc.CreateURL(r.Context(), shortener.CreateURLInput{
		OriginalURL: req.OriginalURL,
		CustomCode:  req.CustomCode,
		CreatorIP:   middleware.ClientIP(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL):
			httputils.WriteAPIError(w, r, constants.ErrInvalidURL)
		case errors.Is(err, shortener.ErrInvalidCustomCode):
			httputils.WriteAPIError(w, r, constants.ErrInvalidCustomCode)
		case errors.Is(err, shortener.ErrCodeTaken):
			httputils.WriteAPIError(w, r, constants.ErrCodeTaken)
		case errors.Is(err, shortener.ErrGenerationExhausted):
			logger.Error("short code generation exhausted", zap.Error(err))
			httputils.WriteAPIError(w, r, constants.ErrCodeSpaceExhausted)
		default:
			logger.Error("failed to create short URL", zap.Error(err))
			httputils.WriteAPIError(w, r, constants.ErrInternalError)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessURLCreated, h.toResponse(record))
}

func (h *URLsHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	record, err := h.svc.Resolve(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrNotFound):
			http.NotFound(w, r)
		default:
			logger.Error("failed to resolve short code", zap.Error(err), zap.String("code", code))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	// Recording never delays the redirect; the sink queues or publishes
	// and returns immediately.
	h.sink.Record(record.ShortCode, time.Now().UTC(), shortener.Visit{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	})

	http.Redirect(w, r, record.OriginalURL, h.cfg.Shortener.RedirectStatus)
}

func (h *URLsHandler) Info(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	record, err := h.svc.Resolve(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrNotFound):
			httputils.WriteAPIError(w, r, constants.ErrURLNotFound)
		default:
			logger.Error("failed to fetch short URL", zap.Error(err), zap.String("code", code))
			httputils.WriteAPIError(w, r, constants.ErrInternalError)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessURLFound, h.toResponse(record))
}

type analyticsResponse struct {
	ShortCode string `json:"short_code"`
	From      string `json:"from"`
	To        string `json:"to"`
	*shortener.Summary
}

func (h *URLsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	now := time.Now().UTC()
	since := now.Add(-defaultAnalyticsWindow)
	until := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("invalid from (YYYY-MM-DD)"))
			return
		}
		since = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("invalid to (YYYY-MM-DD)"))
			return
		}
		// Make the "to" day inclusive.
		until = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	summary, err := h.agg.Summarize(r.Context(), code, since, until)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrNotFound):
			httputils.WriteAPIError(w, r, constants.ErrURLNotFound)
		case errors.Is(err, shortener.ErrInvalidRange):
			httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("from must be <= to"))
		default:
			logger.Error("failed to aggregate analytics", zap.Error(err), zap.String("code", code))
			httputils.WriteAPIError(w, r, constants.ErrInternalError)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessAnalyticsFound, analyticsResponse{
		ShortCode: code,
		From:      since.Format(time.DateOnly),
		To:        until.Format(time.DateOnly),
		Summary:   summary,
	})
}

type listURLsResponse struct {
	URLs  []urlResponse `json:"urls"`
	Skip  int64         `json:"skip"`
	Limit int64         `json:"limit"`
}

func (h *URLsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("invalid skip"))
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("invalid limit"))
		return
	}

	records, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		logger.Error("failed to list URLs", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	urls := make([]urlResponse, 0, len(records))
	for i := range records {
		urls = append(urls, h.toResponse(&records[i]))
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessURLsListed, listURLsResponse{
		URLs:  urls,
		Skip:  skip,
		Limit: limit,
	})
}

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}
