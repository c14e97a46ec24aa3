package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/policy"
	"github.com/vadim/neo-insight/internal/httpx/response"
)

// ReportPolicy defines the interface for insight report operations
// Interface is defined by consumer (handler), not provider (policy)
type ReportPolicy interface {
	BuildReport(ctx context.Context, in policy.BuildReportInput) (*policy.BuildReportOutput, error)
	GetSummary(ctx context.Context, platform, accountRef string) (map[string]any, bool, error)
	GetHistory(ctx context.Context, platform, accountRef string) ([]entity.ReportRun, error)
}

// ReportHandler handles HTTP requests for insight reports
type ReportHandler struct {
	policy ReportPolicy
}

// NewReportHandler creates a new report handler
func NewReportHandler(p ReportPolicy) *ReportHandler {
	return &ReportHandler{policy: p}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/insights/{platform}/{account}", func(r chi.Router) {
		r.Get("/", h.Get())
		r.Get("/summary", h.Summary())
		r.Get("/history", h.History())
	})
}

// Get handles GET /insights/{platform}/{account}
//
// Query parameters:
//
//	maxItems   - cap on records analyzed (1..500)
//	tweetCount - twitter-only override for maxItems
//	refresh    - "true" bypasses the cache
func (h *ReportHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := policy.BuildReportInput{
			Platform:   chi.URLParam(r, "platform"),
			AccountRef: chi.URLParam(r, "account"),
			Refresh:    r.URL.Query().Get("refresh") == "true",
		}

		var err error
		if in.MaxItems, err = queryInt(r, "maxItems"); err != nil {
			response.BadRequest(w, "maxItems must be an integer")
			return
		}
		if in.TweetCount, err = queryInt(r, "tweetCount"); err != nil {
			response.BadRequest(w, "tweetCount must be an integer")
			return
		}
		if in.MaxItems < 0 || in.MaxItems > 500 || in.TweetCount < 0 || in.TweetCount > 500 {
			response.BadRequest(w, "item limits must be between 1 and 500")
			return
		}

		out, err := h.policy.BuildReport(r.Context(), in)
		if err != nil {
			writeReportError(w, err)
			return
		}
		if out.NoData {
			response.NotFound(w, out.Message)
			return
		}

		if out.FromCache {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		response.OK(w, out.Report)
	}
}

// Summary handles GET /insights/{platform}/{account}/summary
func (h *ReportHandler) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		account := chi.URLParam(r, "account")

		doc, found, err := h.policy.GetSummary(r.Context(), platform, account)
		if err != nil {
			writeReportError(w, err)
			return
		}
		if !found {
			response.NotFound(w, "no cached summary, request the full report first")
			return
		}
		response.OK(w, doc)
	}
}

// History handles GET /insights/{platform}/{account}/history
func (h *ReportHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		account := chi.URLParam(r, "account")

		runs, err := h.policy.GetHistory(r.Context(), platform, account)
		if err != nil {
			writeReportError(w, err)
			return
		}
		response.OK(w, map[string]any{"runs": runs})
	}
}

// writeReportError maps domain errors to HTTP status codes
func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrUnsupportedPlatform),
		errors.Is(err, entity.ErrAccountRequired),
		errors.Is(err, entity.ErrInvalidMaxItems):
		response.BadRequest(w, err.Error())
	case entity.IsRateLimited(err):
		response.TooManyRequests(w, "upstream provider rate limit exceeded, retry later")
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(w, "upstream provider timed out")
	case errors.Is(err, entity.ErrPaginationStalled):
		response.BadGateway(w, "upstream provider returned a stalled page cursor")
	default:
		var pe *entity.ProviderError
		if errors.As(err, &pe) {
			response.BadGateway(w, pe.Error())
			return
		}
		response.InternalError(w, "internal error")
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
