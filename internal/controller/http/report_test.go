package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/policy"
)

type stubPolicy struct {
	buildOut *policy.BuildReportOutput
	buildErr error
	buildIn  policy.BuildReportInput

	summary      map[string]any
	summaryFound bool

	runs []entity.ReportRun
}

func (s *stubPolicy) BuildReport(ctx context.Context, in policy.BuildReportInput) (*policy.BuildReportOutput, error) {
	s.buildIn = in
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	return s.buildOut, nil
}

func (s *stubPolicy) GetSummary(ctx context.Context, platform, accountRef string) (map[string]any, bool, error) {
	return s.summary, s.summaryFound, nil
}

func (s *stubPolicy) GetHistory(ctx context.Context, platform, accountRef string) ([]entity.ReportRun, error) {
	return s.runs, nil
}

func newTestRouter(p ReportPolicy) *chi.Mux {
	r := chi.NewRouter()
	NewReportHandler(p).RegisterRoutes(r)
	return r
}

func TestGetReport(t *testing.T) {
	stub := &stubPolicy{
		buildOut: &policy.BuildReportOutput{
			Report: &entity.Report{
				Platform:    entity.PlatformInstagram,
				AccountRef:  "cyber.uz",
				UserMetrics: entity.UserMetrics{Username: "cyber.uz", EngagementRate: 1.7},
			},
		},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/insights/instagram/cyber.uz?maxItems=50&refresh=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	assert.Equal(t, "instagram", stub.buildIn.Platform)
	assert.Equal(t, "cyber.uz", stub.buildIn.AccountRef)
	assert.Equal(t, 50, stub.buildIn.MaxItems)
	assert.True(t, stub.buildIn.Refresh)

	var body struct {
		UserMetrics struct {
			Username       string  `json:"username"`
			EngagementRate float64 `json:"engagementRate"`
		} `json:"userMetrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cyber.uz", body.UserMetrics.Username)
	assert.InDelta(t, 1.7, body.UserMetrics.EngagementRate, 1e-9)
}

func TestGetReportCacheHitHeader(t *testing.T) {
	stub := &stubPolicy{
		buildOut: &policy.BuildReportOutput{
			Report:    &entity.Report{Platform: entity.PlatformInstagram},
			FromCache: true,
		},
	}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/instagram/acct", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestGetReportNoData(t *testing.T) {
	stub := &stubPolicy{
		buildOut: &policy.BuildReportOutput{NoData: true, Message: `no data found for twitter account "ghost"`},
	}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/twitter/ghost", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ghost")
}

func TestGetReportQueryValidation(t *testing.T) {
	router := newTestRouter(&stubPolicy{})

	cases := []struct {
		name string
		url  string
	}{
		{"non-integer maxItems", "/insights/instagram/acct?maxItems=lots"},
		{"maxItems too large", "/insights/instagram/acct?maxItems=9000"},
		{"negative tweetCount", "/insights/twitter/acct?tweetCount=-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetReportErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported platform", entity.ErrUnsupportedPlatform, http.StatusBadRequest},
		{"rate limited", &entity.ProviderError{Platform: entity.PlatformTwitter, Stage: "page", RateLimited: true, Err: context.Canceled}, http.StatusTooManyRequests},
		{"stalled pagination", entity.ErrPaginationStalled, http.StatusBadGateway},
		{"provider failure", &entity.ProviderError{Platform: entity.PlatformInstagram, Stage: "profile", Err: context.Canceled}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubPolicy{buildErr: tc.err})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/instagram/acct", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGetSummary(t *testing.T) {
	stub := &stubPolicy{
		summary:      map[string]any{"metrics": map[string]any{"engagementRate": 1.7}},
		summaryFound: true,
	}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/instagram/acct/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "engagementRate")
}

func TestGetSummaryMiss(t *testing.T) {
	router := newTestRouter(&stubPolicy{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/instagram/acct/summary", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHistory(t *testing.T) {
	stub := &stubPolicy{
		runs: []entity.ReportRun{
			{ID: "r1", Platform: entity.PlatformInstagram, AccountRef: "acct", CreatedAt: time.Now()},
		},
	}
	router := newTestRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/instagram/acct/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Runs []entity.ReportRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, "r1", body.Runs[0].ID)
}
