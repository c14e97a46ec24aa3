package policy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-insight/internal/cache"
	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/service"
)

// stubBuilder counts builds and returns a canned report or error
type stubBuilder struct {
	report *entity.Report
	err    error
	calls  int
}

func (b *stubBuilder) BuildReport(ctx context.Context, platform entity.Platform, accountRef string, opts service.Options) (*entity.Report, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.report, nil
}

// brokenStore simulates a cache outage on every operation
type brokenStore struct{}

func (brokenStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return errors.New("redis connection refused")
}

func (brokenStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, errors.New("redis connection refused")
}

func (brokenStore) SetFlat(ctx context.Context, key string, doc map[string]any, ttl time.Duration) error {
	return errors.New("redis connection refused")
}

func (brokenStore) GetFlat(ctx context.Context, key string) (map[string]any, bool, error) {
	return nil, false, errors.New("redis connection refused")
}

func (brokenStore) Delete(ctx context.Context, key string) error {
	return errors.New("redis connection refused")
}

func (brokenStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("redis connection refused")
}

func (brokenStore) Ping(ctx context.Context) error {
	return errors.New("redis connection refused")
}

func sampleReport() *entity.Report {
	return &entity.Report{
		Platform:    entity.PlatformInstagram,
		AccountRef:  "cyber.uz",
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		UserMetrics: entity.UserMetrics{
			Username:       "cyber.uz",
			FollowerCount:  1000,
			EngagementRate: 1.7,
		},
		ContentMetrics: entity.ContentMetrics{ItemsAnalyzed: 2},
	}
}

func newTestPolicy(builder ReportBuilder, store cache.Store) *Policy {
	return New(builder, store, nil, nil, Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuildReportCachesAndServesFromCache(t *testing.T) {
	builder := &stubBuilder{report: sampleReport()}
	p := newTestPolicy(builder, cache.NewMemory())

	in := BuildReportInput{Platform: "instagram", AccountRef: "cyber.uz"}

	out, err := p.BuildReport(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.FromCache)
	assert.Equal(t, "cyber.uz", out.Report.UserMetrics.Username)
	assert.Equal(t, 1, builder.calls)

	out, err = p.BuildReport(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.FromCache)
	assert.Equal(t, 1, builder.calls, "second request must hit the cache")
}

func TestBuildReportRefreshBypassesCache(t *testing.T) {
	builder := &stubBuilder{report: sampleReport()}
	p := newTestPolicy(builder, cache.NewMemory())

	in := BuildReportInput{Platform: "instagram", AccountRef: "cyber.uz"}
	_, err := p.BuildReport(context.Background(), in)
	require.NoError(t, err)

	in.Refresh = true
	out, err := p.BuildReport(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.FromCache)
	assert.Equal(t, 2, builder.calls)
}

func TestBuildReportCacheOutageDegradesToMiss(t *testing.T) {
	builder := &stubBuilder{report: sampleReport()}
	p := newTestPolicy(builder, brokenStore{})

	out, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "instagram", AccountRef: "cyber.uz"})
	require.NoError(t, err, "a cache outage must never fail a report request")
	assert.False(t, out.FromCache)
	assert.Equal(t, "cyber.uz", out.Report.UserMetrics.Username)
	assert.Equal(t, 1, builder.calls)
}

func TestBuildReportNoDataResult(t *testing.T) {
	builder := &stubBuilder{err: fmt.Errorf("profile: %w", entity.ErrNoData)}
	p := newTestPolicy(builder, cache.NewMemory())

	out, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "twitter", AccountRef: "ghost"})
	require.NoError(t, err)
	assert.True(t, out.NoData)
	assert.Contains(t, out.Message, "ghost")
	assert.Nil(t, out.Report)
}

func TestBuildReportValidation(t *testing.T) {
	p := newTestPolicy(&stubBuilder{}, cache.NewMemory())

	t.Run("bad platform", func(t *testing.T) {
		_, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "friendster", AccountRef: "x"})
		assert.ErrorIs(t, err, entity.ErrUnsupportedPlatform)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "instagram"})
		assert.ErrorIs(t, err, entity.ErrAccountRequired)
	})
}

func TestBuildReportPropagatesBuildError(t *testing.T) {
	boom := &entity.ProviderError{Platform: entity.PlatformInstagram, Stage: "page", Err: errors.New("upstream 500")}
	p := newTestPolicy(&stubBuilder{err: boom}, cache.NewMemory())

	_, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "instagram", AccountRef: "x"})
	var pe *entity.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestCacheKeyFingerprint(t *testing.T) {
	p := newTestPolicy(&stubBuilder{}, cache.NewMemory())

	base := p.cacheKey(entity.PlatformInstagram, "acct", BuildReportInput{})
	withMax := p.cacheKey(entity.PlatformInstagram, "acct", BuildReportInput{MaxItems: 50})
	tweets := p.cacheKey(entity.PlatformTwitter, "acct", BuildReportInput{MaxItems: 50, TweetCount: 20})

	assert.Equal(t, "insight:instagram:acct:100", base)
	assert.Equal(t, "insight:instagram:acct:50", withMax)
	assert.Equal(t, "insight:twitter:acct:20", tweets)
	assert.NotEqual(t, base, withMax)
}

func TestGetSummaryRoundTrip(t *testing.T) {
	builder := &stubBuilder{report: sampleReport()}
	p := newTestPolicy(builder, cache.NewMemory())

	_, err := p.BuildReport(context.Background(), BuildReportInput{Platform: "instagram", AccountRef: "cyber.uz"})
	require.NoError(t, err)

	doc, found, err := p.GetSummary(context.Background(), "instagram", "cyber.uz")
	require.NoError(t, err)
	require.True(t, found)

	account, ok := doc["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cyber.uz", account["username"])
}

func TestGetSummaryCacheOutageReadsAsMiss(t *testing.T) {
	p := newTestPolicy(&stubBuilder{}, brokenStore{})

	_, found, err := p.GetSummary(context.Background(), "instagram", "cyber.uz")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetHistoryWithoutRepository(t *testing.T) {
	p := newTestPolicy(&stubBuilder{}, cache.NewMemory())

	runs, err := p.GetHistory(context.Background(), "instagram", "cyber.uz")
	require.NoError(t, err)
	assert.Empty(t, runs)
}
