package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

// ProviderClient is the upstream data source for one platform.
// This interface is defined here (consumer) not in the upstream packages
// (providers). The core never talks to the network itself.
type ProviderClient interface {
	GetProfile(ctx context.Context, accountRef string) (*entity.Profile, error)
	GetPage(ctx context.Context, accountRef, cursor string) (*PageResult, error)
	GetDetail(ctx context.Context, itemID string) (entity.RawRecord, error)
}

// statusCoder is implemented by upstream API errors that carry an HTTP status
type statusCoder interface {
	HTTPStatus() int
}

// Options tunes one report build
type Options struct {
	// MaxItems caps how many records are pulled; 0 uses the configured default
	MaxItems int
	// TweetCount overrides MaxItems for twitter accounts; 0 uses MaxItems
	TweetCount int
	// EnrichDetails fetches per-item detail records after pagination
	EnrichDetails bool
}

// Config holds builder tuning shared across requests
type Config struct {
	DefaultMaxItems   int
	DetailConcurrency int
	// EarlyStopFollowers stops YouTube pagination after the first page for
	// channels at or above this subscriber count; 0 disables the early stop
	EarlyStopFollowers int64
}

// Builder runs the fetch-paginate-normalize-aggregate pipeline and assembles
// the final report document
type Builder struct {
	providers map[entity.Platform]ProviderClient
	engine    *Engine
	cfg       Config
	logger    *slog.Logger
}

// NewBuilder creates a report builder over the given per-platform providers
func NewBuilder(providers map[entity.Platform]ProviderClient, engine *Engine, cfg Config, logger *slog.Logger) *Builder {
	if cfg.DefaultMaxItems <= 0 {
		cfg.DefaultMaxItems = 100
	}
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 10
	}
	return &Builder{
		providers: providers,
		engine:    engine,
		cfg:       cfg,
		logger:    logger,
	}
}

// BuildReport produces the full insight report for one account. It fails fast
// on validation problems, surfaces entity.ErrNoData for accounts the provider
// explicitly reports as absent, and otherwise propagates the first
// unrecovered error with platform/stage context attached.
func (b *Builder) BuildReport(ctx context.Context, platform entity.Platform, accountRef string, opts Options) (*entity.Report, error) {
	accountRef = strings.TrimSpace(accountRef)
	if accountRef == "" {
		return nil, entity.ErrAccountRequired
	}
	provider, ok := b.providers[platform]
	if !ok {
		return nil, entity.ErrUnsupportedPlatform
	}

	profile, err := provider.GetProfile(ctx, accountRef)
	if err != nil {
		return nil, wrapProviderError(platform, accountRef, "profile", err)
	}

	result, err := b.paginateRecords(ctx, platform, provider, profile, accountRef, opts)
	if err != nil {
		return nil, err
	}

	raws := result.Items
	if opts.EnrichDetails && len(raws) > 0 {
		raws = b.enrich(ctx, platform, provider, accountRef, raws)
	}

	records := make([]entity.CanonicalRecord, len(raws))
	for i, raw := range raws {
		records[i] = Normalize(raw, platform)
	}

	agg := b.engine.Compute(profile, records)
	content := agg.Content
	content.Truncated = result.Truncated

	return &entity.Report{
		Platform:    platform,
		AccountRef:  accountRef,
		GeneratedAt: time.Now().UTC(),
		UserMetrics: entity.UserMetrics{
			Username:           profile.Username,
			FullName:           profile.FullName,
			Biography:          profile.Biography,
			FollowerCount:      profile.FollowerCount,
			FollowingCount:     profile.FollowingCount,
			MediaCount:         profile.MediaCount,
			IsVerified:         profile.IsVerified,
			IsBusiness:         profile.IsBusiness,
			Category:           profile.Category,
			EngagementRate:     agg.EngagementRate,
			GrowthRateEstimate: agg.GrowthRateEstimate,
		},
		ContentMetrics:      content,
		QualitativeInsights: agg.Qualitative,
	}, nil
}

// paginateRecords drives the paginator with a per-platform stop policy
func (b *Builder) paginateRecords(ctx context.Context, platform entity.Platform, provider ProviderClient, profile *entity.Profile, accountRef string, opts Options) (*PaginateResult, error) {
	maxItems := opts.MaxItems
	if platform == entity.PlatformTwitter && opts.TweetCount > 0 {
		maxItems = opts.TweetCount
	}
	if maxItems <= 0 {
		maxItems = b.cfg.DefaultMaxItems
	}

	policy := StopPolicy{MaxItems: maxItems}
	if platform == entity.PlatformYouTube && b.cfg.EarlyStopFollowers > 0 && profile.FollowerCount >= b.cfg.EarlyStopFollowers {
		// Large channels get one page: averages stabilize quickly there and
		// full pagination is disproportionately expensive.
		policy.EarlyStop = func(accumulated []entity.RawRecord) bool {
			return len(accumulated) > 0
		}
	}

	fetchPage := func(ctx context.Context, cursor string) (*PageResult, error) {
		return provider.GetPage(ctx, accountRef, cursor)
	}

	result, err := Paginate(ctx, fetchPage, policy)
	if err != nil {
		if errors.Is(err, entity.ErrPaginationStalled) {
			return nil, err
		}
		return nil, wrapProviderError(platform, accountRef, "page", err)
	}
	return result, nil
}

// enrich replaces list records with their detail records where the detail
// call succeeded. Per-item failures keep the original list record, so partial
// enrichment never fails the report.
func (b *Builder) enrich(ctx context.Context, platform entity.Platform, provider ProviderClient, accountRef string, raws []entity.RawRecord) []entity.RawRecord {
	ids := make([]string, len(raws))
	for i, raw := range raws {
		ids[i] = firstString(raw, "videoId", "id", "pk")
	}

	detail := func(ctx context.Context, id string) (entity.RawRecord, error) {
		return provider.GetDetail(ctx, id)
	}
	results, err := FetchDetails(ctx, ids, detail, b.cfg.DetailConcurrency)
	if err != nil {
		b.logger.Warn("detail enrichment aborted", "platform", platform, "account", accountRef, "error", err)
		return raws
	}

	enriched := make([]entity.RawRecord, len(raws))
	for i, res := range results {
		if res.Err != nil || res.Value == nil {
			b.logger.Warn("detail fetch failed, using list record", "platform", platform, "id", ids[i], "error", res.Err)
			enriched[i] = raws[i]
			continue
		}
		enriched[i] = res.Value
	}
	return enriched
}

// wrapProviderError attaches platform/stage context to an upstream failure.
// Expected no-data results and context cancellation pass through untouched so
// callers can match on them.
func wrapProviderError(platform entity.Platform, accountRef, stage string, err error) error {
	if errors.Is(err, entity.ErrNoData) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var sc statusCoder
	rateLimited := errors.As(err, &sc) && sc.HTTPStatus() == http.StatusTooManyRequests
	return &entity.ProviderError{
		Platform:    platform,
		AccountRef:  accountRef,
		Stage:       stage,
		RateLimited: rateLimited,
		Err:         err,
	}
}
