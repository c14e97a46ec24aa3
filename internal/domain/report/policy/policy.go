package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vadim/neo-insight/internal/cache"
	"github.com/vadim/neo-insight/internal/domain/report/dao"
	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/service"
)

// ReportBuilder runs the fetch-paginate-normalize-aggregate pipeline.
// Interface is defined by consumer (policy), not provider (service).
type ReportBuilder interface {
	BuildReport(ctx context.Context, platform entity.Platform, accountRef string, opts service.Options) (*entity.Report, error)
}

// Archiver stores a completed report durably outside the cache
type Archiver interface {
	ArchiveReport(ctx context.Context, report *entity.Report) (string, error)
}

// Config holds policy tuning
type Config struct {
	CacheTTL        time.Duration
	DefaultMaxItems int
	HistoryLimit    int
}

// Policy orchestrates report use-cases: cache lookups, deduplicated builds,
// write-through caching, and best-effort history/archive persistence.
// A cache or persistence outage never fails a report request.
type Policy struct {
	builder ReportBuilder
	store   cache.Store
	runs    dao.RunRepository // optional
	archive Archiver          // optional
	cfg     Config
	logger  *slog.Logger
	group   singleflight.Group
}

// New creates a new report policy. runs and archive may be nil, which
// disables history and archiving.
func New(builder ReportBuilder, store cache.Store, runs dao.RunRepository, archive Archiver, cfg Config, logger *slog.Logger) *Policy {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.DefaultMaxItems <= 0 {
		cfg.DefaultMaxItems = 100
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	return &Policy{
		builder: builder,
		store:   store,
		runs:    runs,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
	}
}

// BuildReportInput represents input for building a report
type BuildReportInput struct {
	Platform   string
	AccountRef string
	MaxItems   int
	TweetCount int
	// Refresh skips the cache lookup and rebuilds from the provider
	Refresh bool
}

// BuildReportOutput represents the outcome of a report request. Exactly one
// of Report or NoData is meaningful.
type BuildReportOutput struct {
	Report    *entity.Report
	NoData    bool
	Message   string
	FromCache bool
}

// BuildReport returns the insight report for one account, serving from cache
// when possible. Concurrent requests for the same key share one build.
func (p *Policy) BuildReport(ctx context.Context, in BuildReportInput) (*BuildReportOutput, error) {
	platform, err := entity.ParsePlatform(in.Platform)
	if err != nil {
		return nil, err
	}
	accountRef := strings.TrimSpace(in.AccountRef)
	if accountRef == "" {
		return nil, entity.ErrAccountRequired
	}

	key := p.cacheKey(platform, accountRef, in)

	if !in.Refresh {
		var cached entity.Report
		found, err := p.store.Get(ctx, key, &cached)
		if err != nil {
			// cache outage degrades to a miss
			p.logger.Warn("cache get failed, building fresh", "key", key, "error", err)
		} else if found {
			return &BuildReportOutput{Report: &cached, FromCache: true}, nil
		}
	}

	opts := service.Options{
		MaxItems:      in.MaxItems,
		TweetCount:    in.TweetCount,
		EnrichDetails: platform == entity.PlatformYouTube,
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		return p.builder.BuildReport(ctx, platform, accountRef, opts)
	})
	if err != nil {
		if errors.Is(err, entity.ErrNoData) {
			return &BuildReportOutput{
				NoData:  true,
				Message: fmt.Sprintf("no data found for %s account %q", platform, accountRef),
			}, nil
		}
		return nil, err
	}
	report := v.(*entity.Report)

	if err := p.store.Set(ctx, key, report, p.cfg.CacheTTL); err != nil {
		p.logger.Warn("cache set failed", "key", key, "error", err)
	}
	if err := p.store.SetFlat(ctx, p.summaryKey(platform, accountRef), summaryDoc(report), p.cfg.CacheTTL); err != nil {
		p.logger.Warn("summary cache set failed", "error", err)
	}

	p.persistRun(ctx, report)

	return &BuildReportOutput{Report: report}, nil
}

// GetSummary reads the flattened report summary for one account. A cache
// outage reads as a miss.
func (p *Policy) GetSummary(ctx context.Context, platformName, accountRef string) (map[string]any, bool, error) {
	platform, err := entity.ParsePlatform(platformName)
	if err != nil {
		return nil, false, err
	}
	doc, found, err := p.store.GetFlat(ctx, p.summaryKey(platform, accountRef))
	if err != nil {
		p.logger.Warn("summary cache get failed", "error", err)
		return nil, false, nil
	}
	return doc, found, nil
}

// GetHistory lists past report runs for one account, newest first
func (p *Policy) GetHistory(ctx context.Context, platformName, accountRef string) ([]entity.ReportRun, error) {
	platform, err := entity.ParsePlatform(platformName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(accountRef) == "" {
		return nil, entity.ErrAccountRequired
	}
	if p.runs == nil {
		return []entity.ReportRun{}, nil
	}
	return p.runs.ListByAccount(ctx, platform, accountRef, p.cfg.HistoryLimit)
}

// RefreshRecent rebuilds reports for accounts that had a run in the last day,
// keeping their cached reports warm. Used by the refresh scheduler.
func (p *Policy) RefreshRecent(ctx context.Context) error {
	if p.runs == nil {
		return nil
	}
	runs, err := p.runs.ListRecentAccounts(ctx, 24, 50)
	if err != nil {
		return fmt.Errorf("listing recent accounts: %w", err)
	}

	for _, run := range runs {
		_, err := p.BuildReport(ctx, BuildReportInput{
			Platform:   string(run.Platform),
			AccountRef: run.AccountRef,
			Refresh:    true,
		})
		if err != nil {
			p.logger.Warn("refresh failed", "platform", run.Platform, "account", run.AccountRef, "error", err)
		}
	}
	return nil
}

// persistRun records the run and archives the report, concurrently and best
// effort: failures are logged and never fail the request
func (p *Policy) persistRun(ctx context.Context, report *entity.Report) {
	g, gctx := errgroup.WithContext(ctx)

	if p.runs != nil {
		run := &entity.ReportRun{
			ID:             uuid.New().String(),
			Platform:       report.Platform,
			AccountRef:     report.AccountRef,
			FollowerCount:  report.UserMetrics.FollowerCount,
			EngagementRate: report.UserMetrics.EngagementRate,
			ItemsAnalyzed:  report.ContentMetrics.ItemsAnalyzed,
			CreatedAt:      report.GeneratedAt,
		}
		g.Go(func() error {
			return p.runs.Create(gctx, run)
		})
	}
	if p.archive != nil {
		g.Go(func() error {
			_, err := p.archive.ArchiveReport(gctx, report)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("post-build persistence failed", "platform", report.Platform, "account", report.AccountRef, "error", err)
	}
}

// cacheKey is the options fingerprint for one report
func (p *Policy) cacheKey(platform entity.Platform, accountRef string, in BuildReportInput) string {
	maxItems := in.MaxItems
	if platform == entity.PlatformTwitter && in.TweetCount > 0 {
		maxItems = in.TweetCount
	}
	if maxItems <= 0 {
		maxItems = p.cfg.DefaultMaxItems
	}
	return fmt.Sprintf("insight:%s:%s:%d", platform, accountRef, maxItems)
}

func (p *Policy) summaryKey(platform entity.Platform, accountRef string) string {
	return fmt.Sprintf("insight:summary:%s:%s", platform, accountRef)
}

// summaryDoc is the nested document stored in flattened mode so single fields
// can be read without deserializing the whole report
func summaryDoc(report *entity.Report) map[string]any {
	return map[string]any{
		"account": map[string]any{
			"username":  report.UserMetrics.Username,
			"followers": report.UserMetrics.FollowerCount,
			"verified":  report.UserMetrics.IsVerified,
		},
		"metrics": map[string]any{
			"engagementRate":          report.UserMetrics.EngagementRate,
			"growthRateEstimate":      report.UserMetrics.GrowthRateEstimate,
			"postingFrequencyPerWeek": report.ContentMetrics.PostingFrequencyPerWeek,
			"itemsAnalyzed":           report.ContentMetrics.ItemsAnalyzed,
		},
		"generatedAt": report.GeneratedAt.Format(time.RFC3339),
	}
}
