package service

import (
	"math"
	"sort"
	"time"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

const (
	secondsPerDay = 86400
	topPostCount  = 5
	topTagCount   = 10
)

// Engine computes aggregate and derived statistics from canonical records and
// a profile snapshot. Every division is guarded: a zero denominator (empty
// record set, zero followers, zero total) yields 0, never NaN or Inf.
type Engine struct {
	growthWindow int
	tone         Classifier
	theme        Classifier
}

// NewEngine creates a metrics engine. growthWindow is the number of records
// per side of the growth-rate comparison; classifiers label record text for
// the qualitative section.
func NewEngine(growthWindow int, tone, theme Classifier) *Engine {
	if growthWindow <= 0 {
		growthWindow = 10
	}
	return &Engine{growthWindow: growthWindow, tone: tone, theme: theme}
}

// Aggregate is the full statistical summary of one record set
type Aggregate struct {
	Content            entity.ContentMetrics
	Qualitative        entity.QualitativeInsights
	EngagementRate     float64
	GrowthRateEstimate float64
}

// Compute folds over an immutable record sequence and the profile to produce
// all derived statistics
func (e *Engine) Compute(profile *entity.Profile, records []entity.CanonicalRecord) *Aggregate {
	count := len(records)

	var totalLikes, totalComments, totalShares, totalPlays int64
	var sponsored int
	likeValues := make([]float64, 0, count)
	distribution := make(map[string]int, 3)
	var hashtags, mentions, brandMentions []string

	for i := range records {
		r := &records[i]
		totalLikes += r.LikeCount
		totalComments += r.CommentCount
		totalShares += r.ShareCount
		if r.PlayCount != nil {
			totalPlays += *r.PlayCount
		}
		likeValues = append(likeValues, float64(r.LikeCount))
		distribution[string(r.Kind)]++
		hashtags = append(hashtags, r.Hashtags...)
		mentions = append(mentions, r.Mentions...)
		if r.Sponsored {
			sponsored++
			brandMentions = append(brandMentions, r.Mentions...)
		}
	}

	avgLikes := safeDiv(float64(totalLikes), float64(count))
	avgComments := safeDiv(float64(totalComments), float64(count))
	avgShares := safeDiv(float64(totalShares), float64(count))

	content := entity.ContentMetrics{
		ItemsAnalyzed:           count,
		TotalLikes:              totalLikes,
		TotalComments:           totalComments,
		TotalShares:             totalShares,
		TotalPlays:              totalPlays,
		AverageLikes:            avgLikes,
		AverageComments:         avgComments,
		AverageShares:           avgShares,
		AveragePlays:            safeDiv(float64(totalPlays), float64(count)),
		LikesStdDev:             StdDev(likeValues),
		PostingFrequencyPerWeek: postingFrequencyPerWeek(records),
		ContentTypeDistribution: distribution,
		SponsorshipRatio:        safeDiv(float64(sponsored), float64(count)),
		HashtagConsistency:      hashtagConsistency(hashtags),
		TopHashtags:             TopN(hashtags, topTagCount),
		TopMentions:             TopN(mentions, topTagCount),
		TopPosts:                topPosts(records, topPostCount),
	}

	return &Aggregate{
		Content:            content,
		Qualitative:        e.qualitative(records, brandMentions),
		EngagementRate:     engagementRate(avgLikes, avgComments, avgShares, profile.FollowerCount),
		GrowthRateEstimate: e.growthRate(records),
	}
}

// engagementRate is interaction volume per follower, as a percentage
func engagementRate(avgLikes, avgComments, avgShares float64, followers int64) float64 {
	return 100 * safeDiv(avgLikes+avgComments+avgShares, float64(followers))
}

// postingFrequencyPerWeek estimates cadence over the record span. A span of
// zero days is clamped to one so a same-day burst does not read as an
// infinite rate.
func postingFrequencyPerWeek(records []entity.CanonicalRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	minTS, maxTS := records[0].PostedAt, records[0].PostedAt
	for _, r := range records[1:] {
		if r.PostedAt < minTS {
			minTS = r.PostedAt
		}
		if r.PostedAt > maxTS {
			maxTS = r.PostedAt
		}
	}
	spanDays := float64(maxTS-minTS) / secondsPerDay
	return 7 * float64(len(records)) / math.Max(1, spanDays)
}

// growthRate compares the average play/like volume of the most recent window
// against the oldest window. With fewer than two full windows, whatever is
// available is split with at least one record per side. An older average of
// zero yields 0.
func (e *Engine) growthRate(records []entity.CanonicalRecord) float64 {
	if len(records) < 2 {
		return 0
	}

	sorted := make([]entity.CanonicalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PostedAt > sorted[j].PostedAt
	})

	k := e.growthWindow
	if len(sorted) < 2*k {
		k = len(sorted) / 2
		if k < 1 {
			k = 1
		}
	}

	recentAvg := averageCounter(sorted[:k])
	olderAvg := averageCounter(sorted[len(sorted)-k:])
	if olderAvg == 0 {
		return 0
	}
	return 100 * (recentAvg - olderAvg) / olderAvg
}

// averageCounter averages plays where present, falling back to likes for
// records that have no play counter
func averageCounter(records []entity.CanonicalRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum int64
	for i := range records {
		if records[i].PlayCount != nil {
			sum += *records[i].PlayCount
		} else {
			sum += records[i].LikeCount
		}
	}
	return float64(sum) / float64(len(records))
}

// hashtagConsistency is the distinct-to-total hashtag occurrence ratio
func hashtagConsistency(hashtags []string) float64 {
	if len(hashtags) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(hashtags))
	for _, h := range hashtags {
		distinct[h] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(hashtags))
}

// TopN ranks items by occurrence count, descending. Ties break on first
// occurrence in the input, so the result is deterministic for a given order.
func TopN(items []string, n int) []entity.FrequencyEntry {
	counts := make(map[string]int, len(items))
	firstIndex := make(map[string]int, len(items))
	for i, item := range items {
		if _, seen := counts[item]; !seen {
			firstIndex[item] = i
		}
		counts[item]++
	}

	entries := make([]entity.FrequencyEntry, 0, len(counts))
	for item, count := range counts {
		entries = append(entries, entity.FrequencyEntry{Value: item, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return firstIndex[entries[i].Value] < firstIndex[entries[j].Value]
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// topPosts picks the n highest-engagement records, ties keeping input order
func topPosts(records []entity.CanonicalRecord, n int) []entity.TopPost {
	sorted := make([]entity.CanonicalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement() > sorted[j].Engagement()
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	posts := make([]entity.TopPost, len(sorted))
	for i := range sorted {
		r := &sorted[i]
		posts[i] = entity.TopPost{
			ID:         r.ID,
			Kind:       string(r.Kind),
			Likes:      r.LikeCount,
			Comments:   r.CommentCount,
			Shares:     r.ShareCount,
			Plays:      r.PlayCount,
			PostedAt:   time.Unix(r.PostedAt, 0).UTC(),
			Caption:    truncate(r.Text, 120),
			Engagement: r.Engagement(),
		}
	}
	return posts
}

// StdDev is the population standard deviation: sum of squared deviations
// divided by N, not N-1
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// safeDiv divides, returning 0 for a zero denominator
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
