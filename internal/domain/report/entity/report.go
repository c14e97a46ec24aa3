package entity

import "time"

// Report is the assembled insight document. The top-level section names
// (userMetrics, contentMetrics, qualitativeInsights) and their field names are
// a compatibility contract with the consuming front end and must stay stable.
type Report struct {
	Platform            Platform            `json:"platform"`
	AccountRef          string              `json:"accountRef"`
	GeneratedAt         time.Time           `json:"generatedAt"`
	UserMetrics         UserMetrics         `json:"userMetrics"`
	ContentMetrics      ContentMetrics      `json:"contentMetrics"`
	QualitativeInsights QualitativeInsights `json:"qualitativeInsights"`
}

// UserMetrics describes the account itself plus audience-level derived rates
type UserMetrics struct {
	Username           string  `json:"username"`
	FullName           string  `json:"fullName"`
	Biography          string  `json:"biography"`
	FollowerCount      int64   `json:"followerCount"`
	FollowingCount     int64   `json:"followingCount"`
	MediaCount         int64   `json:"mediaCount"`
	IsVerified         bool    `json:"isVerified"`
	IsBusiness         bool    `json:"isBusiness"`
	Category           string  `json:"category,omitempty"`
	EngagementRate     float64 `json:"engagementRate"`
	GrowthRateEstimate float64 `json:"growthRateEstimate"`
}

// ContentMetrics aggregates the analyzed record set
type ContentMetrics struct {
	ItemsAnalyzed           int              `json:"itemsAnalyzed"`
	Truncated               bool             `json:"truncated"`
	TotalLikes              int64            `json:"totalLikes"`
	TotalComments           int64            `json:"totalComments"`
	TotalShares             int64            `json:"totalShares"`
	TotalPlays              int64            `json:"totalPlays"`
	AverageLikes            float64          `json:"averageLikes"`
	AverageComments         float64          `json:"averageComments"`
	AverageShares           float64          `json:"averageShares"`
	AveragePlays            float64          `json:"averagePlays"`
	LikesStdDev             float64          `json:"likesStdDev"`
	PostingFrequencyPerWeek float64          `json:"postingFrequencyPerWeek"`
	ContentTypeDistribution map[string]int   `json:"contentTypeDistribution"`
	SponsorshipRatio        float64          `json:"sponsorshipRatio"`
	HashtagConsistency      float64          `json:"hashtagConsistency"`
	TopHashtags             []FrequencyEntry `json:"topHashtags"`
	TopMentions             []FrequencyEntry `json:"topMentions"`
	TopPosts                []TopPost        `json:"topPosts"`
}

// QualitativeInsights holds text-derived, classifier-backed observations
type QualitativeInsights struct {
	ContentTone      string           `json:"contentTone"`
	DominantThemes   []string         `json:"dominantThemes"`
	BrandMentions    []FrequencyEntry `json:"brandMentions"`
	KeywordFrequency []FrequencyEntry `json:"keywordFrequency"`
}

// FrequencyEntry is one row of a top-N frequency table
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopPost summarizes one high-engagement record
type TopPost struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	Shares     int64     `json:"shares"`
	Plays      *int64    `json:"plays,omitempty"`
	PostedAt   time.Time `json:"postedAt"`
	Caption    string    `json:"caption,omitempty"`
	Engagement int64     `json:"engagement"`
}
