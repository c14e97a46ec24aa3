package entity

// RecordKind enumerates the content kinds per platform:
// instagram {post, reel}, twitter {tweet}, youtube {video}
type RecordKind string

const (
	KindPost  RecordKind = "post"
	KindReel  RecordKind = "reel"
	KindTweet RecordKind = "tweet"
	KindVideo RecordKind = "video"
)

// RawRecord is one raw provider record as decoded from the upstream JSON.
// Providers disagree on shape, so normalization works on the dynamic form.
type RawRecord map[string]any

// CanonicalRecord is the platform-agnostic form of one post/tweet/video.
// Once constructed it is never mutated; metrics fold over a sequence of these.
type CanonicalRecord struct {
	Platform     Platform   `json:"platform"`
	ID           string     `json:"id"`
	Kind         RecordKind `json:"kind"`
	PostedAt     int64      `json:"postedAt"` // epoch seconds
	LikeCount    int64      `json:"likeCount"`
	CommentCount int64      `json:"commentCount"`
	ShareCount   int64      `json:"shareCount"`
	SaveCount    int64      `json:"saveCount"`
	// PlayCount is set only for reel/video kinds. A plain post has no play
	// count at all, which is not the same thing as zero plays.
	PlayCount *int64   `json:"playCount,omitempty"`
	Text      string   `json:"text"`
	Hashtags  []string `json:"hashtags"`
	Mentions  []string `json:"mentions"`
	Sponsored bool     `json:"sponsored"`
	MediaURL  string   `json:"mediaUrl,omitempty"`
}

// Engagement returns the record's total interaction volume
func (r *CanonicalRecord) Engagement() int64 {
	return r.LikeCount + r.CommentCount + r.ShareCount
}
