package service

import (
	"regexp"
	"strconv"
	"time"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// ExtractHashtags returns all #word substrings of text in left-to-right order.
// Duplicates are retained; callers needing uniqueness deduplicate the result.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// ExtractMentions returns all @word substrings of text in left-to-right order
func ExtractMentions(text string) []string {
	return mentionPattern.FindAllString(text, -1)
}

// Normalize maps one raw provider record into its canonical form. It is a
// pure function: no I/O, and well-formed raw input never fails. Missing
// optional counters default to 0; counters with no meaning for the record's
// kind (play count on a plain post) stay absent rather than zero.
func Normalize(raw entity.RawRecord, platform entity.Platform) entity.CanonicalRecord {
	switch platform {
	case entity.PlatformTwitter:
		return normalizeTweet(raw)
	case entity.PlatformYouTube:
		return normalizeVideo(raw)
	default:
		return normalizeInstagram(raw)
	}
}

// normalizeInstagram handles Instagram media records. A record is a reel iff
// its media-type discriminator is the video marker (2) and its product-type
// discriminator is the short-form marker ("clips"); everything else is a post.
func normalizeInstagram(raw entity.RawRecord) entity.CanonicalRecord {
	kind := entity.KindPost
	if rawInt(raw, "media_type") == 2 && rawString(raw, "product_type") == "clips" {
		kind = entity.KindReel
	}

	text := rawString(raw, "caption")
	if captionObj, ok := raw["caption"].(map[string]any); ok {
		text = rawString(captionObj, "text")
	}

	rec := entity.CanonicalRecord{
		Platform:     entity.PlatformInstagram,
		ID:           firstString(raw, "id", "pk", "code"),
		Kind:         kind,
		PostedAt:     rawInt(raw, "taken_at"),
		LikeCount:    rawInt(raw, "like_count"),
		CommentCount: rawInt(raw, "comment_count"),
		ShareCount:   rawInt(raw, "reshare_count"),
		SaveCount:    rawInt(raw, "save_count"),
		Text:         text,
		Hashtags:     ExtractHashtags(text),
		Mentions:     ExtractMentions(text),
		Sponsored:    rawBool(raw, "is_paid_partnership"),
		MediaURL:     firstString(raw, "display_url", "thumbnail_url"),
	}

	if kind == entity.KindReel {
		plays := rawInt(raw, "play_count")
		rec.PlayCount = &plays
	}

	return rec
}

// normalizeTweet handles Twitter records, which nest their counters in a
// legacy object on newer API shapes
func normalizeTweet(raw entity.RawRecord) entity.CanonicalRecord {
	fields := raw
	if legacy, ok := raw["legacy"].(map[string]any); ok {
		fields = legacy
	}

	text := firstString(fields, "full_text", "text")

	return entity.CanonicalRecord{
		Platform:     entity.PlatformTwitter,
		ID:           firstString(raw, "rest_id", "tweet_id", "id_str", "id"),
		Kind:         entity.KindTweet,
		PostedAt:     parseTimestamp(firstString(fields, "created_at", "creation_date")),
		LikeCount:    rawInt(fields, "favorite_count"),
		CommentCount: rawInt(fields, "reply_count"),
		ShareCount:   rawInt(fields, "retweet_count") + rawInt(fields, "quote_count"),
		SaveCount:    rawInt(fields, "bookmark_count"),
		Text:         text,
		Hashtags:     ExtractHashtags(text),
		Mentions:     ExtractMentions(text),
		Sponsored:    rawBool(fields, "is_paid_partnership"),
	}
}

// normalizeVideo handles YouTube video records
func normalizeVideo(raw entity.RawRecord) entity.CanonicalRecord {
	text := rawString(raw, "title")
	if desc := rawString(raw, "description"); desc != "" {
		text += "\n" + desc
	}

	plays := rawInt(raw, "viewCount")

	return entity.CanonicalRecord{
		Platform:     entity.PlatformYouTube,
		ID:           firstString(raw, "videoId", "id"),
		Kind:         entity.KindVideo,
		PostedAt:     parseTimestamp(firstString(raw, "publishDate", "publishedAt")),
		LikeCount:    rawInt(raw, "likeCount"),
		CommentCount: rawInt(raw, "commentCount"),
		PlayCount:    &plays,
		Text:         text,
		Hashtags:     ExtractHashtags(text),
		Mentions:     ExtractMentions(text),
		Sponsored:    rawBool(raw, "isPaidPromotion"),
		MediaURL:     rawString(raw, "thumbnailUrl"),
	}
}

// rawInt coerces a dynamic JSON value to int64, accepting the number and
// string forms providers actually send. Missing or malformed values are 0.
func rawInt(raw map[string]any, key string) int64 {
	switch v := raw[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func rawString(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func rawBool(raw map[string]any, key string) bool {
	b, ok := raw[key].(bool)
	return ok && b
}

// firstString returns the first non-empty string value among keys
func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := rawString(raw, key); s != "" {
			return s
		}
	}
	return ""
}

var timestampLayouts = []string{
	time.RFC3339,
	time.RubyDate, // twitter created_at
	"2006-01-02",
}

// parseTimestamp converts the timestamp formats seen across providers to
// epoch seconds. Numeric strings are treated as epoch values directly.
func parseTimestamp(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}
