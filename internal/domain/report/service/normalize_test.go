package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain caption", nil},
		{"ordered with duplicates", "#go day! #fun then #go again", []string{"#go", "#fun", "#go"}},
		{"word chars only", "#tag1, #tag_2! #3", []string{"#tag1", "#tag_2", "#3"}},
		{"bare hash ignored", "# not a tag", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.text))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("shoutout @alice and @bob, thanks @alice")
	assert.Equal(t, []string{"@alice", "@bob", "@alice"}, got)
}

func TestNormalizeInstagramReel(t *testing.T) {
	raw := entity.RawRecord{
		"id":                  "rx1",
		"media_type":          float64(2),
		"product_type":        "clips",
		"taken_at":            float64(1700000000),
		"like_count":          float64(120),
		"comment_count":       float64(14),
		"reshare_count":       float64(3),
		"save_count":          float64(9),
		"play_count":          float64(5000),
		"caption":             map[string]any{"text": "new drop #reel @studio"},
		"is_paid_partnership": true,
		"display_url":         "https://cdn.example/rx1.jpg",
	}

	rec := Normalize(raw, entity.PlatformInstagram)

	assert.Equal(t, entity.KindReel, rec.Kind)
	assert.Equal(t, "rx1", rec.ID)
	assert.Equal(t, int64(1700000000), rec.PostedAt)
	assert.Equal(t, int64(120), rec.LikeCount)
	assert.Equal(t, int64(14), rec.CommentCount)
	assert.Equal(t, int64(3), rec.ShareCount)
	assert.Equal(t, int64(9), rec.SaveCount)
	require.NotNil(t, rec.PlayCount)
	assert.Equal(t, int64(5000), *rec.PlayCount)
	assert.Equal(t, []string{"#reel"}, rec.Hashtags)
	assert.Equal(t, []string{"@studio"}, rec.Mentions)
	assert.True(t, rec.Sponsored)
}

func TestNormalizeInstagramPost(t *testing.T) {
	tests := []struct {
		name string
		raw  entity.RawRecord
	}{
		{
			name: "image media type",
			raw:  entity.RawRecord{"id": "p1", "media_type": float64(1), "play_count": float64(40)},
		},
		{
			name: "video without clips product type",
			raw:  entity.RawRecord{"id": "p2", "media_type": float64(2), "product_type": "feed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(tt.raw, entity.PlatformInstagram)
			assert.Equal(t, entity.KindPost, rec.Kind)
			// a plain post has no play counter, not a zero one
			assert.Nil(t, rec.PlayCount)
		})
	}
}

func TestNormalizeInstagramMissingCountersDefaultZero(t *testing.T) {
	rec := Normalize(entity.RawRecord{"id": "p3", "caption": "hello"}, entity.PlatformInstagram)

	assert.Equal(t, int64(0), rec.LikeCount)
	assert.Equal(t, int64(0), rec.CommentCount)
	assert.Equal(t, int64(0), rec.ShareCount)
	assert.Equal(t, int64(0), rec.SaveCount)
	assert.Equal(t, "hello", rec.Text)
	assert.False(t, rec.Sponsored)
}

func TestNormalizeTweetLegacyShape(t *testing.T) {
	raw := entity.RawRecord{
		"rest_id": "t42",
		"legacy": map[string]any{
			"full_text":      "launch day #ship with @team",
			"created_at":     "Wed Oct 10 20:19:24 +0000 2018",
			"favorite_count": float64(33),
			"reply_count":    float64(4),
			"retweet_count":  float64(6),
			"quote_count":    float64(2),
			"bookmark_count": float64(1),
		},
	}

	rec := Normalize(raw, entity.PlatformTwitter)

	assert.Equal(t, entity.KindTweet, rec.Kind)
	assert.Equal(t, "t42", rec.ID)
	assert.Equal(t, int64(1539202764), rec.PostedAt)
	assert.Equal(t, int64(33), rec.LikeCount)
	assert.Equal(t, int64(4), rec.CommentCount)
	assert.Equal(t, int64(8), rec.ShareCount) // retweets + quotes
	assert.Equal(t, int64(1), rec.SaveCount)
	assert.Equal(t, []string{"#ship"}, rec.Hashtags)
	assert.Nil(t, rec.PlayCount)
}

func TestNormalizeTweetFlatShape(t *testing.T) {
	raw := entity.RawRecord{
		"id_str":         "t7",
		"text":           "short one",
		"favorite_count": float64(5),
	}

	rec := Normalize(raw, entity.PlatformTwitter)

	assert.Equal(t, "t7", rec.ID)
	assert.Equal(t, "short one", rec.Text)
	assert.Equal(t, int64(5), rec.LikeCount)
}

func TestNormalizeVideo(t *testing.T) {
	raw := entity.RawRecord{
		"videoId":      "v9",
		"title":        "Go tutorial #golang",
		"description":  "learn with @gopher",
		"viewCount":    "15000", // rapidapi sends counts as strings
		"likeCount":    "800",
		"commentCount": "55",
		"publishDate":  "2024-03-01",
	}

	rec := Normalize(raw, entity.PlatformYouTube)

	assert.Equal(t, entity.KindVideo, rec.Kind)
	assert.Equal(t, "v9", rec.ID)
	require.NotNil(t, rec.PlayCount)
	assert.Equal(t, int64(15000), *rec.PlayCount)
	assert.Equal(t, int64(800), rec.LikeCount)
	assert.Equal(t, int64(55), rec.CommentCount)
	assert.Equal(t, []string{"#golang"}, rec.Hashtags)
	assert.Equal(t, []string{"@gopher"}, rec.Mentions)
	assert.NotZero(t, rec.PostedAt)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"1700000000", 1700000000},
		{"2023-11-14T22:13:20Z", 1700000000},
		{"not a time", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseTimestamp(tt.in), tt.in)
	}
}
