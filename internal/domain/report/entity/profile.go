package entity

import "strings"

// Platform identifies the social network a profile or record belongs to
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
)

// ParsePlatform parses a platform from its string form
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(s)) {
	case PlatformInstagram:
		return PlatformInstagram, nil
	case PlatformTwitter:
		return PlatformTwitter, nil
	case PlatformYouTube:
		return PlatformYouTube, nil
	default:
		return "", ErrUnsupportedPlatform
	}
}

// Profile is an immutable snapshot of an account, fetched once per report
type Profile struct {
	Platform       Platform `json:"platform"`
	ExternalID     string   `json:"externalId"`
	Username       string   `json:"username"`
	FullName       string   `json:"fullName"`
	Biography      string   `json:"biography"`
	FollowerCount  int64    `json:"followerCount"`
	FollowingCount int64    `json:"followingCount"`
	MediaCount     int64    `json:"mediaCount"`
	IsVerified     bool     `json:"isVerified"`
	IsBusiness     bool     `json:"isBusiness"`
	Category       string   `json:"category,omitempty"`
	Website        string   `json:"website,omitempty"`
	Location       string   `json:"location,omitempty"`
}
