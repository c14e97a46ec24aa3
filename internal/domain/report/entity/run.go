package entity

import "time"

// ReportRun records one completed report build for history and trend queries
type ReportRun struct {
	ID             string    `json:"id"`
	Platform       Platform  `json:"platform"`
	AccountRef     string    `json:"accountRef"`
	FollowerCount  int64     `json:"followerCount"`
	EngagementRate float64   `json:"engagementRate"`
	ItemsAnalyzed  int       `json:"itemsAnalyzed"`
	CreatedAt      time.Time `json:"createdAt"`
}
