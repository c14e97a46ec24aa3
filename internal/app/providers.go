package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/service"
	"github.com/vadim/neo-insight/internal/httpx/upstream/instagram"
	"github.com/vadim/neo-insight/internal/httpx/upstream/twitter"
	"github.com/vadim/neo-insight/internal/httpx/upstream/youtube"
)

// instagramProviderAdapter adapts instagram.Client to service.ProviderClient
type instagramProviderAdapter struct {
	client *instagram.Client
}

func (a *instagramProviderAdapter) GetProfile(ctx context.Context, accountRef string) (*entity.Profile, error) {
	info, err := a.client.GetUserInfo(ctx, accountRef)
	if err != nil {
		if errors.Is(err, instagram.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &entity.Profile{
		Platform:       entity.PlatformInstagram,
		ExternalID:     info.ID,
		Username:       info.Username,
		FullName:       info.FullName,
		Biography:      info.Biography,
		FollowerCount:  info.FollowerCount,
		FollowingCount: info.FollowingCount,
		MediaCount:     info.MediaCount,
		IsVerified:     info.IsVerified,
		IsBusiness:     info.IsBusiness,
		Category:       info.Category,
		Website:        info.ExternalURL,
	}, nil
}

func (a *instagramProviderAdapter) GetPage(ctx context.Context, accountRef, cursor string) (*service.PageResult, error) {
	page, err := a.client.GetUserMedia(ctx, accountRef, cursor)
	if err != nil {
		if errors.Is(err, instagram.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &service.PageResult{
		Items:      toRawRecords(page.Items),
		NextCursor: page.PaginationToken,
	}, nil
}

func (a *instagramProviderAdapter) GetDetail(ctx context.Context, itemID string) (entity.RawRecord, error) {
	detail, err := a.client.GetMediaInfo(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return entity.RawRecord(detail), nil
}

// twitterProviderAdapter adapts twitter.Client to service.ProviderClient
type twitterProviderAdapter struct {
	client *twitter.Client
}

func (a *twitterProviderAdapter) GetProfile(ctx context.Context, accountRef string) (*entity.Profile, error) {
	details, err := a.client.GetUserDetails(ctx, accountRef)
	if err != nil {
		if errors.Is(err, twitter.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &entity.Profile{
		Platform:       entity.PlatformTwitter,
		ExternalID:     details.UserID,
		Username:       details.Username,
		FullName:       details.Name,
		Biography:      details.Description,
		FollowerCount:  details.FollowerCount,
		FollowingCount: details.FollowingCount,
		MediaCount:     details.NumberOfTweets,
		IsVerified:     details.IsVerified,
		Website:        details.ExternalURL,
		Location:       details.Location,
	}, nil
}

func (a *twitterProviderAdapter) GetPage(ctx context.Context, accountRef, cursor string) (*service.PageResult, error) {
	page, err := a.client.GetUserTweets(ctx, accountRef, 0, cursor)
	if err != nil {
		if errors.Is(err, twitter.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &service.PageResult{
		Items:      toRawRecords(page.Results),
		NextCursor: page.ContinuationToken,
	}, nil
}

func (a *twitterProviderAdapter) GetDetail(ctx context.Context, itemID string) (entity.RawRecord, error) {
	detail, err := a.client.GetTweetDetails(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return entity.RawRecord(detail), nil
}

// youtubeProviderAdapter adapts youtube.Client to service.ProviderClient.
// Channel handles resolve to browse IDs once and are memoized, so the
// profile, page, and detail calls of one build share a single resolve.
type youtubeProviderAdapter struct {
	client *youtube.Client

	mu  sync.Mutex
	ids map[string]string // accountRef -> channel ID
}

func newYouTubeProviderAdapter(client *youtube.Client) *youtubeProviderAdapter {
	return &youtubeProviderAdapter{
		client: client,
		ids:    make(map[string]string),
	}
}

// resolveID maps a channel reference (handle, URL, or raw UC... ID) to the
// channel's browse ID
func (a *youtubeProviderAdapter) resolveID(ctx context.Context, accountRef string) (string, error) {
	if strings.HasPrefix(accountRef, "UC") && !strings.Contains(accountRef, "/") {
		return accountRef, nil
	}

	a.mu.Lock()
	id, ok := a.ids[accountRef]
	a.mu.Unlock()
	if ok {
		return id, nil
	}

	channelURL := accountRef
	if !strings.Contains(channelURL, "youtube.com") {
		handle := strings.TrimPrefix(accountRef, "@")
		channelURL = "https://www.youtube.com/@" + handle
	}

	id, err := a.client.ResolveChannelID(ctx, channelURL)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.ids[accountRef] = id
	a.mu.Unlock()
	return id, nil
}

func (a *youtubeProviderAdapter) GetProfile(ctx context.Context, accountRef string) (*entity.Profile, error) {
	channelID, err := a.resolveID(ctx, accountRef)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}

	info, err := a.client.GetChannelInfo(ctx, channelID)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &entity.Profile{
		Platform:      entity.PlatformYouTube,
		ExternalID:    info.ChannelID,
		Username:      strings.TrimPrefix(info.ChannelHandle, "@"),
		FullName:      info.Title,
		Biography:     info.Description,
		FollowerCount: info.SubscriberCount,
		MediaCount:    info.VideosCount,
		IsVerified:    info.IsVerified,
		Location:      info.Country,
	}, nil
}

func (a *youtubeProviderAdapter) GetPage(ctx context.Context, accountRef, cursor string) (*service.PageResult, error) {
	channelID, err := a.resolveID(ctx, accountRef)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}

	page, err := a.client.GetChannelVideos(ctx, channelID, cursor)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, entity.ErrNoData
		}
		return nil, err
	}
	return &service.PageResult{
		Items:      toRawRecords(page.Data),
		NextCursor: page.Continuation,
	}, nil
}

func (a *youtubeProviderAdapter) GetDetail(ctx context.Context, itemID string) (entity.RawRecord, error) {
	video, err := a.client.GetVideoInfo(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return entity.RawRecord(video), nil
}

func toRawRecords(items []map[string]any) []entity.RawRecord {
	records := make([]entity.RawRecord, len(items))
	for i, item := range items {
		records[i] = entity.RawRecord(item)
	}
	return records
}
