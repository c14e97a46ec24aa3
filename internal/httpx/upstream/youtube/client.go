// Package youtube is a RapidAPI YouTube client used as the upstream data
// provider for channel insight reports.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://yt-api.p.rapidapi.com"
	defaultTimeout = 30 * time.Second
)

// ErrNotFound signals an explicit empty provider response for the channel
var ErrNotFound = errors.New("youtube channel not found")

// Client is a RapidAPI YouTube client
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCredentials sets the RapidAPI key and host headers
func WithCredentials(apiKey, apiHost string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
		c.apiHost = apiHost
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new YouTube API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error from the upstream API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube API error (status %d): %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the upstream HTTP status code
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// ResolveChannelID resolves a channel URL or handle to its browse ID
// GET /resolve?url={url}
func (c *Client) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	params := url.Values{}
	params.Set("url", channelURL)

	var out struct {
		BrowseID string `json:"browseId"`
	}
	if err := c.get(ctx, "/resolve", params, &out); err != nil {
		return "", err
	}
	if out.BrowseID == "" {
		return "", ErrNotFound
	}
	return out.BrowseID, nil
}

// ChannelInfo is the channel snapshot returned by /channel/about
type ChannelInfo struct {
	ChannelID       string   `json:"channelId"`
	Title           string   `json:"title"`
	ChannelHandle   string   `json:"channelHandle"`
	Description     string   `json:"description"`
	SubscriberCount int64    `json:"subscriberCount,string"`
	VideosCount     int64    `json:"videosCount,string"`
	IsVerified      bool     `json:"isVerified"`
	Keywords        []string `json:"keywords"`
	Country         string   `json:"country,omitempty"`
}

// GetChannelInfo fetches the channel profile
// GET /channel/about?id={channelId}
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*ChannelInfo, error) {
	params := url.Values{}
	params.Set("id", channelID)

	var info ChannelInfo
	if err := c.get(ctx, "/channel/about", params, &info); err != nil {
		return nil, err
	}
	if info.ChannelID == "" {
		return nil, ErrNotFound
	}
	return &info, nil
}

// VideoPage is one page of raw video list records
type VideoPage struct {
	Data         []map[string]any `json:"data"`
	Continuation string           `json:"continuation"`
}

// GetChannelVideos fetches one page of the channel's videos, newest first
// GET /channel/videos?id={channelId}&sort_by=newest&token={cursor}
func (c *Client) GetChannelVideos(ctx context.Context, channelID, cursor string) (*VideoPage, error) {
	params := url.Values{}
	params.Set("id", channelID)
	params.Set("sort_by", "newest")
	if cursor != "" {
		params.Set("token", cursor)
	}

	var page VideoPage
	if err := c.get(ctx, "/channel/videos", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetVideoInfo fetches the full detail record for one video
// GET /video/info?id={videoId}&extend=2
func (c *Client) GetVideoInfo(ctx context.Context, videoID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("id", videoID)
	params.Set("extend", "2")

	var video map[string]any
	if err := c.get(ctx, "/video/info", params, &video); err != nil {
		return nil, err
	}
	if len(video) == 0 {
		return nil, ErrNotFound
	}
	return video, nil
}

// get executes a GET request and decodes the response
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
