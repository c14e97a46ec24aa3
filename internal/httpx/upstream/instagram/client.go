// Package instagram is a RapidAPI Instagram scraper client used as the
// upstream data provider for Instagram insight reports.
package instagram

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
	defaultBaseURL = "https://instagram-scraper-api2.p.rapidapi.com/v1"
	defaultTimeout = 30 * time.Second
)

// ErrNotFound signals an explicit empty provider response for the account
var ErrNotFound = errors.New("instagram account not found")

// Client is a RapidAPI Instagram client
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

// New creates a new Instagram API client
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
	return fmt.Sprintf("instagram API error (status %d): %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the upstream HTTP status code
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// UserInfo is the account snapshot returned by the /info endpoint
type UserInfo struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	Biography      string `json:"biography"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	MediaCount     int64  `json:"media_count"`
	IsVerified     bool   `json:"is_verified"`
	IsBusiness     bool   `json:"is_business"`
	Category       string `json:"category,omitempty"`
	ExternalURL    string `json:"external_url,omitempty"`
	ID             string `json:"id"`
}

// GetUserInfo fetches the account profile
// GET /info?username_or_id_or_url={username}
func (c *Client) GetUserInfo(ctx context.Context, username string) (*UserInfo, error) {
	params := url.Values{}
	params.Set("username_or_id_or_url", username)
	params.Set("include_about", "true")

	var envelope struct {
		Data *UserInfo `json:"data"`
	}
	if err := c.get(ctx, "/info", params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil || envelope.Data.Username == "" {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
}

// MediaPage is one page of raw media records
type MediaPage struct {
	Items           []map[string]any
	PaginationToken string
}

// GetUserMedia fetches one page of the account's posts and reels
// GET /posts?username_or_id_or_url={username}&pagination_token={cursor}
func (c *Client) GetUserMedia(ctx context.Context, username, cursor string) (*MediaPage, error) {
	params := url.Values{}
	params.Set("username_or_id_or_url", username)
	if cursor != "" {
		params.Set("pagination_token", cursor)
	}

	var envelope struct {
		Data struct {
			Items []map[string]any `json:"items"`
		} `json:"data"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := c.get(ctx, "/posts", params, &envelope); err != nil {
		return nil, err
	}

	return &MediaPage{
		Items:           envelope.Data.Items,
		PaginationToken: envelope.PaginationToken,
	}, nil
}

// GetMediaInfo fetches the full detail record for one media item
// GET /media_info?code_or_id_or_url={id}
func (c *Client) GetMediaInfo(ctx context.Context, mediaID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("code_or_id_or_url", mediaID)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := c.get(ctx, "/media_info", params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, ErrNotFound
	}
	return envelope.Data, nil
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
