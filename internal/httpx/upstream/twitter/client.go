// Package twitter is a RapidAPI Twitter client used as the upstream data
// provider for Twitter insight reports.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://twitter154.p.rapidapi.com"
	defaultTimeout = 30 * time.Second
)

// ErrNotFound signals an explicit empty provider response for the account
var ErrNotFound = errors.New("twitter account not found")

// Client is a RapidAPI Twitter client
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

// New creates a new Twitter API client
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
	return fmt.Sprintf("twitter API error (status %d): %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the upstream HTTP status code
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// UserDetails is the account snapshot returned by /user/details
type UserDetails struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	NumberOfTweets int64  `json:"number_of_tweets"`
	IsVerified     bool   `json:"is_verified"`
	Location       string `json:"location,omitempty"`
	ExternalURL    string `json:"external_url,omitempty"`
}

// GetUserDetails fetches the account profile
// GET /user/details?username={username}
func (c *Client) GetUserDetails(ctx context.Context, username string) (*UserDetails, error) {
	params := url.Values{}
	params.Set("username", username)

	var details UserDetails
	if err := c.get(ctx, "/user/details", params, &details); err != nil {
		return nil, err
	}
	if details.UserID == "" {
		return nil, ErrNotFound
	}
	return &details, nil
}

// TweetPage is one page of raw tweet records
type TweetPage struct {
	Results           []map[string]any `json:"results"`
	ContinuationToken string           `json:"continuation_token"`
}

// GetUserTweets fetches one page of the account's tweets
// GET /user/tweets?username={username}&limit={limit}&continuation_token={cursor}
func (c *Client) GetUserTweets(ctx context.Context, username string, limit int, cursor string) (*TweetPage, error) {
	params := url.Values{}
	params.Set("username", username)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("continuation_token", cursor)
	}

	var page TweetPage
	if err := c.get(ctx, "/user/tweets", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTweetDetails fetches the full record for one tweet
// GET /tweet/details?tweet_id={id}
func (c *Client) GetTweetDetails(ctx context.Context, tweetID string) (map[string]any, error) {
	params := url.Values{}
	params.Set("tweet_id", tweetID)

	var tweet map[string]any
	if err := c.get(ctx, "/tweet/details", params, &tweet); err != nil {
		return nil, err
	}
	if len(tweet) == 0 {
		return nil, ErrNotFound
	}
	return tweet, nil
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
