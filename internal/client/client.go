package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Post is a feed post as returned by the API
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Author     Author    `json:"author"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

// Author is the post author summary
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// FeedPage is one page of the feed
type FeedPage struct {
	Posts      []Post  `json:"posts"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// ListParams are the feed query parameters
type ListParams struct {
	Query  string
	Cursor string
	Filter string // "all" or "mine"
	Limit  int
}

// APIError is an error response decoded from the server
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.StatusCode)
}

// Client calls the micro-feed API with a bearer credential
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates an API client for the given server
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListPosts fetches one feed page
func (c *Client) ListPosts(ctx context.Context, params ListParams) (*FeedPage, error) {
	values := url.Values{}
	if params.Query != "" {
		values.Set("query", params.Query)
	}
	if params.Cursor != "" {
		values.Set("cursor", params.Cursor)
	}
	if params.Filter != "" {
		values.Set("filter", params.Filter)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/api/v1/posts"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page FeedPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePost creates a new post
func (c *Client) CreatePost(ctx context.Context, content string) (*Post, error) {
	var post Post
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits an existing post's content
func (c *Client) UpdatePost(ctx context.Context, postID, content string) (*Post, error) {
	var post Post
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/posts/"+postID, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/posts/"+postID, nil, nil)
}

// LikePost likes a post
func (c *Client) LikePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/like", nil, nil)
}

// UnlikePost removes the caller's like from a post
func (c *Client) UnlikePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/posts/"+postID+"/like", nil, nil)
}

// do performs one API call, decoding either the expected response or the
// server's error body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if data, err := io.ReadAll(resp.Body); err == nil {
			_ = json.Unmarshal(data, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
