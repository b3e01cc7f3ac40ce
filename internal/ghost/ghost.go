package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Post represents a single recipe post from the Ghost API.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	UpdatedAt string `json:"updated_at"`
}

// PostsResponse is the top-level structure of the Ghost API response for posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
	Meta  struct {
		Pagination struct {
			Page  int  `json:"page"`
			Pages int  `json:"pages"`
			Next  *int `json:"next"`
		} `json:"pagination"`
	} `json:"meta"`
}

// Client reads recipe posts from the Content API and publishes posts through the Admin API.
type Client interface {
	FetchRecipes(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	ContentKey string
	// AdminKey is the "id:secret" admin API key. Only CreatePost needs it.
	AdminKey string
	// Tag restricts FetchRecipes to posts carrying this tag slug.
	Tag string
}

type ghostClient struct {
	httpClient *http.Client
	opts       Options
	now        func() time.Time
}

const pageSize = 50

// NewClient creates a new Ghost API client.
func NewClient(opts Options) Client {
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &ghostClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		opts:       opts,
		now:        time.Now,
	}
}

// FetchRecipes fetches every post page by page from the Content API.
func (c *ghostClient) FetchRecipes(ctx context.Context) ([]Post, error) {
	var posts []Post
	for page := 1; ; {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		posts = append(posts, resp.Posts...)

		next := resp.Meta.Pagination.Next
		if next == nil || *next <= page {
			return posts, nil
		}
		page = *next
	}
}

func (c *ghostClient) fetchPage(ctx context.Context, page int) (*PostsResponse, error) {
	q := url.Values{}
	q.Set("key", c.opts.ContentKey)
	q.Set("fields", "id,title,html,updated_at")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	if c.opts.Tag != "" {
		q.Set("filter", "tag:"+c.opts.Tag)
	}
	endpoint := fmt.Sprintf("%s/ghost/api/v3/content/posts/?%s", c.opts.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content api error: status %d", resp.StatusCode)
	}

	var postsResponse PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&postsResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &postsResponse, nil
}

// CreatePost creates a new post using the Ghost Admin API.
func (c *ghostClient) CreatePost(ctx context.Context, title, html string, publish bool) (*Post, error) {
	token, err := c.createAdminToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	status := "draft"
	if publish {
		status = "published"
	}

	post := map[string]any{"title": title, "html": html, "status": status}
	if c.opts.Tag != "" {
		post["tags"] = []string{c.opts.Tag}
	}
	body, err := json.Marshal(map[string]any{"posts": []map[string]any{post}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ghost/api/v3/admin/posts/?source=html", c.opts.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp any
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("admin api error: status %d, body: %v", resp.StatusCode, errResp)
	}

	var response PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}
	return &response.Posts[0], nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *ghostClient) createAdminToken() (string, error) {
	id, secretHex, ok := strings.Cut(c.opts.AdminKey, ":")
	if !ok || id == "" {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/v3/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
