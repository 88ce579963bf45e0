// Package client is a Go client for the city announcements API.
// It caches GET responses between calls and invalidates its cache on
// mutations and on announcement:created push events, so repeated reads
// do not hammer the server.
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
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Category mirrors the API's category representation.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Announcement mirrors the API's announcement representation.
type Announcement struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	PublicationDate time.Time  `json:"publicationDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Categories      []Category `json:"categories"`
}

// CreateAnnouncementInput is the request body for CreateAnnouncement.
type CreateAnnouncementInput struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	PublicationDate string  `json:"publicationDate"`
	CategoryIDs     []int64 `json:"categoryIds"`
}

// UpdateAnnouncementInput is the request body for UpdateAnnouncement.
// Nil fields are omitted from the request and left unchanged server-side.
type UpdateAnnouncementInput struct {
	Title           *string `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	PublicationDate *string `json:"publicationDate,omitempty"`
	CategoryIDs     []int64 `json:"categoryIds,omitempty"`
}

// ListOptions filters ListAnnouncements. Zero values mean no filter.
type ListOptions struct {
	Search     string
	CategoryID int64
}

func (o ListOptions) cacheKey() string {
	return "search=" + o.Search + "&category=" + strconv.FormatInt(o.CategoryID, 10)
}

// APIError is returned when the server responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the announcements API. Create one with New and share it;
// it is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		cache:   NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAnnouncements returns announcements matching opts, newest first.
// Results are cached per filter combination until the next mutation or
// push event.
func (c *Client) ListAnnouncements(ctx context.Context, opts ListOptions) ([]Announcement, error) {
	key := opts.cacheKey()
	if anns, ok := c.cache.List(key); ok {
		return anns, nil
	}

	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.CategoryID > 0 {
		q.Set("category", strconv.FormatInt(opts.CategoryID, 10))
	}
	path := "/announcements"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var anns []Announcement
	if err := c.do(ctx, http.MethodGet, path, nil, &anns); err != nil {
		return nil, err
	}
	c.cache.SetList(key, anns)
	return anns, nil
}

// GetAnnouncement returns a single announcement by ID.
func (c *Client) GetAnnouncement(ctx context.Context, id int64) (*Announcement, error) {
	if a, ok := c.cache.Detail(id); ok {
		return &a, nil
	}
	var a Announcement
	if err := c.do(ctx, http.MethodGet, "/announcements/"+strconv.FormatInt(id, 10), nil, &a); err != nil {
		return nil, err
	}
	c.cache.SetDetail(a)
	return &a, nil
}

// CreateAnnouncement creates an announcement and returns the stored record.
func (c *Client) CreateAnnouncement(ctx context.Context, in CreateAnnouncementInput) (*Announcement, error) {
	var a Announcement
	if err := c.do(ctx, http.MethodPost, "/announcements", in, &a); err != nil {
		return nil, err
	}
	c.cache.InvalidateLists()
	c.cache.SetDetail(a)
	return &a, nil
}

// UpdateAnnouncement applies a partial update and returns the updated record.
func (c *Client) UpdateAnnouncement(ctx context.Context, id int64, in UpdateAnnouncementInput) (*Announcement, error) {
	var a Announcement
	if err := c.do(ctx, http.MethodPatch, "/announcements/"+strconv.FormatInt(id, 10), in, &a); err != nil {
		return nil, err
	}
	c.cache.InvalidateLists()
	c.cache.SetDetail(a)
	return &a, nil
}

// DeleteAnnouncement deletes an announcement and returns the deleted record.
func (c *Client) DeleteAnnouncement(ctx context.Context, id int64) (*Announcement, error) {
	var a Announcement
	if err := c.do(ctx, http.MethodDelete, "/announcements/"+strconv.FormatInt(id, 10), nil, &a); err != nil {
		return nil, err
	}
	c.cache.InvalidateLists()
	c.cache.InvalidateDetail(id)
	return &a, nil
}

// ListCategories returns all categories. The result is cached for a few
// minutes since categories rarely change.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	if cats, ok := c.cache.Categories(); ok {
		return cats, nil
	}
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	c.cache.SetCategories(cats)
	return cats, nil
}

// Warm pre-fills the cache with the unfiltered announcement list and the
// category list, fetching both concurrently.
func (c *Client) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := c.ListAnnouncements(ctx, ListOptions{})
		return err
	})
	g.Go(func() error {
		_, err := c.ListCategories(ctx)
		return err
	})
	return g.Wait()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return "unreadable error body"
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
