package wp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/pressops/wpgate/internal/models"
)

// Config holds the client settings for one WordPress site.
type Config struct {
	// BaseURL points at the REST root, e.g. https://example.com/wp-json/wp/v2
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	// RateLimitRPS caps outbound requests per second; 0 disables the cap.
	RateLimitRPS int
}

// Client talks to the WordPress REST API.
type Client struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a WordPress API client with timeout, retry and
// rate-limit behaviour taken from cfg.
func NewClient(cfg Config) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
		burst = cfg.RateLimitRPS
	}

	return &Client{
		client: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(cfg.RetryWaitTime).
			SetRetryMaxWaitTime(cfg.RetryMaxWaitTime),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// FetchPosts returns posts matching params.
func (c *Client) FetchPosts(ctx context.Context, params Params) ([]models.Post, error) {
	return fetchList[models.Post](ctx, c, "posts", params)
}

// FetchPages returns pages matching params.
func (c *Client) FetchPages(ctx context.Context, params Params) ([]models.Post, error) {
	return fetchList[models.Post](ctx, c, "pages", params)
}

// FetchBySlug looks pages up by slug. WordPress filters collections
// with the slug parameter and answers with a list, which is empty when
// nothing lives at that slug.
func (c *Client) FetchBySlug(ctx context.Context, slug string) ([]models.Post, error) {
	return fetchList[models.Post](ctx, c, "pages", Params{{Key: ParamSlug, Value: slug}})
}

// FetchMedia returns the media item for the given ID.
func (c *Client) FetchMedia(ctx context.Context, id int) (*models.Media, error) {
	items, err := fetchList[models.Media](ctx, c, fmt.Sprintf("media/%d", id), nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrMediaNotFound, id)
	}
	return &items[0], nil
}

// fetchList retrieves path under the REST root and decodes the
// response. WordPress returns arrays for collection endpoints and a
// bare object for item endpoints such as /media/{id}, so a failed
// array decode falls back to decoding a single item.
func fetchList[T any](ctx context.Context, c *Client, path string, params Params) ([]T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if qs := params.Encode(); qs != "" {
		endpoint += "?" + qs
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode(), endpoint)
	}

	var items []T
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		var single T
		if err := json.Unmarshal(resp.Body(), &single); err != nil {
			return nil, fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
		}
		items = []T{single}
	}

	return items, nil
}
