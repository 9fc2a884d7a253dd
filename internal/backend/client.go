// Package backend talks to the storefront's remote REST API. GET responses
// are kept in a short-lived cache; failed fetches are never cached.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/models"
)

var (
	// ErrNotConfigured is returned by every call when no API origin is set.
	ErrNotConfigured = errors.New("backend URL is not configured")
	// ErrRejected wraps envelopes answered with success=false.
	ErrRejected = errors.New("backend rejected request")
)

const maxBodyBytes = 4 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	log     *zap.Logger
}

// New returns a client for the API at baseURL. c may be nil to disable
// response caching.
func New(baseURL string, timeout time.Duration, c *cache.Cache, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   c,
		log:     log.Named("backend"),
	}
}

type refreshKey struct{}

// WithRefresh marks ctx so GET calls skip the cache and refetch.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func isRefresh(ctx context.Context) bool {
	v, ok := ctx.Value(refreshKey{}).(bool)
	return ok && v
}

func cacheKey(path string) string { return "backend:" + path }

// livePaths carry stock levels and are never served from the cache.
var livePaths = map[string]bool{
	pathProducts: true,
	pathDeals:    true,
}

// fetch GETs path and hands the body to decode. Bodies are cached only
// once decode accepts them. A refresh drops the cached body first so a
// failed retry does not fall back to stale data.
func (c *Client) fetch(ctx context.Context, path string, decode func([]byte) error) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	cacheable := c.cache != nil && !livePaths[path]
	key := cacheKey(path)
	if cacheable {
		if isRefresh(ctx) {
			c.cache.Delete(key)
		} else if body, ok := c.cache.Get(key); ok {
			c.log.Debug("cache hit", zap.String("path", path))
			return decode(body)
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := decode(body); err != nil {
		return err
	}
	if cacheable {
		c.cache.Set(key, body)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug("response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    messageOf(body),
		}
	}
	return body, nil
}

// messageOf pulls a human readable message out of an error body.
func messageOf(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// envelope is the {success, data, message} wrapper most endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// unwrap returns the payload of body, accepting both enveloped and bare
// responses.
func unwrap(path string, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode %s: empty body", path)
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "no message"
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrRejected, msg)
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data, nil
	}
	return trimmed, nil
}

func decodeList[T any](path string, body []byte) ([]T, error) {
	raw, err := unwrap(path, body)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

const (
	pathTestimonials    = "/api/testimonials"
	pathTeams           = "/api/teams"
	pathPublishedBlogs  = "/api/blogs?status=published"
	pathBusinessDetails = "/api/business-details"
	pathContact         = "/api/contact"
	pathProducts        = "/api/product/list"
	pathDeals           = "/api/deal/list"
)

func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	err := c.fetch(ctx, pathTestimonials, func(body []byte) (err error) {
		out, err = decodeList[models.Testimonial](pathTestimonials, body)
		return err
	})
	return out, err
}

func (c *Client) Teams(ctx context.Context) ([]models.TeamMember, error) {
	var out []models.TeamMember
	err := c.fetch(ctx, pathTeams, func(body []byte) (err error) {
		out, err = decodeList[models.TeamMember](pathTeams, body)
		return err
	})
	return out, err
}

// PublishedBlogs lists published posts. Filtering happens client side.
func (c *Client) PublishedBlogs(ctx context.Context) ([]models.BlogPost, error) {
	var out []models.BlogPost
	err := c.fetch(ctx, pathPublishedBlogs, func(body []byte) (err error) {
		out, err = decodeList[models.BlogPost](pathPublishedBlogs, body)
		return err
	})
	return out, err
}

func (c *Client) BusinessDetails(ctx context.Context) (*models.BusinessDetails, error) {
	var details models.BusinessDetails
	err := c.fetch(ctx, pathBusinessDetails, func(body []byte) error {
		raw, err := unwrap(pathBusinessDetails, body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &details); err != nil {
			return fmt.Errorf("decode %s: %w", pathBusinessDetails, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// SubmitContact posts a contact message. Non-2xx answers come back as
// *StatusError.
func (c *Client) SubmitContact(ctx context.Context, msg models.ContactMessage) (*models.ContactResponse, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	body, err := c.do(ctx, http.MethodPost, pathContact, msg)
	if err != nil {
		return nil, err
	}
	var resp models.ContactResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("decode %s: %w", pathContact, err)
		}
	}
	return &resp, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var resp models.ProductListResponse
	err := c.fetch(ctx, pathProducts, func(body []byte) error {
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("decode %s: %w", pathProducts, err)
		}
		if !resp.Success {
			return fmt.Errorf("%s: %w: %s", pathProducts, ErrRejected, resp.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = make([]models.Product, 0)
	}
	return resp.Products, nil
}

func (c *Client) Deals(ctx context.Context) ([]models.Deal, error) {
	var resp models.DealListResponse
	err := c.fetch(ctx, pathDeals, func(body []byte) error {
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("decode %s: %w", pathDeals, err)
		}
		if !resp.Success {
			return fmt.Errorf("%s: %w: %s", pathDeals, ErrRejected, resp.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.Deals == nil {
		resp.Deals = make([]models.Deal, 0)
	}
	return resp.Deals, nil
}
