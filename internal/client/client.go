// Package client talks to the recommendation backend's two endpoints,
// GET /cuisines and POST /recommend.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dineout-frontend/internal/metrics"
	"dineout-frontend/internal/model"
	"dineout-frontend/internal/utils"

	"github.com/bytedance/sonic"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	cuisinesPath  = "/cuisines"
	recommendPath = "/recommend"
	cuisinesKey   = "cuisines"
)

// Backend is what the form controller needs from the recommendation service.
type Backend interface {
	Cuisines(ctx context.Context) ([]string, error)
	Recommend(ctx context.Context, sel model.FilterSelection) ([]model.Restaurant, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCuisineCache keeps a successful cuisine list for ttl. Failures are
// never cached. A non-positive ttl disables caching.
func WithCuisineCache(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cache = gocache.New(ttl, 2*ttl)
		}
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    utils.NewHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cuisines fetches the list of valid cuisine names in server order.
func (c *Client) Cuisines(ctx context.Context) (cuisines []string, err error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(cuisinesKey); ok {
			return append([]string(nil), v.([]string)...), nil
		}
	}

	start := time.Now()
	defer func() { metrics.ObserveBackend("cuisines", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cuisinesPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build cuisines request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithMessagef(ErrTransport, "GET %s: %v", cuisinesPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessagef(ErrTransport, "GET %s: read body: %v", cuisinesPath, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, errors.WithMessagef(ErrTransport, "GET %s: network response was not ok %s", cuisinesPath, resp.Status)
	}

	var list *[]string
	if err := sonic.ConfigStd.Unmarshal(body, &list); err != nil {
		return nil, errors.WithMessagef(ErrTransport, "GET %s: decode body: %v", cuisinesPath, err)
	}
	if list == nil {
		return nil, errors.WithMessagef(ErrTransport, "GET %s: body is not an array", cuisinesPath)
	}
	cuisines = *list

	if c.cache != nil {
		c.cache.SetDefault(cuisinesKey, append([]string(nil), cuisines...))
	}
	return cuisines, nil
}

// Recommend posts sel once. A nil slice with a nil error means the backend
// found nothing. A null entry inside the array is a malformed body.
func (c *Client) Recommend(ctx context.Context, sel model.FilterSelection) (restaurants []model.Restaurant, err error) {
	start := time.Now()
	defer func() { metrics.ObserveBackend("recommend", start, err) }()

	payload, err := sonic.ConfigStd.Marshal(sel)
	if err != nil {
		return nil, errors.Wrap(err, "encode filter selection")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recommendPath, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build recommend request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithMessagef(ErrTransport, "POST %s: %v", recommendPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessagef(ErrTransport, "POST %s: read body: %v", recommendPath, err)
	}

	if !isSuccess(resp.StatusCode) {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var entries []*model.Restaurant
	if err := sonic.ConfigStd.Unmarshal(body, &entries); err != nil {
		return nil, errors.WithMessagef(ErrTransport, "POST %s: decode body: %v", recommendPath, err)
	}
	for i, r := range entries {
		if r == nil {
			return nil, errors.WithMessagef(ErrTransport, "POST %s: entry %d is null", recommendPath, i)
		}
		restaurants = append(restaurants, *r)
	}
	return restaurants, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var eb model.ErrorBody
	if err := sonic.ConfigStd.Unmarshal(body, &eb); err != nil || eb.Error == "" {
		return &APIError{
			StatusCode: status,
			Message:    model.UnknownErrorMessage,
			Detail:     fmt.Sprintf("status %d with undecodable error body", status),
		}
	}
	return &APIError{StatusCode: status, Message: eb.Error, Reported: true}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
