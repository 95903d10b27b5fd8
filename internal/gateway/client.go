// Package gateway is the HTTP client for the collection API. It owns
// the error taxonomy (validation / not-found / network) and normalizes
// the legacy "_id" field spelling so the rest of the engine only ever
// sees one canonical id field.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

const defaultTimeout = 10 * time.Second

// Lister is the slice of the remote API the synchronization controller
// needs: the six sold/unsold list variants across the three entity types.
type Lister interface {
	ListPsaCards(ctx context.Context, sold bool) (json.RawMessage, error)
	ListRawCards(ctx context.Context, sold bool) (json.RawMessage, error)
	ListSealedProducts(ctx context.Context, sold bool) (json.RawMessage, error)
}

// PsaCardAPI covers create/update/delete for graded cards.
type PsaCardAPI interface {
	CreatePsaCard(ctx context.Context, payload models.PsaCard) (*models.PsaCard, error)
	UpdatePsaCard(ctx context.Context, id string, payload models.PsaCardUpdate) (*models.PsaCard, error)
	DeletePsaCard(ctx context.Context, id string) error
}

// RawCardAPI covers create/update/delete for raw cards.
type RawCardAPI interface {
	CreateRawCard(ctx context.Context, payload models.RawCard) (*models.RawCard, error)
	UpdateRawCard(ctx context.Context, id string, payload models.RawCardUpdate) (*models.RawCard, error)
	DeleteRawCard(ctx context.Context, id string) error
}

// SealedProductAPI covers create/update/delete for sealed products.
type SealedProductAPI interface {
	CreateSealedProduct(ctx context.Context, payload models.SealedProduct) (*models.SealedProduct, error)
	UpdateSealedProduct(ctx context.Context, id string, payload models.SealedProductUpdate) (*models.SealedProduct, error)
	DeleteSealedProduct(ctx context.Context, id string) error
}

// SalesAPI covers the sold transition for all three entity types.
type SalesAPI interface {
	MarkPsaCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.PsaCard, error)
	MarkRawCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.RawCard, error)
	MarkSealedProductSold(ctx context.Context, id string, details models.SaleDetails) (*models.SealedProduct, error)
}

// Remote is the full surface the collection manager consumes.
type Remote interface {
	Lister
	PsaCardAPI
	RawCardAPI
	SealedProductAPI
	SalesAPI
}

// Client talks to the collection API over HTTP. Requests are paced by a
// token-bucket limiter so refresh storms don't hammer the backend.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Remote = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit sets requests-per-second pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(20), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const (
	resourcePsaCards       = "psa-cards"
	resourceRawCards       = "raw-cards"
	resourceSealedProducts = "sealed-products"
)

func (c *Client) ListPsaCards(ctx context.Context, sold bool) (json.RawMessage, error) {
	return c.list(ctx, resourcePsaCards, sold)
}

func (c *Client) ListRawCards(ctx context.Context, sold bool) (json.RawMessage, error) {
	return c.list(ctx, resourceRawCards, sold)
}

func (c *Client) ListSealedProducts(ctx context.Context, sold bool) (json.RawMessage, error) {
	return c.list(ctx, resourceSealedProducts, sold)
}

func (c *Client) CreatePsaCard(ctx context.Context, payload models.PsaCard) (*models.PsaCard, error) {
	var out models.PsaCard
	if err := c.do(ctx, http.MethodPost, "/api/"+resourcePsaCards, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePsaCard(ctx context.Context, id string, payload models.PsaCardUpdate) (*models.PsaCard, error) {
	var out models.PsaCard
	if err := c.do(ctx, http.MethodPut, itemPath(resourcePsaCards, id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePsaCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(resourcePsaCards, id), nil, nil)
}

func (c *Client) MarkPsaCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.PsaCard, error) {
	var out models.PsaCard
	if err := c.do(ctx, http.MethodPost, itemPath(resourcePsaCards, id)+"/mark-sold", details, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRawCard(ctx context.Context, payload models.RawCard) (*models.RawCard, error) {
	var out models.RawCard
	if err := c.do(ctx, http.MethodPost, "/api/"+resourceRawCards, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRawCard(ctx context.Context, id string, payload models.RawCardUpdate) (*models.RawCard, error) {
	var out models.RawCard
	if err := c.do(ctx, http.MethodPut, itemPath(resourceRawCards, id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRawCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(resourceRawCards, id), nil, nil)
}

func (c *Client) MarkRawCardSold(ctx context.Context, id string, details models.SaleDetails) (*models.RawCard, error) {
	var out models.RawCard
	if err := c.do(ctx, http.MethodPost, itemPath(resourceRawCards, id)+"/mark-sold", details, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSealedProduct(ctx context.Context, payload models.SealedProduct) (*models.SealedProduct, error) {
	var out models.SealedProduct
	if err := c.do(ctx, http.MethodPost, "/api/"+resourceSealedProducts, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSealedProduct(ctx context.Context, id string, payload models.SealedProductUpdate) (*models.SealedProduct, error) {
	var out models.SealedProduct
	if err := c.do(ctx, http.MethodPut, itemPath(resourceSealedProducts, id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSealedProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(resourceSealedProducts, id), nil, nil)
}

func (c *Client) MarkSealedProductSold(ctx context.Context, id string, details models.SaleDetails) (*models.SealedProduct, error) {
	var out models.SealedProduct
	if err := c.do(ctx, http.MethodPost, itemPath(resourceSealedProducts, id)+"/mark-sold", details, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemPath(resource, id string) string {
	return "/api/" + resource + "/" + url.PathEscape(id)
}

// list fetches one sold/unsold variant of a resource. The body is
// returned raw so the response validator owns element-level parsing;
// only the legacy id spelling is normalized here.
func (c *Client) list(ctx context.Context, resource string, sold bool) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/%s?sold=%t", resource, sold)
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeList(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusConflict:
		return &ValidationError{Message: apiErrorMessage(resp)}
	case resp.StatusCode >= 500:
		return &NetworkError{Op: op, Err: fmt.Errorf("api returned status %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s: api returned status %d", op, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", op, err)
	}
	if rawOut, ok := out.(*json.RawMessage); ok {
		*rawOut = raw
		return nil
	}
	if err := json.Unmarshal(normalizeObject(raw), out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", op, err)
	}
	return nil
}

func apiErrorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	if payload.Error == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return payload.Error
}
