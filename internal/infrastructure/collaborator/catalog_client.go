package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fanstore/backend/internal/application/replenishment"
	appstore "github.com/fanstore/backend/internal/application/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxResponseSize is the maximum allowed collaborator response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// catalogCachePrefix namespaces cached product names in Redis
const catalogCachePrefix = "catalog:product:"

// CatalogClient resolves product information from the catalog service over
// HTTP. When a Redis client is attached, product names are served read-through
// from cache so storefront listings don't hammer the catalog.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
}

// CatalogClientOption configures a CatalogClient
type CatalogClientOption func(*CatalogClient)

// WithCatalogCache attaches a Redis read-through cache for product names
func WithCatalogCache(client *redis.Client, ttl time.Duration) CatalogClientOption {
	return func(c *CatalogClient) {
		c.cache = client
		c.cacheTTL = ttl
	}
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(baseURL string, timeout time.Duration, opts ...CatalogClientOption) *CatalogClient {
	c := &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cacheTTL: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// catalogProduct is one product row in a catalog lookup response
type catalogProduct struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// catalogLookupResponse is the catalog's batch lookup response
type catalogLookupResponse struct {
	Products []catalogProduct `json:"products"`
}

// ProductsExist reports whether every given product ID is known to the catalog
func (c *CatalogClient) ProductsExist(ctx context.Context, productIDs []uuid.UUID) (bool, error) {
	if len(productIDs) == 0 {
		return true, nil
	}

	found, err := c.lookup(ctx, productIDs)
	if err != nil {
		return false, err
	}
	for _, id := range productIDs {
		if _, ok := found[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// ProductNames returns display names for the given product IDs. Unknown IDs
// are left out of the map.
func (c *CatalogClient) ProductNames(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	names := make(map[uuid.UUID]string, len(productIDs))
	missing := productIDs

	if c.cache != nil {
		missing = missing[:0:0]
		for _, id := range productIDs {
			name, err := c.cache.Get(ctx, catalogCachePrefix+id.String()).Result()
			if err == nil {
				names[id] = name
				continue
			}
			missing = append(missing, id)
		}
		if len(missing) == 0 {
			return names, nil
		}
	}

	found, err := c.lookup(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, name := range found {
		names[id] = name
		if c.cache != nil {
			// Cache write failures are non-fatal, the next lookup retries.
			c.cache.Set(ctx, catalogCachePrefix+id.String(), name, c.cacheTTL)
		}
	}
	return names, nil
}

// lookup performs a batch product lookup against the catalog service
func (c *CatalogClient) lookup(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	payload, err := json.Marshal(map[string][]uuid.UUID{"product_ids": productIDs})
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/internal/v1/products/lookup", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read lookup response: %w", err)
	}

	var decoded catalogLookupResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode lookup response: %w", err)
	}

	found := make(map[uuid.UUID]string, len(decoded.Products))
	for _, p := range decoded.Products {
		found[p.ID] = p.Name
	}
	return found, nil
}

// Ensure CatalogClient implements the application collaborator interfaces
var _ replenishment.ProductCatalog = (*CatalogClient)(nil)
var _ appstore.ProductNamer = (*CatalogClient)(nil)
