package collaborator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	appstore "github.com/fanstore/backend/internal/application/store"
	"github.com/google/uuid"
)

// StoreDirectoryClient checks store references against the store directory
// service over HTTP.
type StoreDirectoryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStoreDirectoryClient creates a new store directory client
func NewStoreDirectoryClient(baseURL string, timeout time.Duration) *StoreDirectoryClient {
	return &StoreDirectoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StoreExists reports whether the store is known to the directory.
// A 404 from the directory means the store does not exist; any other
// non-200 status is an error.
func (c *StoreDirectoryClient) StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/internal/v1/stores/"+storeID.String(), nil)
	if err != nil {
		return false, fmt.Errorf("store directory: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("store directory: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("store directory: returned status %d", resp.StatusCode)
	}
}

// Ensure StoreDirectoryClient implements the application collaborator interface
var _ appstore.StoreDirectory = (*StoreDirectoryClient)(nil)
