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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentClient registers shipments with the logistics service over HTTP
type ShipmentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewShipmentClient creates a new shipment client
func NewShipmentClient(baseURL string, timeout time.Duration) *ShipmentClient {
	return &ShipmentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// shipmentLinePayload is one line of the create-shipment request body
type shipmentLinePayload struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// createShipmentPayload is the create-shipment request body
type createShipmentPayload struct {
	ReferenceNumber string                `json:"reference_number"`
	FromWarehouseID uuid.UUID             `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID             `json:"to_warehouse_id"`
	Lines           []shipmentLinePayload `json:"lines"`
}

// createShipmentResponse is the create-shipment response body
type createShipmentResponse struct {
	ShipmentID uuid.UUID `json:"shipment_id"`
}

// CreateShipment registers a shipment and returns its ID
func (c *ShipmentClient) CreateShipment(ctx context.Context, req replenishment.CreateShipmentRequest) (uuid.UUID, error) {
	lines := make([]shipmentLinePayload, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = shipmentLinePayload{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		}
	}

	payload, err := json.Marshal(createShipmentPayload{
		ReferenceNumber: req.ReferenceNumber,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Lines:           lines,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("shipment: failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/internal/v1/shipments", bytes.NewReader(payload))
	if err != nil {
		return uuid.Nil, fmt.Errorf("shipment: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return uuid.Nil, fmt.Errorf("shipment: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return uuid.Nil, fmt.Errorf("shipment: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return uuid.Nil, fmt.Errorf("shipment: failed to read response: %w", err)
	}

	var decoded createShipmentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return uuid.Nil, fmt.Errorf("shipment: failed to decode response: %w", err)
	}
	if decoded.ShipmentID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("shipment: response missing shipment_id")
	}

	return decoded.ShipmentID, nil
}

// Ensure ShipmentClient implements the application collaborator interface
var _ replenishment.ShipmentService = (*ShipmentClient)(nil)
