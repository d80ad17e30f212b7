// Package products resolves barcodes against the OpenFoodFacts API and
// lands each resolved product in scan history through the manual
// pipeline.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Sentinel errors for upstream lookups.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUpstream        = errors.New("product database unavailable")
)

// Client fetches products from the OpenFoodFacts HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given base URL. The API asks
// integrations to identify themselves, hence the User-Agent.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", "nutriscan-backend/1.0"),
	}
}

type offEnvelope struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	IngredientsText string         `json:"ingredients_text"`
	Nutriments      map[string]any `json:"nutriments"`
}

// Fetch loads one product by barcode. A missing product is
// ErrProductNotFound; transport and server failures are ErrUpstream.
func (c *Client) Fetch(ctx context.Context, barcode string) (offProduct, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/v0/product/" + barcode + ".json")
	if err != nil {
		return offProduct{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return offProduct{}, fmt.Errorf("%w: barcode %s", ErrProductNotFound, barcode)
	}
	if resp.StatusCode() != http.StatusOK {
		return offProduct{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}

	var envelope offEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return offProduct{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if envelope.Status != 1 {
		return offProduct{}, fmt.Errorf("%w: barcode %s", ErrProductNotFound, barcode)
	}
	return envelope.Product, nil
}

// floatField reads one nutriment, tolerating the string-encoded numbers
// the API sometimes returns.
func floatField(nutriments map[string]any, key string) (float64, bool) {
	raw, ok := nutriments[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
