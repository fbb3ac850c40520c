// Package catalog fetches the remote product catalog used to build
// carts. The catalog is display/pricing input only; completed sales
// snapshot prices and never refer back to it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Product is one sellable product as served by the catalog endpoint.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SellingPrice float64 `json:"sellingPrice"`
}

// Client fetches products over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a catalog client for endpoint. A nil httpClient
// gets a default with a 30-second timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// rawProduct tolerates the field-name drift seen across backend
// versions: price may arrive as sellingPrice, price, unitPrice or
// amount, in numeric or string form.
type rawProduct struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	SellingPrice json.Number `json:"sellingPrice"`
	Price        json.Number `json:"price"`
	UnitPrice    json.Number `json:"unitPrice"`
	Amount       json.Number `json:"amount"`
}

// Fetch retrieves and normalizes the product list. Entries without an
// id, a name, or a parseable price are dropped.
func (c *Client) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch products: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return nil, fmt.Errorf("products api error %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("products api error %d", resp.StatusCode)
	}

	var raw []rawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("fetch products: decode: %w", err)
	}

	products := make([]Product, 0, len(raw))
	for _, r := range raw {
		price, ok := firstPrice(r.SellingPrice, r.Price, r.UnitPrice, r.Amount)
		if r.ID == "" || r.Name == "" || !ok {
			continue
		}
		products = append(products, Product{ID: r.ID, Name: r.Name, SellingPrice: price})
	}

	return products, nil
}

func firstPrice(candidates ...json.Number) (float64, bool) {
	for _, n := range candidates {
		if n == "" {
			continue
		}
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}
