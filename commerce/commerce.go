// Package commerce fetches product price variations from the PurePEG
// storefront.
package commerce

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// product is the Shopify storefront /products/{handle}.js response, trimmed
// to the variant fields pricing needs. Variant titles carry the pack size
// ("100mg", "1g", ...); prices are integer cents.
type product struct {
	Variants []struct {
		Title string `json:"title"`
		Price int64  `json:"price"`
	} `json:"variants"`
}

// Client calls the storefront JSON endpoints. Safe for concurrent use.
type Client struct {
	client *resty.Client
}

// New creates a storefront client.
func New(cfg config.StoreConfig) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Variations fetches the price variations for a product handle, one
// PriceLine per variant in storefront order.
func (c *Client) Variations(ctx context.Context, handle string) ([]models.PriceLine, error) {
	var p product
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("handle", handle).
		SetResult(&p).
		Get("/products/{handle}.js")
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodeUpstream, "storefront request failed", err)
	}
	if resp.IsError() {
		return nil, models.NewFetchError(models.ErrCodeUpstream,
			fmt.Sprintf("storefront returned status %d for %s", resp.StatusCode(), handle), nil)
	}

	lines := make([]models.PriceLine, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Title == "" {
			continue
		}
		lines = append(lines, models.PriceLine{
			Quantity: v.Title,
			Price:    formatCents(v.Price),
		})
	}
	return lines, nil
}

// formatCents renders integer cents as a dollar string ("25000" → "$250.00").
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + "$" + strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}
