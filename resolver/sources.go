package resolver

import (
	"context"
	"strconv"

	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// vendorCategory is the PUG View category holding chemical vendors.
const vendorCategory = "Chemical Vendors"

// categoriesResponse is the PUG View source-categories response shape,
// trimmed to the fields the directory needs.
type categoriesResponse struct {
	SourceCategories struct {
		Categories []struct {
			Category string `json:"Category"`
			Sources  []struct {
				SourceName      string `json:"SourceName"`
				SourceRecordURL string `json:"SourceRecordURL"`
			} `json:"Sources"`
		} `json:"Categories"`
	} `json:"SourceCategories"`
}

// ListSources returns the vendors PubChem lists as carrying the compound,
// with their product-record URLs. An empty vendor list is a not-found
// condition, distinct from an upstream failure.
func (r *Resolver) ListSources(ctx context.Context, cid int) ([]models.VendorSource, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, models.NewFetchError(models.ErrCodeUpstream, "source lookup canceled while throttled", err)
	}

	var cats categoriesResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("cid", strconv.Itoa(cid)).
		SetResult(&cats).
		Get("/rest/pug_view/categories/compound/{cid}/JSON")
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodeUpstream, "vendor directory request failed", err)
	}
	if resp.IsError() {
		return nil, models.NewFetchError(models.ErrCodeUpstream,
			"vendor directory lookup failed: status "+strconv.Itoa(resp.StatusCode()), nil)
	}

	var sources []models.VendorSource
	for _, cat := range cats.SourceCategories.Categories {
		if cat.Category != vendorCategory {
			continue
		}
		for _, s := range cat.Sources {
			if s.SourceName == "" || s.SourceRecordURL == "" {
				continue
			}
			sources = append(sources, models.VendorSource{
				SourceName: s.SourceName,
				RecordURL:  s.SourceRecordURL,
			})
		}
	}

	if len(sources) == 0 {
		return nil, models.NewFetchError(models.ErrCodeNotFound, "no vendors list this compound", nil)
	}
	return sources, nil
}
