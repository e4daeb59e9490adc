package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JDY-exe/PurePEG-price-fetch/aggregator"
	"github.com/JDY-exe/PurePEG-price-fetch/catalog"
	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
	"github.com/JDY-exe/PurePEG-price-fetch/vendors"
)

type captureResolver struct {
	identifier *string
}

func (c captureResolver) Resolve(ctx context.Context, identifier string) (int, error) {
	*c.identifier = identifier
	return 0, models.NewFetchError(models.ErrCodeNotFound, "no compound matches the identifier", nil)
}

type noSources struct{}

func (noSources) ListSources(ctx context.Context, cid int) ([]models.VendorSource, error) {
	return nil, nil
}

type noCrawler struct{}

func (noCrawler) Crawl(ctx context.Context, recordURL string, def vendors.Definition) ([]models.PriceLine, error) {
	return nil, nil
}

type noStore struct{}

func (noStore) Variations(ctx context.Context, handle string) ([]models.PriceLine, error) {
	return nil, nil
}

// Stereochemical SMILES carry slashes. The escaped form must stay a single
// path segment and reach the handler decoded, not fall through to gin's
// plain-text 404.
func TestRouter_SlashInEncodedIdentifier(t *testing.T) {
	var got string
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	agg := aggregator.New(captureResolver{identifier: &got}, noSources{}, noCrawler{}, noStore{},
		catalog.FromMap(nil), nil, "")
	r := NewRouter(agg, 0, cfg, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/F%2FC=C%2FF", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 from the handler; body: %s", w.Code, w.Body.String())
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not the handler's JSON error shape: %v; body: %s", err, w.Body.String())
	}
	if resp.Details == nil || resp.Details.Code != models.ErrCodeNotFound {
		t.Errorf("details = %+v, want code %s", resp.Details, models.ErrCodeNotFound)
	}
	if got != "F/C=C/F" {
		t.Errorf("handler saw identifier %q, want the decoded SMILES", got)
	}
}
