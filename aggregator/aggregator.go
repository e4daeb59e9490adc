// Package aggregator fans a price lookup out across every configured
// vendor, isolating each vendor's failure and returning one result per
// registry entry in declaration order.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JDY-exe/PurePEG-price-fetch/catalog"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
	"github.com/JDY-exe/PurePEG-price-fetch/vendors"
)

// CompoundResolver resolves a free-text identifier to a canonical CID.
type CompoundResolver interface {
	Resolve(ctx context.Context, identifier string) (int, error)
}

// SourceLister returns the vendors known to carry a compound.
type SourceLister interface {
	ListSources(ctx context.Context, cid int) ([]models.VendorSource, error)
}

// PageCrawler runs a browser crawl against a vendor record URL.
type PageCrawler interface {
	Crawl(ctx context.Context, recordURL string, def vendors.Definition) ([]models.PriceLine, error)
}

// Storefront fetches price variations for a catalog product handle.
type Storefront interface {
	Variations(ctx context.Context, handle string) ([]models.PriceLine, error)
}

// Aggregator orchestrates the full lookup: resolve, list sources, fan out
// one task per configured vendor, collect in registry order.
type Aggregator struct {
	resolver CompoundResolver
	sources  SourceLister
	crawler  PageCrawler
	store    Storefront
	catalog  *catalog.Catalog
	registry []vendors.Definition

	// storeBase builds the product-page URL reported for api-strategy
	// results, e.g. "https://purepeg.com".
	storeBase string
}

// New wires an Aggregator. The registry slice is not copied; it must not
// be mutated after startup.
func New(resolver CompoundResolver, sources SourceLister, crawler PageCrawler,
	store Storefront, cat *catalog.Catalog, registry []vendors.Definition, storeBase string) *Aggregator {
	return &Aggregator{
		resolver:  resolver,
		sources:   sources,
		crawler:   crawler,
		store:     store,
		catalog:   cat,
		registry:  registry,
		storeBase: storeBase,
	}
}

// Aggregate resolves the identifier and returns one VendorResult per
// registry entry, in declaration order.
//
// Resolution and the directory lookup run sequentially and abort the whole
// request on failure: without a CID and a vendor list there is nothing to
// aggregate. After that, every vendor task runs concurrently and writes
// into its own pre-allocated slot; a task failure (or panic) becomes that
// vendor's error result and never touches its siblings.
func (a *Aggregator) Aggregate(ctx context.Context, identifier string) ([]models.VendorResult, error) {
	cid, err := a.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	sources, err := a.sources.ListSources(ctx, cid)
	if err != nil {
		return nil, err
	}
	slog.Info("compound resolved", "identifier", identifier, "cid", cid, "directoryVendors", len(sources))

	results := make([]models.VendorResult, len(a.registry))
	var wg sync.WaitGroup
	for i, def := range a.registry {
		wg.Add(1)
		go func(idx int, def vendors.Definition) {
			defer wg.Done()
			// A handler bug must surface as that vendor's error result,
			// not take down the whole aggregation.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("vendor handler panicked", "vendor", def.DisplayName, "panic", r)
					results[idx] = models.VendorResult{
						VendorName: def.DisplayName,
						Status:     models.StatusError,
						Message:    fmt.Sprintf("internal handler fault: %v", r),
					}
				}
			}()
			results[idx] = a.runVendor(ctx, def, identifier, sources)
		}(i, def)
	}
	wg.Wait()

	// Prices always serializes as an array, never null.
	for i := range results {
		if results[i].Prices == nil {
			results[i].Prices = []models.PriceLine{}
		}
	}
	return results, nil
}

// runVendor dispatches one vendor's strategy handler.
func (a *Aggregator) runVendor(ctx context.Context, def vendors.Definition, identifier string, sources []models.VendorSource) models.VendorResult {
	switch def.Strategy {
	case vendors.StrategyAPI:
		return a.runAPI(ctx, def, identifier)
	case vendors.StrategyCrawl:
		return a.runCrawl(ctx, def, sources)
	case vendors.StrategyLink:
		return a.runLink(def, identifier, sources)
	default:
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusError,
			Message:    fmt.Sprintf("unknown strategy %q", def.Strategy),
		}
	}
}

// runAPI serves vendors whose pricing comes from the storefront commerce
// API. The local catalog, not the vendor directory, decides availability.
func (a *Aggregator) runAPI(ctx context.Context, def vendors.Definition, identifier string) models.VendorResult {
	handle, ok := a.catalog.Lookup(identifier)
	if !ok {
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusNotFound,
			Message:    "not in the product catalog",
		}
	}

	lines, err := a.store.Variations(ctx, handle)
	if err != nil {
		slog.Warn("storefront lookup failed", "vendor", def.DisplayName, "handle", handle, "error", err)
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusError,
			Message:    err.Error(),
		}
	}

	return models.VendorResult{
		VendorName: def.DisplayName,
		Status:     models.StatusSuccess,
		Prices:     lines,
		URL:        a.storeBase + "/products/" + handle,
	}
}

// runCrawl serves vendors that need a live browser against their directory
// record URL.
func (a *Aggregator) runCrawl(ctx context.Context, def vendors.Definition, sources []models.VendorSource) models.VendorResult {
	src, ok := findSource(def, sources)
	if !ok {
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusNotFound,
			Message:    "vendor does not list this compound",
		}
	}

	lines, err := a.crawler.Crawl(ctx, src.RecordURL, def)
	if err != nil {
		slog.Warn("vendor crawl failed", "vendor", def.DisplayName, "url", src.RecordURL, "error", err)
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusError,
			URL:        src.RecordURL,
			Message:    err.Error(),
		}
	}

	result := models.VendorResult{
		VendorName: def.DisplayName,
		Status:     models.StatusSuccess,
		Prices:     lines,
		URL:        src.RecordURL,
	}
	if len(lines) == 0 {
		result.Message = "page reached but no price rows found"
	}
	return result
}

// runLink serves vendors with no machine-readable pricing: the result is
// the directory URL, or a synthesized search URL when the directory has no
// entry and the vendor has a search template.
func (a *Aggregator) runLink(def vendors.Definition, identifier string, sources []models.VendorSource) models.VendorResult {
	if src, ok := findSource(def, sources); ok {
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusLinkOnly,
			URL:        src.RecordURL,
		}
	}
	if searchURL, ok := def.SynthesizeSearchURL(identifier); ok {
		return models.VendorResult{
			VendorName: def.DisplayName,
			Status:     models.StatusLinkOnly,
			URL:        searchURL,
			Message:    "not in the vendor directory; search link synthesized",
		}
	}
	return models.VendorResult{
		VendorName: def.DisplayName,
		Status:     models.StatusNotFound,
		Message:    "vendor does not list this compound",
	}
}

func findSource(def vendors.Definition, sources []models.VendorSource) (models.VendorSource, bool) {
	for _, s := range sources {
		if def.MatchesSource(s.SourceName) {
			return s, true
		}
	}
	return models.VendorSource{}, false
}
