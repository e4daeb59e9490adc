// Package vendors defines the static capability registry: every vendor the
// service reports on, and how that vendor's pricing is obtained.
package vendors

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-rod/rod"

	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// Strategy selects how a vendor's pricing is retrieved.
type Strategy string

const (
	// StrategyAPI reads prices from the storefront commerce API, keyed by
	// a local catalog lookup. Independent of the vendor directory.
	StrategyAPI Strategy = "api"

	// StrategyCrawl drives a headless browser against the vendor's
	// directory record URL and runs the vendor's extractor.
	StrategyCrawl Strategy = "crawl"

	// StrategyLink exposes no structured data; the result is just a URL.
	StrategyLink Strategy = "link"
)

// PrepareFunc runs against a freshly navigated page before the readiness
// wait. Used for interstitials (currency dialogs and the like); absence of
// the interstitial is not an error.
type PrepareFunc func(page *rod.Page) error

// ExtractFunc pulls price rows out of a loaded vendor page. Rows missing
// either quantity or price text are filtered out.
type ExtractFunc func(page *rod.Page) ([]models.PriceLine, error)

// Definition is one capability-registry entry. The registry is immutable
// and loaded once at startup; it defines every vendor the service reports
// on, whether or not the vendor currently lists a given compound.
type Definition struct {
	// DisplayName is the vendor name shown in results.
	DisplayName string

	// SourceName matches against the vendor directory's source names
	// (case-insensitive).
	SourceName string

	Strategy Strategy

	// ReadySelector is the DOM condition a crawl waits for before
	// extraction. Crawl strategy only.
	ReadySelector string

	// Prepare, when set, runs after navigation and before the readiness
	// wait. Crawl strategy only.
	Prepare PrepareFunc

	// Extract runs against the loaded page. Crawl strategy only.
	Extract ExtractFunc

	// SearchURL is a template with one %s verb for the URL-escaped
	// identifier, used by the link strategy when the directory has no
	// entry for this vendor. Optional.
	SearchURL string
}

// SynthesizeSearchURL fills the vendor's search template with the
// identifier. Returns false when the vendor has no template.
func (d Definition) SynthesizeSearchURL(identifier string) (string, bool) {
	if d.SearchURL == "" {
		return "", false
	}
	return fmt.Sprintf(d.SearchURL, url.QueryEscape(identifier)), true
}

// MatchesSource reports whether a directory source name belongs to this
// vendor.
func (d Definition) MatchesSource(sourceName string) bool {
	return strings.EqualFold(strings.TrimSpace(sourceName), d.SourceName)
}

// Registry returns the capability registry in declaration order. The
// aggregate response carries exactly one result per entry, in this order.
func Registry() []Definition {
	return []Definition{
		{
			DisplayName: "PurePEG",
			SourceName:  "PurePEG",
			Strategy:    StrategyAPI,
		},
		{
			DisplayName:   "BLD Pharm",
			SourceName:    "BLD Pharm",
			Strategy:      StrategyCrawl,
			ReadySelector: "table.pro-list-table tbody tr",
			Prepare:       prepareBLDPharm,
			Extract:       extractBLDPharm,
		},
		{
			DisplayName: "Combi-Blocks",
			SourceName:  "Combi-Blocks",
			Strategy:    StrategyLink,
		},
		{
			DisplayName: "Accela ChemBio",
			SourceName:  "Accela ChemBio Inc.",
			Strategy:    StrategyLink,
		},
		{
			DisplayName: "BroadPharm",
			SourceName:  "BroadPharm",
			Strategy:    StrategyLink,
		},
		{
			DisplayName: "AA Blocks",
			SourceName:  "AA BLOCKS",
			Strategy:    StrategyLink,
			SearchURL:   "https://www.aablocks.com/prod/search?keyword=%s",
		},
		{
			DisplayName: "AbaChemScene",
			SourceName:  "AbaChemScene",
			Strategy:    StrategyLink,
			SearchURL:   "https://www.chemscene.com/search.html?keyword=%s",
		},
	}
}

// Validate checks a registry for mistakes that should fail startup rather
// than surface per-request: duplicate names, uncompilable readiness
// selectors, crawl entries without extractors, malformed search templates.
func Validate(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if d.DisplayName == "" || d.SourceName == "" {
			return fmt.Errorf("vendors: entry %q missing display or source name", d.DisplayName)
		}
		key := strings.ToLower(d.DisplayName)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("vendors: duplicate vendor %q", d.DisplayName)
		}
		seen[key] = struct{}{}

		switch d.Strategy {
		case StrategyAPI, StrategyLink:
		case StrategyCrawl:
			if d.Extract == nil {
				return fmt.Errorf("vendors: crawl vendor %q has no extractor", d.DisplayName)
			}
			if d.ReadySelector == "" {
				return fmt.Errorf("vendors: crawl vendor %q has no readiness selector", d.DisplayName)
			}
			if _, err := cascadia.Parse(d.ReadySelector); err != nil {
				return fmt.Errorf("vendors: crawl vendor %q readiness selector: %w", d.DisplayName, err)
			}
		default:
			return fmt.Errorf("vendors: vendor %q has unknown strategy %q", d.DisplayName, d.Strategy)
		}

		if d.SearchURL != "" && !strings.Contains(d.SearchURL, "%s") {
			return fmt.Errorf("vendors: vendor %q search template has no %%s verb", d.DisplayName)
		}
	}
	return nil
}
