package models

// Vendor result statuses. Every vendor in the capability registry produces
// exactly one VendorResult per request carrying one of these.
const (
	// StatusSuccess means the vendor's page or API was reached and parsed.
	// Prices may still be empty (page reached, no extractable rows).
	StatusSuccess = "success"

	// StatusNotFound means the vendor does not list the compound.
	StatusNotFound = "not_found"

	// StatusLinkOnly means no structured pricing is retrievable for this
	// vendor; URL points at the product page or a synthesized search.
	StatusLinkOnly = "link_only"

	// StatusError means the vendor's handler failed (crawl timeout,
	// API failure, extractor bug). Message carries the failure reason.
	StatusError = "error"
)

// PriceLine is a single quantity/price pair as reported by a vendor.
// Both fields are free-form strings; units and currency are whatever the
// source page shows, in page order, no dedup.
type PriceLine struct {
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// VendorResult is one vendor's outcome for a price lookup. The aggregate
// response is an ordered array of these, one per configured vendor, in
// capability-registry declaration order.
type VendorResult struct {
	VendorName string      `json:"vendor_name"`
	Status     string      `json:"status"`
	Prices     []PriceLine `json:"prices"`
	URL        string      `json:"url,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// VendorSource is one entry from the vendor source directory: a vendor
// known to carry the compound and its product-record URL.
type VendorSource struct {
	SourceName string
	RecordURL  string
}

// ErrorResponse is the top-level error body returned when the request
// fails before vendor fan-out (resolution or directory stage).
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details *ErrorDetail `json:"details,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Vendors int    `json:"vendors"`
	Version string `json:"version"`
}
