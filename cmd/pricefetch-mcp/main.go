package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// vendorResult mirrors the pricefetch API response model.
type vendorResult struct {
	VendorName string `json:"vendor_name"`
	Status     string `json:"status"`
	Prices     []struct {
		Quantity string `json:"quantity"`
		Price    string `json:"price"`
	} `json:"prices"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// errorResponse mirrors the pricefetch API top-level error model.
type errorResponse struct {
	Error   string `json:"error"`
	Details *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"details"`
}

func main() {
	apiURL := os.Getenv("PRICEFETCH_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"pricefetch",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	getPricesTool := mcp.NewTool("get_prices",
		mcp.WithDescription("Look up vendor pricing for a chemical compound by name, CAS registry number, or SMILES string. Returns one entry per known vendor with prices, a product link, or a not-found status."),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("Chemical name, CAS number, or SMILES string"),
		),
	)
	s.AddTool(getPricesTool, handleGetPrices(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleGetPrices(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier, err := request.RequireString("identifier")
		if err != nil {
			return mcp.NewToolResultError("identifier is required"), nil
		}

		endpoint := apiURL + "/api/v1/prices/" + url.PathEscape(identifier)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			var errResp errorResponse
			if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
				if errResp.Details != nil {
					return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", errResp.Details.Code, errResp.Error)), nil
				}
				return mcp.NewToolResultError(errResp.Error), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed with status %d", resp.StatusCode)), nil
		}

		var results []vendorResult
		if err := json.Unmarshal(respBody, &results); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		return mcp.NewToolResultText(formatResults(identifier, results)), nil
	}
}

// formatResults renders the vendor array as a readable text block.
func formatResults(identifier string, results []vendorResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vendor pricing for %q:\n", identifier)
	for _, r := range results {
		fmt.Fprintf(&b, "\n%s — %s", r.VendorName, r.Status)
		if r.URL != "" {
			fmt.Fprintf(&b, " (%s)", r.URL)
		}
		if r.Message != "" {
			fmt.Fprintf(&b, "\n  %s", r.Message)
		}
		for _, p := range r.Prices {
			fmt.Fprintf(&b, "\n  %s: %s", p.Quantity, p.Price)
		}
		b.WriteString("\n")
	}
	return b.String()
}
