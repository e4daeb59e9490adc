package commerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

func testClient(baseURL string) *Client {
	return New(config.StoreConfig{BaseURL: baseURL, Timeout: 5 * time.Second})
}

func TestVariations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/mpeg4-oh.js" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"variants":[
			{"title":"100mg","price":9500},
			{"title":"1g","price":25000},
			{"title":"","price":100}
		]}`))
	}))
	defer srv.Close()

	lines, err := testClient(srv.URL).Variations(context.Background(), "mpeg4-oh")
	if err != nil {
		t.Fatalf("Variations returned error: %v", err)
	}
	want := []models.PriceLine{
		{Quantity: "100mg", Price: "$95.00"},
		{Quantity: "1g", Price: "$250.00"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestVariations_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Variations(context.Background(), "gone")
	fe, ok := err.(*models.FetchError)
	if !ok || fe.Code != models.ErrCodeUpstream {
		t.Errorf("Variations = %v, want upstream error", err)
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{99, "$0.99"},
		{100, "$1.00"},
		{25000, "$250.00"},
		{123456789, "$1234567.89"},
		{-999, "-$9.99"},
	}
	for _, tt := range tests {
		if got := formatCents(tt.cents); got != tt.want {
			t.Errorf("formatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
