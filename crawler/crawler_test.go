package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
	"github.com/JDY-exe/PurePEG-price-fetch/vendors"
)

// failCrawler builds a Crawler with screenshots disabled so fail() never
// touches a live page.
func failCrawler() *Crawler {
	return New(config.BrowserConfig{}, config.CrawlConfig{
		NavigationTimeout: time.Second,
		SelectorTimeout:   time.Second,
		ArtifactDir:       "",
	})
}

func TestFail_ClassifiesTimeouts(t *testing.T) {
	c := failCrawler()
	def := vendors.Definition{DisplayName: "BLD Pharm"}

	err := c.fail(nil, def, "navigation failed", context.DeadlineExceeded)
	fe, ok := err.(*models.FetchError)
	if !ok || fe.Code != models.ErrCodeCrawl {
		t.Fatalf("fail = %v, want crawl error", err)
	}
	if !strings.Contains(fe.Message, "timed out") {
		t.Errorf("timeout message = %q, want a timeout marker", fe.Message)
	}

	err = c.fail(nil, def, "extraction failed", errors.New("selector missing"))
	fe, ok = err.(*models.FetchError)
	if !ok || fe.Code != models.ErrCodeCrawl {
		t.Fatalf("fail = %v, want crawl error", err)
	}
	if strings.Contains(fe.Message, "timed out") {
		t.Errorf("non-timeout misclassified: %q", fe.Message)
	}
	if !errors.Is(err, fe.Err) || fe.Err == nil {
		t.Error("original error not preserved via wrapping")
	}
}

// TestCrawl_WedgedLaunchHonorsDeadline points the launcher at a stub
// binary that never prints a DevTools endpoint. The launch phase must
// give up within the crawl budget instead of stalling the vendor task.
func TestCrawl_WedgedLaunchHonorsDeadline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub binary")
	}

	bin := filepath.Join(t.TempDir(), "wedged-browser")
	script := "#!/bin/sh\nexec sleep 60\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	c := New(
		config.BrowserConfig{Headless: true, NoSandbox: true, BrowserBin: bin},
		config.CrawlConfig{
			NavigationTimeout: 200 * time.Millisecond,
			SelectorTimeout:   100 * time.Millisecond,
			ArtifactDir:       "",
		},
	)

	start := time.Now()
	_, err := c.Crawl(context.Background(), "https://vendor.invalid/p/1", vendors.Definition{DisplayName: "Stub"})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Crawl succeeded against a wedged browser binary")
	}
	fe, ok := err.(*models.FetchError)
	if !ok || fe.Code != models.ErrCodeCrawl {
		t.Fatalf("err = %v, want crawl error", err)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("Crawl took %v, want return near the %v budget", elapsed, 300*time.Millisecond)
	}
}

func TestVendorSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"BLD Pharm", "bld-pharm"},
		{"  AA Blocks  ", "aa-blocks"},
		{"PurePEG", "purepeg"},
	}
	for _, tt := range tests {
		if got := vendorSlug(tt.in); got != tt.want {
			t.Errorf("vendorSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
