// Package crawler drives isolated headless-browser sessions against vendor
// product pages and runs vendor extractors on the loaded DOM.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/JDY-exe/PurePEG-price-fetch/config"
	"github.com/JDY-exe/PurePEG-price-fetch/models"
	"github.com/JDY-exe/PurePEG-price-fetch/vendors"
)

// Crawler runs one isolated browser session per Crawl call. Sessions are
// never pooled or shared: a wedged vendor page can only ever cost its own
// session. Safe for concurrent use.
type Crawler struct {
	browserCfg config.BrowserConfig
	crawlCfg   config.CrawlConfig
}

// New creates a Crawler. No browser is launched until Crawl is called.
func New(browserCfg config.BrowserConfig, crawlCfg config.CrawlConfig) *Crawler {
	return &Crawler{browserCfg: browserCfg, crawlCfg: crawlCfg}
}

// Crawl opens a fresh browser session, navigates to the vendor's record
// URL, waits for the vendor's readiness condition, and runs the vendor's
// extractor.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard     – hard deadline on the entire operation
//  2. Launch browser    – one process + one page for this call only
//  3. DEFER: teardown   – close page, browser, and process on every path
//  4. Stealth injection – mask navigator.webdriver etc. (before navigation!)
//  5. Navigate          – document-ready, not full resource load
//  6. Prepare           – vendor interstitial handling, when defined
//  7. Readiness wait    – shorter timeout on the vendor's DOM condition
//  8. Extract           – vendor extractor against the loaded page
//
// Any failure at steps 5–8 produces a best-effort timestamped screenshot
// in the artifact directory before the original error propagates.
func (c *Crawler) Crawl(ctx context.Context, recordURL string, def vendors.Definition) ([]models.PriceLine, error) {
	// ── 1. Timeout guard ─────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, c.crawlCfg.NavigationTimeout+c.crawlCfg.SelectorTimeout)
	defer cancel()

	// ── 2. Launch an isolated browser for this call ──────────────────
	// Launch and connect are bound to the deadline too: a wedged browser
	// spawn must not stall this vendor's task past the budget.
	l := launcher.New().
		Context(ctx).
		Headless(c.browserCfg.Headless).
		NoSandbox(c.browserCfg.NoSandbox)
	if c.browserCfg.BrowserBin != "" {
		l = l.Bin(c.browserCfg.BrowserBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, models.NewFetchError(models.ErrCodeCrawl, "failed to launch browser", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewFetchError(models.ErrCodeCrawl, "failed to connect to browser", err)
	}

	// ── 3. CRITICAL DEFER: no leaked sessions on any exit path ───────
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			slog.Warn("browser close failed", "vendor", def.DisplayName, "error", closeErr)
		}
		l.Kill()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewFetchError(models.ErrCodeCrawl, "failed to open page", err)
	}

	// ── 4. Stealth injection (must precede navigation) ───────────────
	if c.crawlCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"vendor", def.DisplayName, "error", evalErr)
		}
	}
	c.setReferer(page, recordURL)

	// Bind the request context so every Rod operation below honors the
	// deadline. If it expires, the deferred Close may fail, but l.Kill
	// still reaps the process, so no session outlives its budget.
	p := page.Context(ctx)

	// ── 5. Navigate ──────────────────────────────────────────────────
	navTimeout := p.Timeout(c.crawlCfg.NavigationTimeout)
	if err := navTimeout.Navigate(recordURL); err != nil {
		return nil, c.fail(page, def, "navigation failed", err)
	}
	if err := navTimeout.WaitLoad(); err != nil {
		return nil, c.fail(page, def, "page load did not complete", err)
	}

	// ── 6. Vendor prepare step (interstitials) ───────────────────────
	if def.Prepare != nil {
		if err := def.Prepare(p); err != nil {
			return nil, c.fail(page, def, "prepare step failed", err)
		}
	}

	// ── 7. Readiness wait ────────────────────────────────────────────
	if def.ReadySelector != "" {
		waiter := p.Timeout(c.crawlCfg.SelectorTimeout)
		if err := waiter.WaitElementsMoreThan(def.ReadySelector, 0); err != nil {
			return nil, c.fail(page, def, "readiness condition "+def.ReadySelector+" not met", err)
		}
	}

	// ── 8. Extract ───────────────────────────────────────────────────
	lines, err := def.Extract(p)
	if err != nil {
		return nil, c.fail(page, def, "extraction failed", err)
	}
	return lines, nil
}

// setReferer makes the visit look like a search click-through, the same
// trick the page gets from a human arriving via Google.
func (c *Crawler) setReferer(page *rod.Page, recordURL string) {
	u, err := url.Parse(recordURL)
	if err != nil {
		return
	}
	headers := proto.NetworkHeaders{
		"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)
}

// fail captures a diagnostic screenshot (best effort) and wraps the
// original error as a crawl failure.
func (c *Crawler) fail(page *rod.Page, def vendors.Definition, msg string, err error) error {
	c.screenshot(page, def)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.NewFetchError(models.ErrCodeCrawl, msg+": timed out", err)
	}
	return models.NewFetchError(models.ErrCodeCrawl, msg, err)
}

// screenshot writes a full-page capture with a timestamped filename.
// Failures here are logged and swallowed: diagnostics never mask the
// original error.
func (c *Crawler) screenshot(page *rod.Page, def vendors.Definition) {
	if c.crawlCfg.ArtifactDir == "" {
		return
	}
	data, err := page.Screenshot(true, nil)
	if err != nil {
		slog.Warn("diagnostic screenshot failed", "vendor", def.DisplayName, "error", err)
		return
	}
	if err := os.MkdirAll(c.crawlCfg.ArtifactDir, 0o755); err != nil {
		slog.Warn("artifact dir unavailable", "dir", c.crawlCfg.ArtifactDir, "error", err)
		return
	}
	name := fmt.Sprintf("%s-%s.png", vendorSlug(def.DisplayName), time.Now().Format("20060102-150405"))
	path := filepath.Join(c.crawlCfg.ArtifactDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("failed to write screenshot", "path", path, "error", err)
		return
	}
	slog.Info("crawl failure screenshot captured", "vendor", def.DisplayName, "path", path)
}

func vendorSlug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}
