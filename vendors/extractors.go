package vendors

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/JDY-exe/PurePEG-price-fetch/models"
)

// interstitialTimeout bounds the check for optional pre-extraction dialogs.
// Most visits have no dialog, so this stays short.
const interstitialTimeout = 3 * time.Second

// prepareBLDPharm dismisses BLD Pharm's currency/region interstitial by
// picking USD. The dialog only appears on fresh sessions; its absence is
// normal and not an error.
func prepareBLDPharm(page *rod.Page) error {
	el, err := page.Timeout(interstitialTimeout).Element(`.currency-dialog li[data-currency="USD"]`)
	if err != nil {
		return nil
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	// Give the dialog's dismiss animation a beat so it doesn't cover the
	// price table during extraction.
	time.Sleep(300 * time.Millisecond)
	return nil
}

// extractBLDPharm reads the stock/price table from a BLD Pharm product
// page. Each row is pack size, availability, price; rows without both a
// pack size and a price are skipped.
func extractBLDPharm(page *rod.Page) ([]models.PriceLine, error) {
	doc, err := document(page)
	if err != nil {
		return nil, err
	}
	return bldLinesFromDoc(doc), nil
}

func bldLinesFromDoc(doc *goquery.Document) []models.PriceLine {
	var lines []models.PriceLine
	doc.Find("table.pro-list-table tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("td").Length() < 2 {
			return
		}
		quantity := cellText(row, "td.size, td:nth-child(1)")
		price := cellText(row, "td.price, td:last-child")
		if quantity == "" || price == "" {
			return
		}
		lines = append(lines, models.PriceLine{Quantity: quantity, Price: price})
	})
	return lines
}

// document snapshots the rendered page HTML into a goquery document.
// Parsing the snapshot keeps extractors free of per-cell CDP round trips.
func document(page *rod.Page) (*goquery.Document, error) {
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// cellText returns the trimmed text of the first cell matching any of the
// comma-separated selectors.
func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}
