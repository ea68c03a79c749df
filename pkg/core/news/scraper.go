// Package news scrapes recent Vietnamese market headlines for a symbol so
// the advisor prompt can carry a slice of current sentiment context.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://cafef.vn"

// Headline is one scraped news item.
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Scraper fetches headline listings from the news site's per-symbol pages.
type Scraper struct {
	BaseURL string
	Client  *http.Client
}

func NewScraper() *Scraper {
	return &Scraper{
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Headlines returns up to limit recent headlines for the symbol.
func (s *Scraper) Headlines(ctx context.Context, symbol string, limit int) ([]Headline, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		limit = 10
	}

	pageURL := fmt.Sprintf("%s/du-lieu/tin-doanh-nghiep/%s/event.chn", s.BaseURL, strings.ToLower(symbol))
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; goldenkey/1.0)")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news fetch failed for %s: %w", symbol, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news fetch for %s returned status %d", symbol, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news page: %w", err)
	}

	return extractHeadlines(doc, s.BaseURL, limit), nil
}

// extractHeadlines pulls anchor rows out of the listing document. Selector
// order matters: the dedicated listing container first, then a generic
// anchor fallback for layout changes.
func extractHeadlines(doc *goquery.Document, baseURL string, limit int) []Headline {
	var out []Headline
	seen := map[string]bool{}

	collect := func(sel *goquery.Selection) {
		sel.EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if len(out) >= limit {
				return false
			}
			title := strings.TrimSpace(a.Text())
			href, _ := a.Attr("href")
			if title == "" || href == "" || seen[href] {
				return true
			}
			seen[href] = true
			out = append(out, Headline{Title: title, URL: absoluteURL(baseURL, href)})
			return true
		})
	}

	collect(doc.Find("ul.news-list li a[href], div.tlitem a[href]"))
	if len(out) < limit {
		collect(doc.Find("a[title][href*='.chn']"))
	}
	return out
}

func absoluteURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil || u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
