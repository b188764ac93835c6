// Package metadata fetches display metadata for a page being saved: title,
// description and favicon. Everything here is best effort, a page that
// cannot be fetched still gets bookmarked.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/utils"
)

const maxBodySize = 2 << 20

// Fetcher pulls page metadata over HTTP.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the page's metadata. On any failure it falls back to the URL
// itself as the title, so callers can use the result unconditionally.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) domain.BookmarkMeta {
	fallback := domain.BookmarkMeta{Title: pageURL}

	meta, err := f.fetch(ctx, pageURL)
	if err != nil {
		return fallback
	}
	if meta.Title == "" {
		meta.Title = pageURL
	}
	return meta
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) (domain.BookmarkMeta, error) {
	var meta domain.BookmarkMeta

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return meta, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return meta, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return meta, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return meta, fmt.Errorf("failed to parse page: %w", err)
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		meta.Title = strings.TrimSpace(og)
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}

	if icon, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href"); ok {
		meta.Favicon = resolveFavicon(pageURL, icon)
	}

	return meta, nil
}

// resolveFavicon turns a possibly relative icon href into an absolute URL.
func resolveFavicon(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
