// Package feed fetches and normalizes the broadcast closings RSS feed.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mmcdole/gofeed"

	"github.com/adukes40/de-school-closings/internal/domain"
)

// Client implements reconcile.FeedSource against a closings RSS feed.
type Client struct {
	httpClient *retryablehttp.Client
	url        string
	logger     *slog.Logger
}

// NewClient creates a feed client for the given RSS URL.
func NewClient(url string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		httpClient: rc,
		url:        url,
		logger:     logger,
	}
}

// FetchRows downloads and parses the feed, returning one raw row per item in
// feed order. Feed order matters downstream: the first-match-wins rule keys
// off it.
func (c *Client) FetchRows(ctx context.Context) ([]domain.RawRow, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch closings feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("closings feed: status %d: %s", resp.StatusCode, body)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse closings feed: %w", err)
	}

	rows := Rows(parsed)
	c.logger.Debug("closings feed fetched", "items", len(parsed.Items), "rows", len(rows))
	return rows, nil
}

// Rows converts a parsed feed into raw rows. The organization label comes
// from the feed's custom per-item element when the station provides one,
// falling back to the item title; the detail text is the item description
// with any HTML markup reduced to text.
func Rows(parsed *gofeed.Feed) []domain.RawRow {
	rows := make([]domain.RawRow, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		label := item.Custom["organization"]
		if strings.TrimSpace(label) == "" {
			label = item.Title
		}

		rows = append(rows, domain.RawRow{
			EntityLabel: strings.TrimSpace(label),
			DetailText:  htmlToText(item.Description),
			TitleText:   strings.TrimSpace(item.Title),
			DateText:    strings.TrimSpace(item.Published),
		})
	}
	return rows
}

// htmlToText strips markup from a feed description. Stations wrap status
// lines in ad-hoc HTML; the classifier only wants the words.
func htmlToText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
