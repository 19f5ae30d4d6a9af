// Package arcgis fetches the three entity catalogs from ArcGIS FeatureServer
// query endpoints.
package arcgis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/adukes40/de-school-closings/internal/domain"
)

// layer describes how to read one catalog out of its FeatureServer layer.
type layer struct {
	url   string
	field string // attribute holding the entity name or code
	key   bool   // true when the attribute is a short code, not a display name
}

// Client implements cache.CatalogSource against ArcGIS query endpoints.
// Transient upstream failures are retried by the underlying client; anything
// that survives the retries is propagated so the caller never sees partial
// catalogs.
type Client struct {
	httpClient *retryablehttp.Client
	layers     map[domain.CatalogType]layer
	logger     *slog.Logger
}

// NewClient creates a catalog client for the given per-catalog query URLs.
func NewClient(districtsURL, votechURL, chartersURL string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil
	// Hand the final response back even when retries are exhausted, so the
	// status-code handling below owns the error message.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		httpClient: rc,
		layers: map[domain.CatalogType]layer{
			domain.CatalogDistricts: {url: districtsURL, field: "NAME"},
			domain.CatalogVotech:    {url: votechURL, field: "CODE", key: true},
			domain.CatalogCharters:  {url: chartersURL, field: "NAME"},
		},
		logger: logger,
	}
}

// FetchCatalog queries one catalog layer and returns its entities in layer
// order. Layer order is significant: the matchers honor catalog iteration
// order when several entities could match.
func (c *Client) FetchCatalog(ctx context.Context, catalog domain.CatalogType) ([]domain.GeoEntity, error) {
	l, ok := c.layers[catalog]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", catalog)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s layer: %w", catalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("arcgis %s layer: status %d: %s", catalog, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s layer response: %w", catalog, err)
	}

	// ArcGIS reports failures with a 200 status and an error object.
	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, fmt.Errorf("arcgis %s layer: %s", catalog, apiErr.Get("message").String())
	}

	features := gjson.GetBytes(body, "features")
	if !features.Exists() {
		return nil, fmt.Errorf("arcgis %s layer: no features array in response", catalog)
	}

	var entities []domain.GeoEntity
	features.ForEach(func(_, feature gjson.Result) bool {
		value := strings.TrimSpace(feature.Get("attributes." + l.field).String())
		if value == "" {
			return true
		}
		if l.key {
			entities = append(entities, domain.GeoEntity{Key: value})
		} else {
			entities = append(entities, domain.GeoEntity{Name: value})
		}
		return true
	})

	c.logger.Debug("catalog fetched", "catalog", catalog, "entities", len(entities))
	return entities, nil
}
