package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/observability"
)

// CatalogSource fetches one entity catalog from upstream.
type CatalogSource interface {
	FetchCatalog(ctx context.Context, catalog domain.CatalogType) ([]domain.GeoEntity, error)
}

// CatalogCache loads the three catalogs once and keeps them for the process
// lifetime; there is no TTL because the catalogs change far less often than
// the closings feed. A failed load leaves the cache unpopulated so the next
// call retries, and no partial catalogs are ever stored.
type CatalogCache struct {
	source  CatalogSource
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	loaded bool
	cats   domain.Catalogs
}

// NewCatalogCache creates an empty catalog cache around a source.
func NewCatalogCache(source CatalogSource, logger *slog.Logger, metrics *observability.Metrics) *CatalogCache {
	return &CatalogCache{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Catalogs returns the cached catalogs, fetching all three concurrently on
// first use. Votech entries are enriched from the static code table; an
// unknown code fails the load.
func (c *CatalogCache) Catalogs(ctx context.Context) (domain.Catalogs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.cats, nil
	}

	type fetchResult struct {
		catalog  domain.CatalogType
		entities []domain.GeoEntity
		err      error
	}

	catalogTypes := []domain.CatalogType{domain.CatalogDistricts, domain.CatalogVotech, domain.CatalogCharters}
	results := make(chan fetchResult, len(catalogTypes))
	for _, ct := range catalogTypes {
		go func() {
			entities, err := c.source.FetchCatalog(ctx, ct)
			results <- fetchResult{catalog: ct, entities: entities, err: err}
		}()
	}

	var cats domain.Catalogs
	for range catalogTypes {
		r := <-results
		if r.err != nil {
			return domain.Catalogs{}, fmt.Errorf("fetch %s catalog: %w", r.catalog, r.err)
		}
		switch r.catalog {
		case domain.CatalogDistricts:
			cats.Districts = r.entities
		case domain.CatalogVotech:
			cats.Votech = r.entities
		case domain.CatalogCharters:
			cats.Charters = r.entities
		}
	}

	votech, err := domain.EnrichVotech(cats.Votech)
	if err != nil {
		return domain.Catalogs{}, err
	}
	cats.Votech = votech

	c.cats = cats
	c.loaded = true

	c.metrics.CatalogEntities.WithLabelValues(string(domain.CatalogDistricts)).Set(float64(len(cats.Districts)))
	c.metrics.CatalogEntities.WithLabelValues(string(domain.CatalogVotech)).Set(float64(len(cats.Votech)))
	c.metrics.CatalogEntities.WithLabelValues(string(domain.CatalogCharters)).Set(float64(len(cats.Charters)))
	c.logger.Info("catalogs loaded",
		"districts", len(cats.Districts),
		"votech", len(cats.Votech),
		"charters", len(cats.Charters),
	)

	return cats, nil
}
