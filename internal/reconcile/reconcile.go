// Package reconcile orchestrates one refresh cycle: fetch the closings feed
// and the three catalogs, normalize and classify each row, and build the
// first-match-wins lookup maps.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/observability"
)

// FeedSource fetches raw rows from the closings feed.
type FeedSource interface {
	FetchRows(ctx context.Context) ([]domain.RawRow, error)
}

// CatalogProvider supplies the three entity catalogs. Implementations cache
// for the process lifetime; catalogs change far less often than the feed.
type CatalogProvider interface {
	Catalogs(ctx context.Context) (domain.Catalogs, error)
}

// Engine runs reconciliation passes. It holds no mutable state of its own;
// serialization of concurrent refreshes belongs to the cache layer.
type Engine struct {
	feed     FeedSource
	catalogs CatalogProvider
	scheme   domain.Scheme
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEngine creates an Engine with the given sources and observability.
func NewEngine(feed FeedSource, catalogs CatalogProvider, scheme domain.Scheme, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		feed:     feed,
		catalogs: catalogs,
		scheme:   scheme,
		logger:   logger,
		metrics:  metrics,
	}
}

// Reconcile fetches the catalogs and the feed concurrently, waits for both,
// and builds a fresh result. Either fetch failing fails the whole pass; the
// caller (the freshness cache) decides whether stale data is still served.
func (e *Engine) Reconcile(ctx context.Context) (domain.ReconciliationResult, error) {
	start := time.Now()

	type feedResult struct {
		rows []domain.RawRow
		err  error
	}
	feedCh := make(chan feedResult, 1)
	go func() {
		rows, err := e.feed.FetchRows(ctx)
		feedCh <- feedResult{rows: rows, err: err}
	}()

	cats, catErr := e.catalogs.Catalogs(ctx)
	fr := <-feedCh

	if catErr != nil {
		e.metrics.Refreshes.WithLabelValues("error").Inc()
		return domain.ReconciliationResult{}, fmt.Errorf("fetch catalogs: %w", catErr)
	}
	if fr.err != nil {
		e.metrics.Refreshes.WithLabelValues("error").Inc()
		return domain.ReconciliationResult{}, fmt.Errorf("fetch feed: %w", fr.err)
	}

	result := e.Build(fr.rows, cats)

	e.metrics.Refreshes.WithLabelValues("success").Inc()
	e.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	e.logger.Info("reconciliation complete",
		"rows", len(fr.rows),
		"closures", len(result.Closures),
		"districts_matched", len(result.ByDistrict),
		"votech_matched", len(result.ByVotech),
		"charters_matched", len(result.ByCharter),
	)
	return result, nil
}

// Build is the pure assembly step: normalize rows, classify, match against
// all three catalogs, and stamp FetchedAt. Empty catalogs and an empty feed
// are valid inputs producing empty maps, never errors.
func (e *Engine) Build(rows []domain.RawRow, cats domain.Catalogs) domain.ReconciliationResult {
	e.metrics.FeedRows.Add(float64(len(rows)))

	records := make([]domain.ClosureRecord, 0, len(rows))
	for _, row := range rows {
		record, ok := domain.NewClosureRecord(row, e.scheme)
		if !ok {
			// A row with no entity label carries no information.
			e.metrics.RowsDropped.Inc()
			continue
		}
		e.metrics.Classifications.WithLabelValues(string(record.StatusCategory)).Inc()
		records = append(records, record)
	}

	byDistrict := make(domain.MatchResult)
	byVotech := make(domain.MatchResult)
	for _, record := range records {
		if name, ok := domain.MatchDistrict(record, cats.Districts); ok {
			if _, taken := byDistrict[name]; !taken {
				byDistrict[name] = record
			}
		}
		if key, ok := domain.MatchVotech(record, cats.Votech); ok {
			if _, taken := byVotech[key]; !taken {
				byVotech[key] = record
			}
		}
	}
	byCharter := domain.MatchCharters(records, cats.Charters)

	e.metrics.Matches.WithLabelValues(string(domain.CatalogDistricts)).Add(float64(len(byDistrict)))
	e.metrics.Matches.WithLabelValues(string(domain.CatalogVotech)).Add(float64(len(byVotech)))
	e.metrics.Matches.WithLabelValues(string(domain.CatalogCharters)).Add(float64(len(byCharter)))

	return domain.ReconciliationResult{
		Closures:   records,
		ByDistrict: byDistrict,
		ByVotech:   byVotech,
		ByCharter:  byCharter,
		FetchedAt:  domain.Now(),
	}
}
