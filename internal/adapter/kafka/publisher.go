// Package kafka publishes reconciliation snapshots for downstream consumers
// (alerting, archival) that follow status changes without polling the API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/adukes40/de-school-closings/internal/config"
	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/observability"
)

// Publisher writes one message per matched entity to the snapshot topic.
// It implements cache.SnapshotPublisher.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// snapshot is the wire form of one matched entity's status.
type snapshot struct {
	Catalog   domain.CatalogType   `json:"catalog"`
	EntityID  string               `json:"entity_id"`
	Record    domain.ClosureRecord `json:"record"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// PublishSnapshot serializes every matched entity across the three catalogs
// and writes them in a single WriteMessages call. An empty result (no
// matches anywhere) publishes nothing and is not an error.
func (p *Publisher) PublishSnapshot(ctx context.Context, result domain.ReconciliationResult) error {
	var msgs []kafkago.Message
	for catalog, matches := range map[domain.CatalogType]domain.MatchResult{
		domain.CatalogDistricts: result.ByDistrict,
		domain.CatalogVotech:    result.ByVotech,
		domain.CatalogCharters:  result.ByCharter,
	} {
		for entityID, record := range matches {
			msg, err := serializeSnapshot(catalog, entityID, record, result.FetchedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}

	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	p.metrics.SnapshotsPublished.Add(float64(len(msgs)))
	p.logger.Debug("snapshot published", "messages", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSnapshot marshals one matched entity into a Kafka message keyed by
// catalog and entity so compacted topics retain the latest status per entity.
func serializeSnapshot(catalog domain.CatalogType, entityID string, record domain.ClosureRecord, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot{
		Catalog:   catalog,
		EntityID:  entityID,
		Record:    record,
		FetchedAt: fetchedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot for %s/%s: %w", catalog, entityID, err)
	}
	return kafkago.Message{
		Key:   []byte(string(catalog) + "/" + entityID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status_category", Value: []byte(record.StatusCategory)},
			{Key: "fetched_at", Value: []byte(fetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
