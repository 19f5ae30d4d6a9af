// Package fixture holds the mock closings data shared by cmd/genmock and
// cmd/validate, so the generator and the checker cannot drift apart.
package fixture

import (
	"time"

	"github.com/adukes40/de-school-closings/internal/domain"
)

// FrozenAt is the instant both commands freeze the clock to, so the expected
// fetched_at stamp is reproducible.
var FrozenAt = time.Date(2024, time.January, 15, 6, 30, 0, 0, time.UTC)

// Catalogs returns the fixture catalog set: a handful of districts, the three
// votech units, and two charters.
func Catalogs() (domain.Catalogs, error) {
	votech, err := domain.EnrichVotech([]domain.GeoEntity{
		{Key: "NCCVT"}, {Key: "POLYTECH"}, {Key: "SUSSEXTECH"},
	})
	if err != nil {
		return domain.Catalogs{}, err
	}
	return domain.Catalogs{
		Districts: []domain.GeoEntity{
			{Name: "Appoquinimink School District"},
			{Name: "Brandywine School District"},
			{Name: "Caesar Rodney School District"},
			{Name: "Red Clay Consolidated School District"},
		},
		Votech: votech,
		Charters: []domain.GeoEntity{
			{Name: "MOT Charter School"},
			{Name: "Odyssey Charter School (Lower School)"},
		},
	}, nil
}

// Rows covers the interesting shapes: a straight closing, a delay, an early
// dismissal, a votech label, a charter label, a duplicate match that
// exercises first-match-wins, an informational row, and an unlabeled row the
// reconciler must drop.
func Rows() []domain.RawRow {
	return []domain.RawRow{
		{EntityLabel: "Appoquinimink School District", DetailText: "Schools closed today due to weather", DateText: "2024-01-15"},
		{EntityLabel: "Brandywine", DetailText: "2 hour delay", DateText: "2024-01-15"},
		{EntityLabel: "Caesar Rodney School District", DetailText: "Early dismissal at 1pm", DateText: "2024-01-15"},
		{EntityLabel: "Polytech School District", DetailText: "Schools closed today due to weather", DateText: "2024-01-15"},
		{EntityLabel: "MOT Charter", DetailText: "Closed", DateText: "2024-01-15"},
		{EntityLabel: "Appoquinimink", DetailText: "Now closing early", DateText: "2024-01-15"},
		{EntityLabel: "Red Clay Consolidated School District", DetailText: "Evening activities cancelled", DateText: "2024-01-15"},
		{EntityLabel: "", DetailText: "row with no organization", DateText: "2024-01-15"},
	}
}
