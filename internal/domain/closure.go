package domain

import (
	"strings"
	"time"
)

// CatalogType identifies one of the three disjoint entity catalogs.
type CatalogType string

const (
	CatalogDistricts CatalogType = "districts"
	CatalogVotech    CatalogType = "votech"
	CatalogCharters  CatalogType = "charters"
)

// GeoEntity is one named geographic/administrative unit belonging to exactly
// one catalog. Districts and charters are identified by Name; votech units by
// Key, with DisplayName and MatchTerms filled in from the static votech table.
type GeoEntity struct {
	Name        string   `json:"name,omitempty"`
	Key         string   `json:"key,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	MatchTerms  []string `json:"-"`
}

// ID returns the identifier used in match maps: Key for votech units,
// Name otherwise.
func (e GeoEntity) ID() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Name
}

// Catalogs bundles the three entity catalogs loaded from upstream.
type Catalogs struct {
	Districts []GeoEntity `json:"districts"`
	Votech    []GeoEntity `json:"votech"`
	Charters  []GeoEntity `json:"charters"`
}

// RawRow is one unprocessed row from the closings feed.
type RawRow struct {
	EntityLabel string
	DetailText  string
	TitleText   string
	DateText    string
}

// ClosureRecord is one normalized feed row after classification. Records are
// rebuilt wholesale on every refresh and never mutated afterwards.
type ClosureRecord struct {
	SchoolName     string         `json:"school_name"`
	StatusText     string         `json:"status_text"`
	Title          string         `json:"title,omitempty"`
	Date           string         `json:"date,omitempty"`
	StatusCategory StatusCategory `json:"status_category"`
}

// NewClosureRecord normalizes a raw feed row. The returned ok is false for
// rows with an empty entity label, which carry no information and are dropped.
func NewClosureRecord(row RawRow, scheme Scheme) (ClosureRecord, bool) {
	if strings.TrimSpace(row.EntityLabel) == "" {
		return ClosureRecord{}, false
	}
	rec := ClosureRecord{
		SchoolName: strings.TrimSpace(row.EntityLabel),
		StatusText: strings.TrimSpace(row.DetailText),
		Title:      strings.TrimSpace(row.TitleText),
		Date:       strings.TrimSpace(row.DateText),
	}
	rec.StatusCategory = Classify(rec.StatusText+" "+rec.SchoolName+" "+rec.Title, scheme)
	return rec, true
}

// MatchResult maps an entity identifier (district name, votech key, or charter
// name) to the closure record that matched it. At most one record per entity:
// when several records match, the earliest in feed order is kept.
type MatchResult map[string]ClosureRecord

// ReconciliationResult is the bundle handed to consumers: every normalized
// record (matched or not), the three first-match-wins maps, and the instant
// the result was produced.
type ReconciliationResult struct {
	Closures   []ClosureRecord `json:"closures"`
	ByDistrict MatchResult     `json:"by_district"`
	ByVotech   MatchResult     `json:"by_votech"`
	ByCharter  MatchResult     `json:"by_charter"`
	FetchedAt  time.Time       `json:"fetched_at"`
}
