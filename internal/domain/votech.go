package domain

import "fmt"

// votechInfo is one entry of the static code table enriching the votech
// catalog. The upstream layer only carries the short code; display names and
// the free-text aliases used for matching live here.
type votechInfo struct {
	DisplayName string
	MatchTerms  []string
}

// votechTable maps the three Delaware vocational-technical district codes to
// their display names and match aliases. Aliases are matched as lowercase
// substrings of feed text, so they cover the spellings the feed actually uses.
var votechTable = map[string]votechInfo{
	"NCCVT": {
		DisplayName: "New Castle County Vocational-Technical School District",
		MatchTerms:  []string{"new castle county vo", "vo-tech", "votech"},
	},
	"POLYTECH": {
		DisplayName: "POLYTECH School District",
		MatchTerms:  []string{"polytech"},
	},
	"SUSSEXTECH": {
		DisplayName: "Sussex Technical School District",
		MatchTerms:  []string{"sussex tech"},
	},
}

// VotechDisplayName resolves a votech code to its display name.
func VotechDisplayName(key string) (string, bool) {
	info, ok := votechTable[key]
	return info.DisplayName, ok
}

// EnrichVotech fills DisplayName and MatchTerms for each votech catalog entry
// from the static table. A code missing from the table is a startup error:
// failing fast here beats serving entities with no display name.
func EnrichVotech(entities []GeoEntity) ([]GeoEntity, error) {
	enriched := make([]GeoEntity, 0, len(entities))
	for _, e := range entities {
		info, ok := votechTable[e.Key]
		if !ok {
			return nil, fmt.Errorf("votech code %q has no table entry", e.Key)
		}
		e.DisplayName = info.DisplayName
		e.MatchTerms = info.MatchTerms
		enriched = append(enriched, e)
	}
	return enriched, nil
}
