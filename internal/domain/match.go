package domain

import (
	"regexp"
	"strings"
)

var (
	// districtSuffixRe strips the trailing "school district" phrase from a
	// catalog name, leaving the distinctive core ("Appoquinimink School
	// District" -> "Appoquinimink").
	districtSuffixRe = regexp.MustCompile(`(?i)\s*school\s+district\s*$`)

	// parentheticalRe strips a trailing parenthetical qualifier from a
	// charter name, e.g. "Odyssey Charter School (Lower School)".
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// recordText is the lowercased haystack the district and votech strategies
// search: the raw entity label plus the free-text status line.
func recordText(rec ClosureRecord) string {
	return strings.ToLower(rec.SchoolName + " " + rec.StatusText)
}

// districtCore lowercases a district name and removes the "school district"
// suffix. Cores of length <= 2 are useless as search terms and are skipped
// by the matchers.
func districtCore(name string) string {
	return strings.ToLower(strings.TrimSpace(districtSuffixRe.ReplaceAllString(name, "")))
}

// MatchDistrict returns the name of the first catalog district (in catalog
// order) whose core appears in the record's text, or ok=false when none does.
func MatchDistrict(rec ClosureRecord, districts []GeoEntity) (string, bool) {
	text := recordText(rec)
	for _, d := range districts {
		core := districtCore(d.Name)
		if len(core) <= 2 {
			continue
		}
		if strings.Contains(text, core) {
			return d.Name, true
		}
	}
	return "", false
}

// MatchVotech returns the key of the first votech unit (in catalog order)
// matched by any of three signals, checked in order: the display-name core,
// a declared alias match term, or the raw key itself.
func MatchVotech(rec ClosureRecord, votech []GeoEntity) (string, bool) {
	text := recordText(rec)
	for _, v := range votech {
		if core := districtCore(v.DisplayName); len(core) > 2 && strings.Contains(text, core) {
			return v.Key, true
		}
		if matchesAlias(text, v.MatchTerms) {
			return v.Key, true
		}
		if key := strings.ToLower(v.Key); key != "" && strings.Contains(text, key) {
			return v.Key, true
		}
	}
	return "", false
}

func matchesAlias(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// MatchCharters runs the inverted charter strategy over the whole record
// list: for each charter, scan records in feed order and keep the first one
// whose text contains the charter's core, or whose own label (when longer
// than 5 characters) appears inside the core. Charter names are short enough
// that the length floor is what keeps common words from matching.
func MatchCharters(records []ClosureRecord, charters []GeoEntity) MatchResult {
	matched := make(MatchResult)
	for _, c := range charters {
		core := strings.ToLower(strings.TrimSpace(parentheticalRe.ReplaceAllString(c.Name, "")))
		if core == "" {
			continue
		}
		for _, rec := range records {
			label := strings.ToLower(rec.SchoolName)
			if strings.Contains(recordText(rec), core) || (len(label) > 5 && strings.Contains(core, label)) {
				matched[c.Name] = rec
				break
			}
		}
	}
	return matched
}
