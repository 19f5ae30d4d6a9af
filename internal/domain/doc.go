// Package domain models Delaware school-closing reports and the geographic
// catalogs they are reconciled against.
//
// # Data Sources
//
// Closing reports come from a broadcast-style RSS feed. Each item names an
// organization (a school or district, spelled however the station's operators
// typed it), a free-text status line ("Closed", "2 Hour Delay", "Dismissing
// at 11:30"), and a date. The feed is unstructured: there is no entity ID,
// no status enum, and the organization label rarely matches the official
// catalog name exactly.
//
// Catalogs come from the state's ArcGIS FeatureServer layers, one per entity
// class:
//
//	districts — traditional public school districts, identified by display name
//	votech    — the three county vocational-technical districts, identified by
//	            a short internal code (NCCVT, POLYTECH, SUSSEXTECH)
//	charters  — charter schools, identified by display name
//
// Catalogs are loaded once per process and treated as read-only.
//
// # Status Classification
//
// [Classify] maps the concatenated free text of a report to one of a fixed
// set of categories using word-bounded keyword rules, first match wins:
//
//	delay            "delay", "delayed", "delays", "late start", "late open"
//	early_dismissal  "early", "dismiss..." (lenient) or the exact phrase
//	                 "early dismissal" (strict)
//	closed           "closed", "closing", "closure(s)"
//
// Two schemes exist because the feed is ambiguous about non-actionable rows
// (PTA meeting cancelled, athletics postponed). [SchemeLenient] treats every
// unrecognized row as closed; [SchemeStrict] only reports closed on an
// explicit keyword and files everything else under informational. The scheme
// is an explicit parameter, never inferred.
//
// # Entity Matching
//
// Matching is deliberately simple substring work tuned to a small, fixed set
// of entity names — no edit distance, no learned models. Districts and
// votech units have long, specific names, so their catalog core ("Appoquinimink"
// from "Appoquinimink School District") is searched for inside the report
// text. Charter school names are short and collide with common words, so the
// direction is inverted: the report's own label, when long enough, is searched
// for inside the catalog name. See [MatchDistrict], [MatchVotech], and
// [MatchCharters].
//
// A failed match is a normal outcome, not an error: most entities have no
// closing on most days.
package domain
