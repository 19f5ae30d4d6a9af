// Command validate performs integrity checks on the mock closings fixtures:
// it re-parses the RSS file through the real feed adapter, rebuilds the
// reconciliation with a frozen clock, and compares the outcome against the
// expected JSON written by cmd/genmock.
//
// Usage:
//
//	go run ./cmd/validate -rss data/mock/closings.rss -expect data/mock/expected.json
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"

	"github.com/adukes40/de-school-closings/internal/adapter/feed"
	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/fixture"
	"github.com/adukes40/de-school-closings/internal/observability"
	"github.com/adukes40/de-school-closings/internal/reconcile"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rssPath := flag.String("rss", "", "path to the mock closings RSS file")
	expectPath := flag.String("expect", "", "path to the expected reconciliation JSON")
	flag.Parse()

	if *rssPath == "" || *expectPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rssPath, *expectPath); code != 0 {
		os.Exit(code)
	}
}

func run(rssPath, expectPath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(fixture.FrozenAt))
	defer domain.SetClock(nil)

	expected, err := loadExpected(expectPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rows, err := loadRows(rssPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cats, err := fixture.Catalogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	engine := reconcile.NewEngine(nil, nil, domain.SchemeStrict, slog.Default(), observability.NewMetricsForTesting())
	rebuilt := engine.Build(rows, cats)

	phases := []*phase{
		checkClosures(expected, rebuilt),
		checkMatches("districts", expected.ByDistrict, rebuilt.ByDistrict),
		checkMatches("votech", expected.ByVotech, rebuilt.ByVotech),
		checkMatches("charters", expected.ByCharter, rebuilt.ByCharter),
		checkFetchedAt(rebuilt),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

func loadExpected(path string) (domain.ReconciliationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("read expected fixture: %w", err)
	}
	var expected domain.ReconciliationResult
	if err := json.Unmarshal(data, &expected); err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("parse expected fixture: %w", err)
	}
	return expected, nil
}

func loadRows(path string) ([]domain.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rss fixture: %w", err)
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse rss fixture: %w", err)
	}
	return feed.Rows(parsed), nil
}

// checkClosures compares record counts and per-school classification. Titles
// are excluded: the RSS round trip fills them in from the item title, which
// the expected fixture leaves blank.
func checkClosures(expected, rebuilt domain.ReconciliationResult) *phase {
	p := &phase{name: "closure records"}

	if len(expected.Closures) != len(rebuilt.Closures) {
		p.errorf("closure count: expected %d, got %d", len(expected.Closures), len(rebuilt.Closures))
		return p
	}
	for i, want := range expected.Closures {
		got := rebuilt.Closures[i]
		if want.SchoolName != got.SchoolName {
			p.errorf("closure %d: school %q, got %q", i, want.SchoolName, got.SchoolName)
		}
		if want.StatusCategory != got.StatusCategory {
			p.errorf("closure %d (%s): category %s, got %s", i, want.SchoolName, want.StatusCategory, got.StatusCategory)
		}
		if want.Date != got.Date {
			p.errorf("closure %d (%s): date %q, got %q", i, want.SchoolName, want.Date, got.Date)
		}
	}
	return p
}

func checkMatches(name string, expected, rebuilt domain.MatchResult) *phase {
	p := &phase{name: name + " matches"}

	for id, want := range expected {
		got, ok := rebuilt[id]
		if !ok {
			p.errorf("%s: missing match", id)
			continue
		}
		if want.SchoolName != got.SchoolName || want.StatusCategory != got.StatusCategory {
			p.errorf("%s: expected %s/%s, got %s/%s",
				id, want.SchoolName, want.StatusCategory, got.SchoolName, got.StatusCategory)
		}
	}
	for id := range rebuilt {
		if _, ok := expected[id]; !ok {
			p.errorf("%s: unexpected match", id)
		}
	}
	return p
}

func checkFetchedAt(rebuilt domain.ReconciliationResult) *phase {
	p := &phase{name: "fetched_at stamp"}
	if !rebuilt.FetchedAt.Equal(fixture.FrozenAt) {
		p.errorf("expected %s, got %s", fixture.FrozenAt, rebuilt.FetchedAt)
	}
	return p
}
