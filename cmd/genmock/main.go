// Command genmock writes a mock closings RSS file and the matching expected
// reconciliation JSON fixture. It uses the actual domain and reconcile
// packages so the expected output tracks real behavior.
//
// Usage:
//
//	go run ./cmd/genmock -rss-out data/mock/closings.rss -expect-out data/mock/expected.json
package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/fixture"
	"github.com/adukes40/de-school-closings/internal/observability"
	"github.com/adukes40/de-school-closings/internal/reconcile"
)

type rssItem struct {
	Title        string `xml:"title"`
	Organization string `xml:"organization,omitempty"`
	Description  string `xml:"description"`
	PubDate      string `xml:"pubDate"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rssOut := flag.String("rss-out", "", "output path for the mock closings RSS file")
	expectOut := flag.String("expect-out", "", "output path for the expected reconciliation JSON")
	flag.Parse()

	if *rssOut == "" || *expectOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -rss-out, -expect-out")
	}

	// Fixed clock so the expected FetchedAt is reproducible; cmd/validate
	// freezes the same instant.
	domain.SetClock(clockwork.NewFakeClockAt(fixture.FrozenAt))
	defer domain.SetClock(nil)

	rows := fixture.Rows()
	if err := writeRSS(*rssOut, rows); err != nil {
		return err
	}

	cats, err := fixture.Catalogs()
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(nil, nil, domain.SchemeStrict, slog.Default(), observability.NewMetricsForTesting())
	result := engine.Build(rows, cats)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal expected result: %w", err)
	}
	if err := os.WriteFile(*expectOut, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *expectOut, err)
	}

	fmt.Printf("wrote %s (%d rows) and %s (%d closures)\n",
		*rssOut, len(rows), *expectOut, len(result.Closures))
	return nil
}

func writeRSS(path string, rows []domain.RawRow) error {
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{Title: "Mock Storm Closings"},
	}
	for _, row := range rows {
		// The unlabeled row keeps an empty title too, so a round-trip through
		// the feed parser reproduces the same raw rows.
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:        row.EntityLabel,
			Organization: row.EntityLabel,
			Description:  row.DetailText,
			PubDate:      row.DateText,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rss: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
