package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/observability"
)

type stubFeed struct {
	rows []domain.RawRow
	err  error
}

func (s *stubFeed) FetchRows(_ context.Context) ([]domain.RawRow, error) {
	return s.rows, s.err
}

type stubCatalogs struct {
	cats domain.Catalogs
	err  error
}

func (s *stubCatalogs) Catalogs(_ context.Context) (domain.Catalogs, error) {
	return s.cats, s.err
}

func testCatalogs(t *testing.T) domain.Catalogs {
	t.Helper()
	votech, err := domain.EnrichVotech([]domain.GeoEntity{
		{Key: "NCCVT"}, {Key: "POLYTECH"}, {Key: "SUSSEXTECH"},
	})
	require.NoError(t, err)
	return domain.Catalogs{
		Districts: []domain.GeoEntity{
			{Name: "Appoquinimink School District"},
			{Name: "Caesar Rodney School District"},
		},
		Votech:   votech,
		Charters: []domain.GeoEntity{{Name: "MOT Charter School"}},
	}
}

func newTestEngine(feed FeedSource, catalogs CatalogProvider, scheme domain.Scheme) *Engine {
	return NewEngine(feed, catalogs, scheme, slog.Default(), observability.NewMetricsForTesting())
}

func TestReconcile_EndToEnd(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	feed := &stubFeed{rows: []domain.RawRow{
		{
			EntityLabel: "Polytech School District",
			DetailText:  "Schools closed today due to weather",
			DateText:    "2024-01-15",
		},
	}}
	engine := newTestEngine(feed, &stubCatalogs{cats: testCatalogs(t)}, domain.SchemeStrict)

	result, err := engine.Reconcile(context.Background())
	require.NoError(t, err)

	require.Contains(t, result.ByVotech, "POLYTECH")
	assert.Equal(t, domain.StatusClosed, result.ByVotech["POLYTECH"].StatusCategory)
	assert.Equal(t, "2024-01-15", result.ByVotech["POLYTECH"].Date)
	assert.Equal(t, time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC), result.FetchedAt)
	assert.Len(t, result.Closures, 1)
}

func TestReconcile_EmptyFeed(t *testing.T) {
	engine := newTestEngine(&stubFeed{}, &stubCatalogs{cats: testCatalogs(t)}, domain.SchemeStrict)

	result, err := engine.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Closures)
	assert.Empty(t, result.ByDistrict)
	assert.Empty(t, result.ByVotech)
	assert.Empty(t, result.ByCharter)
	assert.False(t, result.FetchedAt.IsZero())
}

func TestReconcile_EmptyCatalogs(t *testing.T) {
	feed := &stubFeed{rows: []domain.RawRow{
		{EntityLabel: "Appoquinimink", DetailText: "Closed"},
	}}
	engine := newTestEngine(feed, &stubCatalogs{}, domain.SchemeStrict)

	result, err := engine.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Closures, 1, "unmatched records are still reported")
	assert.Empty(t, result.ByDistrict)
}

func TestReconcile_FetchErrors(t *testing.T) {
	t.Run("feed failure", func(t *testing.T) {
		feed := &stubFeed{err: errors.New("503 from station")}
		engine := newTestEngine(feed, &stubCatalogs{cats: testCatalogs(t)}, domain.SchemeStrict)

		_, err := engine.Reconcile(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch feed")
	})

	t.Run("catalog failure", func(t *testing.T) {
		catalogs := &stubCatalogs{err: errors.New("arcgis down")}
		engine := newTestEngine(&stubFeed{}, catalogs, domain.SchemeStrict)

		_, err := engine.Reconcile(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch catalogs")
	})
}

func TestBuild_DropsUnlabeledRows(t *testing.T) {
	engine := newTestEngine(nil, nil, domain.SchemeStrict)
	rows := []domain.RawRow{
		{EntityLabel: "", DetailText: "Closed"},
		{EntityLabel: "   ", DetailText: "Closed"},
		{EntityLabel: "Caesar Rodney", DetailText: "Closed"},
	}

	result := engine.Build(rows, testCatalogs(t))

	require.Len(t, result.Closures, 1)
	assert.Equal(t, "Caesar Rodney", result.Closures[0].SchoolName)
}

func TestBuild_FirstMatchWins(t *testing.T) {
	engine := newTestEngine(nil, nil, domain.SchemeStrict)
	rows := []domain.RawRow{
		{EntityLabel: "Appoquinimink", DetailText: "2 hour delay"},
		{EntityLabel: "Appoquinimink School District", DetailText: "Closed"},
	}

	result := engine.Build(rows, testCatalogs(t))

	require.Contains(t, result.ByDistrict, "Appoquinimink School District")
	got := result.ByDistrict["Appoquinimink School District"]
	assert.Equal(t, "2 hour delay", got.StatusText, "earliest feed-order match must be retained")
	assert.Equal(t, domain.StatusDelay, got.StatusCategory)
	assert.Len(t, result.Closures, 2, "both records remain in the full list")
}

func TestBuild_RecordsClassifiedPerScheme(t *testing.T) {
	rows := []domain.RawRow{{EntityLabel: "Caesar Rodney", DetailText: "Board meeting moved online"}}

	strict := newTestEngine(nil, nil, domain.SchemeStrict).Build(rows, testCatalogs(t))
	assert.Equal(t, domain.StatusInformational, strict.Closures[0].StatusCategory)

	lenient := newTestEngine(nil, nil, domain.SchemeLenient).Build(rows, testCatalogs(t))
	assert.Equal(t, domain.StatusClosed, lenient.Closures[0].StatusCategory)
}
