package arcgis

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adukes40/de-school-closings/internal/domain"
)

const districtsFixture = `{
	"features": [
		{"attributes": {"NAME": "Appoquinimink School District"}},
		{"attributes": {"NAME": "Brandywine School District"}},
		{"attributes": {"NAME": "  "}},
		{"attributes": {"NAME": "Caesar Rodney School District"}}
	]
}`

const votechFixture = `{
	"features": [
		{"attributes": {"CODE": "NCCVT"}},
		{"attributes": {"CODE": "POLYTECH"}},
		{"attributes": {"CODE": "SUSSEXTECH"}}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(url, url, url, 2*time.Second, 0, slog.Default())
}

func TestFetchCatalog_Districts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(districtsFixture)) //nolint:errcheck
	}))
	defer srv.Close()

	entities, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogDistricts)
	require.NoError(t, err)

	require.Len(t, entities, 3, "blank names are skipped")
	assert.Equal(t, "Appoquinimink School District", entities[0].Name)
	assert.Equal(t, "Caesar Rodney School District", entities[2].Name)
	assert.Empty(t, entities[0].Key)
}

func TestFetchCatalog_VotechUsesKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(votechFixture)) //nolint:errcheck
	}))
	defer srv.Close()

	entities, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogVotech)
	require.NoError(t, err)

	require.Len(t, entities, 3)
	assert.Equal(t, "NCCVT", entities[0].Key)
	assert.Empty(t, entities[0].Name)
}

func TestFetchCatalog_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogDistricts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestFetchCatalog_ArcGISErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid query parameters"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogDistricts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query parameters")
}

func TestFetchCatalog_MissingFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"fields": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogDistricts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no features array")
}

func TestFetchCatalog_EmptyFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features": []}`)) //nolint:errcheck
	}))
	defer srv.Close()

	entities, err := newTestClient(srv.URL).FetchCatalog(context.Background(), domain.CatalogDistricts)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestFetchCatalog_UnknownCatalog(t *testing.T) {
	_, err := newTestClient("http://localhost").FetchCatalog(context.Background(), domain.CatalogType("parochial"))
	require.Error(t, err)
}
