package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const closingsFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Storm Closings</title>
    <item>
      <title>Appoquinimink School District - Closed</title>
      <organization>Appoquinimink School District</organization>
      <description>&lt;p&gt;Schools &lt;b&gt;closed&lt;/b&gt; today due to weather&lt;/p&gt;</description>
      <pubDate>Mon, 15 Jan 2024 06:00:00 EST</pubDate>
    </item>
    <item>
      <title>Polytech School District</title>
      <description>2 hour delay</description>
      <pubDate>Mon, 15 Jan 2024 06:05:00 EST</pubDate>
    </item>
    <item>
      <title></title>
      <description>orphan row with no label</description>
    </item>
  </channel>
</rss>`

func newTestFeed(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, 0, slog.Default())
}

func TestFetchRows(t *testing.T) {
	client := newTestFeed(t, closingsFixture)

	rows, err := client.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Appoquinimink School District", rows[0].EntityLabel)
	assert.Equal(t, "Schools closed today due to weather", rows[0].DetailText, "HTML markup stripped")
	assert.Equal(t, "Appoquinimink School District - Closed", rows[0].TitleText)
	assert.Equal(t, "Mon, 15 Jan 2024 06:00:00 EST", rows[0].DateText)

	// No organization element: the title is the label.
	assert.Equal(t, "Polytech School District", rows[1].EntityLabel)
	assert.Equal(t, "2 hour delay", rows[1].DetailText)

	// Unlabeled rows pass through here; the reconciler drops them.
	assert.Empty(t, rows[2].EntityLabel)
}

func TestFetchRows_RowOrderPreserved(t *testing.T) {
	client := newTestFeed(t, closingsFixture)

	rows, err := client.FetchRows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Appoquinimink School District", rows[0].EntityLabel)
	assert.Equal(t, "Polytech School District", rows[1].EntityLabel)
}

func TestFetchRows_EmptyFeed(t *testing.T) {
	client := newTestFeed(t, `<?xml version="1.0"?><rss version="2.0"><channel><title>Quiet day</title></channel></rss>`)

	rows, err := client.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchRows_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second, 0, slog.Default())
	_, err := client.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchRows_MalformedFeed(t *testing.T) {
	client := newTestFeed(t, "this is not XML")

	_, err := client.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse closings feed")
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Closed today", "Closed today"},
		{"tags stripped", "<p>2 hour <strong>delay</strong></p>", "2 hour delay"},
		{"nested markup collapsed", "<div><span>Early</span>\n<span>dismissal</span></div>", "Early dismissal"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, htmlToText(tt.in))
		})
	}
}

func TestRows_NilItemSkipped(t *testing.T) {
	rows := Rows(&gofeed.Feed{Items: []*gofeed.Item{nil}})
	assert.Empty(t, rows)
}
