package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/config"
)

const validRSS = `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Test Security Feed</title>
<item>
<title>Ransomware gang hits hospital</title>
<link>https://example.com/ransomware-hospital</link>
<pubDate>Mon, 18 Aug 2025 10:00:00 GMT</pubDate>
<dc:creator>Jane Doe</dc:creator>
<description>Patient systems encrypted overnight.</description>
</item>
<item>
<title>Second story</title>
<link>https://example.com/second</link>
<description>More details.</description>
</item>
</channel>
</rss>`

func testFeedConfig(relays []string) *config.Config {
	return &config.Config{
		RelayEndpoints: relays,
		RequestTimeout: 2 * time.Second,
	}
}

func TestRSSFetchStrictParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(validRSS))
	}))
	defer srv.Close()

	feed := NewRSSFeed([]string{srv.URL}, testFeedConfig(nil), zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)

	require.Len(t, raws, 2)
	assert.Equal(t, "Ransomware gang hits hospital", raws[0].Title)
	assert.Equal(t, "https://example.com/ransomware-hospital", raws[0].Link)
	assert.Equal(t, "Test Security Feed", raws[0].Source)
	assert.Equal(t, "Patient systems encrypted overnight.", raws[0].Description)
}

func TestRSSFetchRelayFallback(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("url"))
		w.Write([]byte(validRSS))
	}))
	defer relay.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer dead.Close()

	feed := NewRSSFeed([]string{dead.URL}, testFeedConfig([]string{relay.URL + "/?url="}), zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)
	assert.Len(t, raws, 2)
}

func TestRSSFetchFirstTransportWins(t *testing.T) {
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(validRSS))
	}))
	defer direct.Close()

	relayCalls := 0
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		relayCalls++
		w.Write([]byte(validRSS))
	}))
	defer relay.Close()

	feed := NewRSSFeed([]string{direct.URL}, testFeedConfig([]string{relay.URL + "/?url="}), zerolog.Nop())
	feed.Fetch(context.Background(), article.CategoryCybersecurity)
	assert.Zero(t, relayCalls, "relay must not be tried when the direct fetch succeeds")
}

func TestRSSFetchUnreachableFeedYieldsEmpty(t *testing.T) {
	feed := NewRSSFeed([]string{"http://127.0.0.1:1/feed"}, testFeedConfig(nil), zerolog.Nop())
	raws := feed.Fetch(context.Background(), article.CategoryCybersecurity)
	assert.Empty(t, raws)
}

func TestExtractItemsTolerantPath(t *testing.T) {
	// Broken XML the strict parser rejects (unclosed channel, stray tag)
	// but whose <item> blocks are intact.
	payload := `<rss><channel><badtag>
<item>
<title><![CDATA[Zero-day in edge appliance]]></title>
<link>https://example.com/zero-day</link>
<pubDate>Tue, 19 Aug 2025 09:30:00 GMT</pubDate>
<dc:creator><![CDATA[Bob Writer]]></dc:creator>
<description>Vendor ships emergency patch.</description>
</item>
<item>
<title></title>
<link>https://example.com/dropped</link>
</item>`

	raws := extractItems(payload, "https://www.feeds.example.com/rss")
	require.Len(t, raws, 1)
	assert.Equal(t, "Zero-day in edge appliance", raws[0].Title)
	assert.Equal(t, "https://example.com/zero-day", raws[0].Link)
	assert.Equal(t, "Bob Writer", raws[0].Author)
	assert.Equal(t, "feeds.example.com", raws[0].Source)
}

func TestExtractItemsAtomLinkHref(t *testing.T) {
	payload := `<item>
<title>Atom style entry</title>
<link href="https://example.com/atom-entry" rel="alternate"/>
</item>`

	raws := extractItems(payload, "https://example.com/feed")
	require.Len(t, raws, 1)
	assert.Equal(t, "https://example.com/atom-entry", raws[0].Link)
}

func TestDegradedFirstItem(t *testing.T) {
	// An unterminated item block: the tolerant extractor finds nothing, the
	// degraded path still salvages one entry.
	payload := `<rss><channel>
<item>
<title>Salvaged story</title>
<link>https://example.com/salvaged</link>
<description>Partial payload.</description>`

	assert.Empty(t, extractItems(payload, "https://example.com/feed"))

	raw, ok := degradedFirstItem(payload, "https://example.com/feed")
	require.True(t, ok)
	assert.Equal(t, "Salvaged story", raw.Title)
	assert.Equal(t, "https://example.com/salvaged", raw.Link)
}

func TestDegradedFirstItemNoMarkers(t *testing.T) {
	_, ok := degradedFirstItem("<rss><channel></channel></rss>", "https://example.com/feed")
	assert.False(t, ok)
}

func TestStripCDATA(t *testing.T) {
	assert.Equal(t, "plain", stripCDATA("<![CDATA[plain]]>"))
	assert.Equal(t, "untouched", stripCDATA("untouched"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "krebsonsecurity.com", hostOf("https://www.krebsonsecurity.com/feed/"))
	assert.Equal(t, "rss", hostOf("::not-a-url"))
}
