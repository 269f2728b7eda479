package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/deusflow/cybernews/internal/article"
	"github.com/deusflow/cybernews/internal/llm"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Complete(context.Context, string, string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestCleanTextStripsTagsAndEntities(t *testing.T) {
	in := "<p>Attackers used <b>malware</b> to breach systems.</p>"
	assert.Equal(t, "Attackers used malware to breach systems.", CleanText(in))
}

func TestCleanTextDecodesFiveEntities(t *testing.T) {
	in := "&quot;Tom &amp; Jerry&quot; &lt;admin&gt; said it&#39;s fine"
	assert.Equal(t, `"Tom & Jerry" <admin> said it's fine`, CleanText(in))
}

func TestCleanTextStripsCDATA(t *testing.T) {
	assert.Equal(t, "Breaking news", CleanText("<![CDATA[Breaking news]]>"))
	assert.Equal(t, "Breaking news", CleanText("&lt;![CDATA[Breaking news]]&gt;"))
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", CleanText("  one\n\ttwo   three \n"))
}

func TestAuthorExplicitFieldWins(t *testing.T) {
	n := New(llm.Disabled(), zerolog.Nop())
	raw := article.Raw{Author: " Jane Doe ", Description: "Written by Somebody Else"}
	assert.Equal(t, "Jane Doe", n.Author(context.Background(), raw))
}

func TestAuthorBylinePattern(t *testing.T) {
	n := New(llm.Disabled(), zerolog.Nop())

	raw := article.Raw{Description: "Written by Maria Santos for the security desk."}
	assert.Equal(t, "Maria Santos", n.Author(context.Background(), raw))

	raw = article.Raw{Content: "<p>Analysis by John Smith</p>"}
	assert.Equal(t, "John Smith", n.Author(context.Background(), raw))
}

func TestAuthorLLMFallbackOnLongContent(t *testing.T) {
	client := &fakeLLM{response: "Alice Example"}
	n := New(client, zerolog.Nop())

	raw := article.Raw{Content: strings.Repeat("the incident unfolded over several weeks ", 5)}
	assert.Equal(t, "Alice Example", n.Author(context.Background(), raw))
	assert.Equal(t, 1, client.calls)
}

func TestAuthorLLMSkippedOnShortContent(t *testing.T) {
	client := &fakeLLM{response: "Alice Example"}
	n := New(client, zerolog.Nop())

	raw := article.Raw{Content: "too short"}
	assert.Equal(t, "", n.Author(context.Background(), raw))
	assert.Equal(t, 0, client.calls)
}

func TestAuthorLLMNoneAndFailuresYieldEmpty(t *testing.T) {
	long := strings.Repeat("lengthy incident narrative without any byline present ", 4)

	n := New(&fakeLLM{response: "NONE"}, zerolog.Nop())
	assert.Equal(t, "", n.Author(context.Background(), article.Raw{Content: long}))

	n = New(&fakeLLM{err: errors.New("timeout")}, zerolog.Nop())
	assert.Equal(t, "", n.Author(context.Background(), article.Raw{Content: long}))
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https extension", "https://example.com/a.png", "https://example.com/a.png"},
		{"http upgraded", "http://example.com/a.jpg", "https://example.com/a.jpg"},
		{"image host", "https://i.imgur.com/abc123", "https://i.imgur.com/abc123"},
		{"news host", "https://www.bleepingcomputer.com/assets/lead", "https://www.bleepingcomputer.com/assets/lead"},
		{"hint substring", "https://example.com/thumb/abc", "https://example.com/thumb/abc"},
		{"rejected html page", "https://example.com/story.html", ""},
		{"rejected scheme", "data:image/png;base64,xxxx", ""},
		{"rejected relative", "/images/a.png", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateImageURL(tt.in))
		})
	}
}

func TestImagePrecedence(t *testing.T) {
	n := New(llm.Disabled(), zerolog.Nop())

	// Explicit field first.
	raw := article.Raw{
		Image:       "https://example.com/lead.jpg",
		Description: `<img src="https://example.com/other.png">`,
	}
	assert.Equal(t, "https://example.com/lead.jpg", n.Image(raw))

	// Enclosure markup next.
	raw = article.Raw{
		Content:     `<enclosure url="https://example.com/enc.png" type="image/png"/>`,
		Description: `<img src="https://example.com/other.png">`,
	}
	assert.Equal(t, "https://example.com/enc.png", n.Image(raw))

	// media:content markup.
	raw = article.Raw{Content: `<media:content url="https://cdn.example.com/photo/551" medium="image"/>`}
	assert.Equal(t, "https://cdn.example.com/photo/551", n.Image(raw))

	// First <img src> in the description.
	raw = article.Raw{Description: `<p>text</p><img src="http://example.com/x.webp"><img src="https://example.com/y.png">`}
	assert.Equal(t, "https://example.com/x.webp", n.Image(raw))

	// Invalid candidates are discarded, later valid ones still win.
	raw = article.Raw{
		Image:       "https://example.com/page.html",
		Description: `<img src="https://example.com/pic.jpeg">`,
	}
	assert.Equal(t, "https://example.com/pic.jpeg", n.Image(raw))

	// Nothing plausible.
	raw = article.Raw{Description: "plain text only"}
	assert.Equal(t, "", n.Image(raw))
}
