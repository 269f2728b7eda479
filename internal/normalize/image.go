package normalize

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}

// Known image-hosting domains (matched as suffixes of the host).
var imageHostSuffixes = []string{
	"imgur.com",
	"ytimg.com",
	"cloudinary.com",
	"cloudfront.net",
	"wp.com",
	"imgix.net",
	"gravatar.com",
	"substackcdn.com",
	"googleusercontent.com",
}

// Known news-source domains whose asset URLs rarely carry an extension.
var newsHostSuffixes = []string{
	"thehackernews.com",
	"bleepingcomputer.com",
	"krebsonsecurity.com",
	"darkreading.com",
	"securityweek.com",
	"theregister.com",
	"arstechnica.com",
	"zdnet.com",
	"wired.com",
}

var imageHintSubstrings = []string{"image", "photo", "picture", "thumb"}

// ValidateImageURL upgrades the scheme to https and accepts the URL only if
// it plausibly points at an image: known extension, known image host, known
// news-source host, or an image-indicating substring. Anything else is
// discarded rather than passed through unverified.
func ValidateImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch u.Scheme {
	case "https":
	case "http":
		u.Scheme = "https"
	default:
		return ""
	}

	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	lower := strings.ToLower(u.String())
	path := strings.ToLower(u.Path)

	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return u.String()
		}
	}
	for _, suffix := range imageHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return u.String()
		}
	}
	for _, suffix := range newsHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return u.String()
		}
	}
	for _, hint := range imageHintSubstrings {
		if strings.Contains(lower, hint) {
			return u.String()
		}
	}
	return ""
}

// firstImgSrc returns the src of the first <img> inside the given HTML
// fragment, or "".
func firstImgSrc(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
