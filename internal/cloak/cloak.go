// Package cloak decides what a short-link visit gets back: crawlers fetching
// a link preview receive a metadata document, everyone else an immediate
// redirect to the destination. The package is pure so the classification and
// URL normalization can be tested without any web-framework scaffolding.
package cloak

import (
	"fmt"
	"net/url"
	"strings"

	"linkcard-be/internal/entities"
)

// Classification is the outcome of inspecting a visitor's user agent.
type Classification int

const (
	Human Classification = iota
	Bot
)

// Crawler signatures used by major social and messaging platforms when
// fetching link previews. Meta crawlers (2024+) may use meta-externalagent /
// meta-externalfetcher. Keep the list permissive so previews always see the
// metadata tags.
var botSignatures = []string{
	"facebookexternalhit",
	"facebot",
	"meta-externalagent",
	"meta-externalfetcher",
	"twitterbot",
	"linkedinbot",
	"slackbot",
	"whatsapp",
	"telegrambot",
}

// Classify matches the user agent case-insensitively against the crawler
// signature list. Any substring match means Bot.
func Classify(userAgent string) Classification {
	ua := strings.ToLower(userAgent)
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return Bot
		}
	}
	return Human
}

// RequestInfo carries the request signals the resolver needs.
type RequestInfo struct {
	Scheme    string
	Host      string
	UserAgent string
	VisitURL  string // the slug's own absolute visit URL
}

// Metadata is the crawler-facing payload. It must be rendered as a document
// carrying the preview tags, never as a server-side redirect; navigating the
// visitor onward is left to the rendered page's own script.
type Metadata struct {
	Title       string
	Description string
	ImageURL    string // always absolute
	CanonicalURL string
	DestURL     string
	SiteName    string
	CardSize    string
	ButtonText  string
}

// Resolution is the terminal decision for a found slug: exactly one of
// Redirect or Metadata is set.
type Resolution struct {
	Classification Classification
	RedirectURL    string    // set for Human
	Metadata       *Metadata // set for Bot
}

// Resolve classifies the visitor and produces the response shape for link.
func Resolve(link *entities.Link, req RequestInfo) Resolution {
	if Classify(req.UserAgent) == Human {
		return Resolution{Classification: Human, RedirectURL: link.DestURL}
	}

	canonical := req.VisitURL
	if link.OGURL != nil && *link.OGURL != "" {
		canonical = *link.OGURL
	}

	cardSize := link.CardSize
	if cardSize == "" {
		cardSize = "large"
	}

	md := &Metadata{
		Title:        link.Title,
		Description:  link.Description,
		ImageURL:     AbsoluteImageURL(link.ImgURL, req.Scheme, req.Host),
		CanonicalURL: canonical,
		DestURL:      link.DestURL,
		CardSize:     cardSize,
	}
	if link.SiteName != nil {
		md.SiteName = *link.SiteName
	}
	if link.ButtonText != nil {
		md.ButtonText = *link.ButtonText
	}
	return Resolution{Classification: Bot, Metadata: md}
}

// AbsoluteImageURL normalizes raw into an absolute URL. A site-relative path
// gets the request's scheme and host prefixed; an already-absolute URL is
// left untouched; anything else is treated as a bare path segment under the
// site root.
func AbsoluteImageURL(raw, scheme, host string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "/") {
		return fmt.Sprintf("%s://%s%s", scheme, host, raw)
	}
	return fmt.Sprintf("%s://%s/%s", scheme, host, strings.TrimLeft(raw, "/"))
}

// RecoverablePath reports whether an unknown path looks like a garbled or
// mis-pasted Thai-script link. Such visits are redirected to the upload
// landing page instead of getting a 404. This is a deliberate UX recovery
// special case, not general 404 handling.
func RecoverablePath(rawPath string) bool {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	for _, r := range decoded {
		if r >= 0x0E00 && r <= 0x0E7F {
			return true
		}
	}
	// %E0%B8 is the UTF-8 percent-encoded lead of the Thai block.
	return strings.Contains(strings.ToLower(rawPath), "%e0%b8")
}
