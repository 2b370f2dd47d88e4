package sources

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// liveMarkers are title fragments that identify rolling live-coverage pages.
var liveMarkers = []string{"live coverage", "liveblog", "live blog"}

// isLiveTitle reports whether an item title carries a live-coverage marker.
func isLiveTitle(title string) bool {
	t := strings.ToLower(title)
	if strings.HasPrefix(t, "live:") {
		return true
	}
	for _, marker := range liveMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

// parseDocument parses raw page bytes into a goquery document.
func parseDocument(raw []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// removeNodes drops every node matching the given selectors from the document.
func removeNodes(doc *goquery.Document, selectors ...string) {
	for _, sel := range selectors {
		doc.Find(sel).Remove()
	}
}

// selectFragment renders the first matching content container as HTML. The
// candidates are tried in order; ok is false when none match.
func selectFragment(doc *goquery.Document, candidates ...string) (string, bool) {
	for _, sel := range candidates {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		html, err := goquery.OuterHtml(node)
		if err != nil || strings.TrimSpace(html) == "" {
			continue
		}
		return html, true
	}
	return "", false
}

// fragmentPolicy keeps structural reading markup and strips everything else.
var fragmentPolicy = buildFragmentPolicy()

func buildFragmentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("article", "section", "div", "figure", "figcaption", "picture", "source")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "srcset", "alt", "title").OnElements("img")
	p.AllowAttrs("srcset", "media", "type").OnElements("source")
	return p
}

// sanitizeFragment strips unsafe markup from a selected body fragment.
func sanitizeFragment(fragment string) string {
	return strings.TrimSpace(fragmentPolicy.Sanitize(fragment))
}

// explicitScheme rewrites protocol-relative URLs on the given host to https.
func explicitScheme(raw, host string) string {
	if strings.HasPrefix(raw, "//"+host) {
		return "https:" + raw
	}
	return raw
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return baseURL.ResolveReference(parsed).String()
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// metaContent extracts the content attribute of the first node matching sel.
func metaContent(doc *goquery.Document, sel string) string {
	if node := doc.Find(sel).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// responseSnippet returns a truncated snippet of a response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
