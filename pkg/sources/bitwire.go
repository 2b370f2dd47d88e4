package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
)

const (
	bitwireSourceID  = "bitwire"
	bitwireAssetHost = "assets.bitwire.io"
)

// bitwireImageSize matches the width segment of bitwire asset paths so low
// resolution renditions can be upgraded.
var bitwireImageSize = regexp.MustCompile(`/w(320|480|640)/`)

// bitwireNoise lists regions stripped from every article page before the
// content container is selected.
var bitwireNoise = []string{
	"script", "style", "noscript", "iframe",
	"div.ad-slot",
	"div.comments",
	"nav.breadcrumbs",
	"section.more-from",
	"div.pricewatch-widget",
}

// bitwire scrapes bitwire.io. No credential is required; the work is in
// repairing lazy-loaded images and normalizing asset URLs so the packaged
// document renders offline.
type bitwire struct {
	feedURL  string
	coverSet bool
	log      logger.Logger
}

// NewBitwire builds the strategy for bitwire.io feeds.
func NewBitwire(feedURL string, opts Options) Strategy {
	log := opts.Log
	if log == nil {
		log = logger.NopLogger{}
	}
	return &bitwire{feedURL: feedURL, log: log}
}

func (s *bitwire) ID() string { return bitwireSourceID }

func (s *bitwire) FetchOptions() map[string]string { return nil }

// Trim selects the review body when present, otherwise the plain article
// container, after repairing lazy images and asset URLs.
func (s *bitwire) Trim(item domain.Item, rawHTML []byte) (string, error) {
	if isLiveTitle(item.Title) {
		return "", liveStreamErr(item.Title)
	}

	doc, err := parseDocument(rawHTML)
	if err != nil {
		return "", otherErr(err.Error())
	}

	removeNodes(doc, bitwireNoise...)
	repairBitwireImages(doc)

	fragment, ok := selectFragment(doc, "div.review-body", "article.post > div.entry")
	if !ok {
		return "", emptyErr()
	}

	return sanitizeFragment(fragment), nil
}

// ExtractCover prefers the feed's media reference and falls back to the
// page's og:image. First successful call wins.
func (s *bitwire) ExtractCover(item domain.Item, rawHTML []byte) string {
	if s.coverSet {
		return ""
	}

	ogImage := ""
	if len(rawHTML) > 0 {
		if doc, err := parseDocument(rawHTML); err == nil {
			ogImage = metaContent(doc, `meta[property="og:image"]`)
		}
	}

	cover := firstNonEmpty(item.MediaURL, ogImage)
	if cover == "" {
		return ""
	}

	s.coverSet = true
	cover = upgradeBitwireURL(explicitScheme(cover, bitwireAssetHost))
	return resolveURL(cover, item.Link)
}

// CustomCSS returns the figure layout the source's pages rely on.
func (s *bitwire) CustomCSS() string {
	return `figure { margin: 1em 0; }
figure img { max-width: 100%; }
figcaption { font-size: 0.85em; color: #555; }`
}

// repairBitwireImages promotes lazy-load attributes to real ones, upgrades
// low resolution renditions and makes protocol-relative asset URLs explicit.
func repairBitwireImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, node *goquery.Selection) {
		if dataSrc, ok := node.Attr("data-src"); ok && strings.TrimSpace(dataSrc) != "" {
			node.SetAttr("src", dataSrc)
			node.RemoveAttr("data-src")
		}
		if dataSrcset, ok := node.Attr("data-srcset"); ok && strings.TrimSpace(dataSrcset) != "" {
			node.SetAttr("srcset", dataSrcset)
			node.RemoveAttr("data-srcset")
		}

		if src, ok := node.Attr("src"); ok {
			node.SetAttr("src", upgradeBitwireURL(explicitScheme(src, bitwireAssetHost)))
		}
		if srcset, ok := node.Attr("srcset"); ok {
			node.SetAttr("srcset", repairSrcset(srcset))
		}
	})
}

// repairSrcset applies the scheme and size rewrites to every srcset entry.
func repairSrcset(srcset string) string {
	entries := strings.Split(srcset, ",")
	for i, entry := range entries {
		entry = strings.TrimSpace(entry)
		parts := strings.SplitN(entry, " ", 2)
		parts[0] = upgradeBitwireURL(explicitScheme(parts[0], bitwireAssetHost))
		entries[i] = strings.Join(parts, " ")
	}
	return strings.Join(entries, ", ")
}

// upgradeBitwireURL rewrites low-resolution asset renditions to the 1200px one.
func upgradeBitwireURL(raw string) string {
	return bitwireImageSize.ReplaceAllString(raw, "/w1200/")
}
