package sources

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
	"github.com/inkfold/feedbook/pkg/httpclient"
)

// ErrNoStrategy signals that no registered strategy handles a feed URL.
// Callers treat it as a skip, not a failure.
var ErrNoStrategy = errors.New("no strategy registered for feed url")

// Strategy is the per-source scraping capability: request headers, body
// trimming, cover resolution and optional source-wide styling.
type Strategy interface {
	// ID identifies the source, for logging.
	ID() string

	// FetchOptions returns extra request headers for article fetches, or nil.
	FetchOptions() map[string]string

	// Trim reduces a raw article page to its sanitized body fragment. It
	// fails with a *TrimError carrying the category (LiveStream, Empty,
	// Other) when no meaningful body can be produced.
	Trim(item domain.Item, rawHTML []byte) (string, error)

	// ExtractCover resolves a cover image URL for the run, or "". It is
	// idempotent per strategy instance: once a cover has been produced,
	// later calls return "".
	ExtractCover(item domain.Item, rawHTML []byte) string

	// CustomCSS returns static style text for the whole source, or "".
	CustomCSS() string
}

// Options carries the shared knobs handed to every strategy constructor.
type Options struct {
	// MemberSession is the optional session credential for gated sources.
	// Absence is a non-fatal warning, never a hard failure.
	MemberSession string
	Verbose       bool
	Log           logger.Logger
}

// Constructor builds a strategy for a matched feed URL.
type Constructor func(feedURL string, opts Options) Strategy

// registration pairs a pure feed-URL predicate with a strategy constructor.
// The list is evaluated in order; first match wins. Adding a source means
// appending a pair here, nothing else.
type registration struct {
	match func(feedURL string) bool
	build Constructor
}

var registrations = []registration{
	{match: hostSuffixMatcher("thegazette.press"), build: NewGazette},
	{match: hostSuffixMatcher("bitwire.io"), build: NewBitwire},
}

// Resolve maps a feed URL to the first matching strategy, or ErrNoStrategy.
func Resolve(feedURL string, opts Options) (Strategy, error) {
	if opts.Log == nil {
		opts.Log = logger.NopLogger{}
	}

	for _, reg := range registrations {
		if reg.match(feedURL) {
			return reg.build(feedURL, opts), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoStrategy, feedURL)
}

// hostSuffixMatcher matches feed URLs whose host is the given domain or one
// of its subdomains.
func hostSuffixMatcher(domain string) func(string) bool {
	return func(feedURL string) bool {
		u, err := url.Parse(strings.TrimSpace(feedURL))
		if err != nil {
			return false
		}
		host := strings.ToLower(u.Hostname())
		return host == domain || strings.HasSuffix(host, "."+domain)
	}
}

// DefaultHTTPClient returns a tuned HTTP client for article fetches.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(15 * time.Second) }
