package crawler

import (
	"context"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/pkg/sources"
)

// FeedIngester parses one feed URL into its ordered item list.
type FeedIngester interface {
	Ingest(ctx context.Context, feedURL string) ([]domain.Item, error)
}

// PageFetcher retrieves the raw HTML of one article page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)
}

// ResolveFunc maps a feed URL to its scraping strategy, or sources.ErrNoStrategy.
type ResolveFunc func(feedURL string) (sources.Strategy, error)

// SelectFunc lets a caller reduce a feed's deduped item list before
// extraction begins. The default is identity.
type SelectFunc func(items []domain.Item) []domain.Item
