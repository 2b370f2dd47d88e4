package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
)

// Ingester parses syndication feeds into domain items, preserving feed order.
type Ingester struct {
	parser *gofeed.Parser
	log    logger.Logger
}

// NewIngester creates a feed ingester.
func NewIngester(log logger.Logger) *Ingester {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Ingester{parser: gofeed.NewParser(), log: log}
}

// Ingest retrieves and parses one RSS/Atom feed, returning its items in
// document order.
func (i *Ingester) Ingest(ctx context.Context, feedURL string) ([]domain.Item, error) {
	parsed, err := i.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]domain.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, toDomainItem(entry))
	}

	i.log.DebugObj("feed ingested", "feed_parsed", map[string]any{
		"feed":  feedURL,
		"items": len(items),
	})

	return items, nil
}

// toDomainItem maps one gofeed entry onto the domain item the pipeline uses.
func toDomainItem(entry *gofeed.Item) domain.Item {
	var publishedAt time.Time
	if entry.PublishedParsed != nil {
		publishedAt = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		publishedAt = *entry.UpdatedParsed
	}

	author := ""
	if entry.Author != nil {
		author = strings.TrimSpace(entry.Author.Name)
	}

	return domain.Item{
		Title:       strings.TrimSpace(entry.Title),
		Link:        strings.TrimSpace(entry.Link),
		GUID:        strings.TrimSpace(entry.GUID),
		Author:      author,
		PublishedAt: publishedAt,
		MediaURL:    mediaReference(entry),
	}
}

// mediaReference picks the item's media reference: the feed image when set,
// otherwise the first image enclosure.
func mediaReference(entry *gofeed.Item) string {
	if entry.Image != nil && strings.TrimSpace(entry.Image.URL) != "" {
		return strings.TrimSpace(entry.Image.URL)
	}
	for _, enc := range entry.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") && strings.TrimSpace(enc.URL) != "" {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}
