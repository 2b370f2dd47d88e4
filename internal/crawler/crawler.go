package crawler

import (
	"context"
	"errors"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/logger"
	"github.com/inkfold/feedbook/pkg/sources"
)

// ErrNoFeeds is the one fatal pre-run configuration error: nothing to process.
var ErrNoFeeds = errors.New("no feeds configured")

// Crawler sequences feeds through resolve, ingest, dedup, selection and
// per-item extraction, absorbing every per-feed and per-item failure into the
// run aggregate. Processing is strictly sequential: output order must equal
// encounter order, and some sources rely on consistent headers across
// consecutive requests.
type Crawler struct {
	resolve  ResolveFunc
	ingester FeedIngester
	fetcher  PageFetcher
	selectFn SelectFunc
	log      logger.Logger
}

// New creates a crawler. selectFn may be nil, in which case every deduped
// item is extracted.
func New(resolve ResolveFunc, ingester FeedIngester, fetcher PageFetcher, selectFn SelectFunc, log logger.Logger) *Crawler {
	if selectFn == nil {
		selectFn = func(items []domain.Item) []domain.Item { return items }
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Crawler{
		resolve:  resolve,
		ingester: ingester,
		fetcher:  fetcher,
		selectFn: selectFn,
		log:      log,
	}
}

// Run processes the configured feeds in order and returns the aggregate for
// packaging. It fails only when no feeds are configured; everything else is
// recorded and absorbed.
func (c *Crawler) Run(ctx context.Context, feedURLs []string) (*domain.Aggregate, error) {
	if len(feedURLs) == 0 {
		return nil, ErrNoFeeds
	}

	agg := &domain.Aggregate{}
	seen := make(map[string]struct{})

	for _, feedURL := range feedURLs {
		c.processFeed(ctx, feedURL, seen, agg)
	}

	return agg, nil
}

// processFeed runs one feed through the full per-feed sequence. Failures are
// logged and the feed is skipped; nothing here is fatal.
func (c *Crawler) processFeed(ctx context.Context, feedURL string, seen map[string]struct{}, agg *domain.Aggregate) {
	strategy, err := c.resolve(feedURL)
	if err != nil {
		c.log.WarnObj("skipping feed without a matching source", "unmatched_feed", map[string]any{
			"feed":  feedURL,
			"error": err.Error(),
		})
		return
	}

	items, err := c.ingester.Ingest(ctx, feedURL)
	if err != nil {
		c.log.WarnObj("skipping feed that failed to ingest", "ingest_failed", map[string]any{
			"feed":   feedURL,
			"source": strategy.ID(),
			"error":  err.Error(),
		})
		return
	}

	surviving := dedup(items, seen)
	surviving = c.selectFn(surviving)

	c.log.InfoObj("processing feed", "feed_start", map[string]any{
		"feed":     feedURL,
		"source":   strategy.ID(),
		"items":    len(items),
		"selected": len(surviving),
	})

	feedCover := ""
	for _, item := range surviving {
		cover := c.extractItem(ctx, strategy, item, agg)
		if feedCover == "" {
			feedCover = cover
		}
	}

	agg.SetCover(feedCover)
	agg.AppendStyle(strategy.CustomCSS())
}

// extractItem fetches and trims one item, appending its outcome (and article
// on success) to the aggregate. It returns the cover candidate the strategy
// produced for this item, if any.
func (c *Crawler) extractItem(ctx context.Context, strategy sources.Strategy, item domain.Item, agg *domain.Aggregate) string {
	if item.Title == "" || item.Link == "" {
		c.log.DebugObj("skipping item without title or link", "item_skipped", map[string]any{
			"source": strategy.ID(),
			"title":  item.Title,
			"link":   item.Link,
		})
		return ""
	}

	raw, err := c.fetcher.Fetch(ctx, item.Link, strategy.FetchOptions())
	if err != nil {
		c.recordFailure(strategy, item, err, agg)
		return ""
	}

	body, err := strategy.Trim(item, raw)
	if err != nil {
		c.recordFailure(strategy, item, err, agg)
		return ""
	}

	agg.Articles = append(agg.Articles, domain.Article{
		Title:  item.Title,
		Body:   body,
		Author: item.Author,
	})
	agg.Outcomes = append(agg.Outcomes, domain.Outcome{
		Title:   item.Title,
		Link:    item.Link,
		Success: true,
	})

	c.log.InfoObj("article extracted", "item_extracted", map[string]any{
		"source": strategy.ID(),
		"title":  item.Title,
	})

	return strategy.ExtractCover(item, raw)
}

// recordFailure converts any per-item error into a failure outcome and moves on.
func (c *Crawler) recordFailure(strategy sources.Strategy, item domain.Item, err error, agg *domain.Aggregate) {
	agg.Outcomes = append(agg.Outcomes, domain.Outcome{
		Title:  item.Title,
		Link:   item.Link,
		Reason: err.Error(),
	})

	c.log.WarnObj("article extraction failed", "item_failed", map[string]any{
		"source": strategy.ID(),
		"title":  item.Title,
		"link":   item.Link,
		"error":  err.Error(),
	})
}

// dedup drops items whose identifier was already seen this run and registers
// the identifiers of the survivors. Items without an identifier always pass
// and are never registered.
func dedup(items []domain.Item, seen map[string]struct{}) []domain.Item {
	surviving := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.GUID != "" {
			if _, dup := seen[item.GUID]; dup {
				continue
			}
			seen[item.GUID] = struct{}{}
		}
		surviving = append(surviving, item)
	}
	return surviving
}
