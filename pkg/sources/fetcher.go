package sources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/inkfold/feedbook/internal/logger"
	"github.com/inkfold/feedbook/pkg/httpclient"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// ArticleFetcher performs one blocking GET per article URL. No retries, no
// backoff: any transport failure or non-success status propagates to the
// caller, which converts it into an outcome.
type ArticleFetcher struct {
	client httpclient.Client
	log    logger.Logger
}

// NewArticleFetcher creates a fetcher with the given HTTP client and logger.
func NewArticleFetcher(client httpclient.Client, log logger.Logger) *ArticleFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &ArticleFetcher{client: client, log: log}
}

// Fetch retrieves the raw HTML for one article URL using the strategy's
// request headers.
func (f *ArticleFetcher) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	f.log.DebugObj("fetching article page", "fetch_start", map[string]any{
		"url": url,
	})

	resp, err := f.client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status %d body: %s", resp.StatusCode(), responseSnippet(body))
	}

	if len(body) > maxHTMLBodyBytes {
		f.log.InfoObj("html body truncated", "truncation", map[string]any{
			"url":      url,
			"original": len(body),
			"kept":     maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	return body, nil
}
