package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/pkg/sources"
)

type trimResult struct {
	body string
	err  error
}

// fakeStrategy scripts per-link trim results.
type fakeStrategy struct {
	id       string
	headers  map[string]string
	css      string
	cover    string
	trims    map[string]trimResult
	coverHit bool
}

func (s *fakeStrategy) ID() string { return s.id }

func (s *fakeStrategy) FetchOptions() map[string]string { return s.headers }

func (s *fakeStrategy) Trim(item domain.Item, _ []byte) (string, error) {
	res, ok := s.trims[item.Link]
	if !ok {
		return "", &sources.TrimError{Kind: sources.KindEmpty}
	}
	return res.body, res.err
}

func (s *fakeStrategy) ExtractCover(domain.Item, []byte) string {
	if s.coverHit {
		return ""
	}
	s.coverHit = true
	return s.cover
}

func (s *fakeStrategy) CustomCSS() string { return s.css }

// fakeIngester maps feed URLs to scripted item lists.
type fakeIngester struct {
	feeds map[string][]domain.Item
	errs  map[string]error
}

func (f *fakeIngester) Ingest(_ context.Context, feedURL string) ([]domain.Item, error) {
	if err := f.errs[feedURL]; err != nil {
		return nil, err
	}
	return f.feeds[feedURL], nil
}

// fakeFetcher records fetched links and can fail selected ones.
type fakeFetcher struct {
	fetched []string
	fail    map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ map[string]string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	return []byte("<html>" + url + "</html>"), nil
}

func item(guid, title, link string) domain.Item {
	return domain.Item{GUID: guid, Title: title, Link: link}
}

func resolveTable(table map[string]sources.Strategy) ResolveFunc {
	return func(feedURL string) (sources.Strategy, error) {
		if s, ok := table[feedURL]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: %s", sources.ErrNoStrategy, feedURL)
	}
}

func TestRunRequiresFeeds(t *testing.T) {
	c := New(resolveTable(nil), &fakeIngester{}, &fakeFetcher{}, nil, nil)

	_, err := c.Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoFeeds)
}

func TestRunScenarioTwoFeeds(t *testing.T) {
	// Feed A yields g1 (extractable) and g2 (no content container); feed B
	// repeats g1 and adds g3 (extractable). g1 from B must never be fetched.
	stratA := &fakeStrategy{id: "a", trims: map[string]trimResult{
		"https://a.example/g1": {body: "<p>body g1</p>"},
		"https://a.example/g2": {err: &sources.TrimError{Kind: sources.KindEmpty}},
	}}
	stratB := &fakeStrategy{id: "b", trims: map[string]trimResult{
		"https://b.example/g3": {body: "<p>body g3</p>"},
	}}

	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feedA": {
			item("g1", "G1", "https://a.example/g1"),
			item("g2", "G2", "https://a.example/g2"),
		},
		"feedB": {
			item("g1", "G1 again", "https://b.example/g1"),
			item("g3", "G3", "https://b.example/g3"),
		},
	}}
	fetcher := &fakeFetcher{}

	c := New(resolveTable(map[string]sources.Strategy{"feedA": stratA, "feedB": stratB}), ingester, fetcher, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feedA", "feedB"})
	require.NoError(t, err)

	require.Len(t, agg.Articles, 2)
	assert.Equal(t, "<p>body g1</p>", agg.Articles[0].Body)
	assert.Equal(t, "<p>body g3</p>", agg.Articles[1].Body)

	require.Len(t, agg.Outcomes, 3)
	assert.True(t, agg.Outcomes[0].Success)
	assert.Equal(t, "G1", agg.Outcomes[0].Title)
	assert.False(t, agg.Outcomes[1].Success)
	assert.Equal(t, "Empty", agg.Outcomes[1].Reason)
	assert.True(t, agg.Outcomes[2].Success)
	assert.Equal(t, "G3", agg.Outcomes[2].Title)

	assert.NotContains(t, fetcher.fetched, "https://b.example/g1")
}

func TestRunDedupKeepsFirstInstance(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/1": {body: "first"},
		"https://y/1": {body: "second"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feedA": {item("dup", "From A", "https://x/1")},
		"feedB": {item("dup", "From B", "https://y/1")},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feedA": strat, "feedB": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feedA", "feedB"})
	require.NoError(t, err)
	require.Len(t, agg.Articles, 1)
	assert.Equal(t, "From A", agg.Articles[0].Title)
}

func TestRunItemsWithoutGUIDNeverDeduped(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/1": {body: "one"},
		"https://x/2": {body: "two"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {
			item("", "No guid", "https://x/1"),
			item("", "No guid", "https://x/2"),
		},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	assert.Len(t, agg.Articles, 2)
}

func TestRunOrderPreserved(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/1": {body: "b1"},
		"https://x/2": {body: "b2"},
		"https://x/3": {body: "b3"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {
			item("1", "T1", "https://x/1"),
			item("2", "T2", "https://x/2"),
			item("3", "T3", "https://x/3"),
		},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	require.Len(t, agg.Articles, 3)
	assert.Equal(t, []string{"T1", "T2", "T3"}, []string{
		agg.Articles[0].Title, agg.Articles[1].Title, agg.Articles[2].Title,
	})
}

func TestRunCoverFirstWins(t *testing.T) {
	stratA := &fakeStrategy{id: "a", cover: "https://img/a.jpg", trims: map[string]trimResult{
		"https://a/1": {body: "a"},
	}}
	stratB := &fakeStrategy{id: "b", cover: "https://img/b.jpg", trims: map[string]trimResult{
		"https://b/1": {body: "b"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feedA": {item("a1", "A1", "https://a/1")},
		"feedB": {item("b1", "B1", "https://b/1")},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feedA": stratA, "feedB": stratB}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feedA", "feedB"})
	require.NoError(t, err)
	assert.Equal(t, "https://img/a.jpg", agg.CoverURL)
}

func TestRunStyleAccumulation(t *testing.T) {
	mk := func(id, link, css string) sources.Strategy {
		return &fakeStrategy{id: id, css: css, trims: map[string]trimResult{link: {body: "x"}}}
	}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feedA": {item("a", "A", "https://a/1")},
		"feedB": {item("b", "B", "https://b/1")},
		"feedC": {item("c", "C", "https://c/1")},
	}}

	c := New(resolveTable(map[string]sources.Strategy{
		"feedA": mk("a", "https://a/1", "p { margin: 0 }"),
		"feedB": mk("b", "https://b/1", "p { margin: 0 }"),
		"feedC": mk("c", "https://c/1", "img { border: 0 }"),
	}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feedA", "feedB", "feedC"})
	require.NoError(t, err)
	assert.Equal(t, "p { margin: 0 }\nimg { border: 0 }", agg.Style)
}

func TestRunPartialFailureIsolation(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/1": {body: "one"},
		"https://x/3": {body: "three"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {
			item("1", "T1", "https://x/1"),
			item("2", "T2", "https://x/2"),
			item("3", "T3", "https://x/3"),
		},
	}}
	fetcher := &fakeFetcher{fail: map[string]error{
		"https://x/2": errors.New("connection reset"),
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, fetcher, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	require.Len(t, agg.Outcomes, 3)
	assert.False(t, agg.Outcomes[1].Success)
	assert.Contains(t, agg.Outcomes[1].Reason, "connection reset")
	assert.True(t, agg.Outcomes[2].Success)
	assert.Len(t, agg.Articles, 2)
}

func TestRunUnmatchedFeedSkipped(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://b/1": {body: "b"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"known": {item("b1", "B1", "https://b/1")},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"known": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"unknown", "known"})
	require.NoError(t, err)
	assert.Len(t, agg.Articles, 1)
	assert.Len(t, agg.Outcomes, 1)
}

func TestRunIngestFailureSkipsFeed(t *testing.T) {
	strat := &fakeStrategy{id: "s"}
	ingester := &fakeIngester{errs: map[string]error{
		"feed": errors.New("boom"),
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	assert.Empty(t, agg.Articles)
	assert.Empty(t, agg.Outcomes)
}

func TestRunMissingTitleOrLinkSkippedSilently(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/ok": {body: "ok"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {
			item("1", "", "https://x/no-title"),
			item("2", "No link", ""),
			item("3", "OK", "https://x/ok"),
		},
	}}
	fetcher := &fakeFetcher{}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, fetcher, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	assert.Len(t, agg.Outcomes, 1)
	assert.Len(t, agg.Articles, 1)
	assert.Equal(t, []string{"https://x/ok"}, fetcher.fetched)
}

func TestRunSelectionReducesItems(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/1": {body: "one"},
		"https://x/2": {body: "two"},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {
			item("1", "T1", "https://x/1"),
			item("2", "T2", "https://x/2"),
		},
	}}

	keepFirst := func(items []domain.Item) []domain.Item { return items[:1] }
	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, &fakeFetcher{}, keepFirst, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	require.Len(t, agg.Articles, 1)
	assert.Equal(t, "T1", agg.Articles[0].Title)
}

func TestRunLiveStreamRecordedAsFailure(t *testing.T) {
	strat := &fakeStrategy{id: "s", trims: map[string]trimResult{
		"https://x/live": {err: &sources.TrimError{Kind: sources.KindLiveStream, Detail: "live coverage page Live: things"}},
	}}
	ingester := &fakeIngester{feeds: map[string][]domain.Item{
		"feed": {item("1", "Live: things", "https://x/live")},
	}}

	c := New(resolveTable(map[string]sources.Strategy{"feed": strat}), ingester, &fakeFetcher{}, nil, nil)

	agg, err := c.Run(context.Background(), []string{"feed"})
	require.NoError(t, err)
	require.Len(t, agg.Outcomes, 1)
	assert.False(t, agg.Outcomes[0].Success)
	assert.Contains(t, agg.Outcomes[0].Reason, "LiveStream")
	assert.Empty(t, agg.Articles)
}
