package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FEEDBOOK_FEEDS", "https://thegazette.press/rss, https://bitwire.io/feed ,")
	t.Setenv("FEEDBOOK_GAZETTE_SESSION", " tok-123 ")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://thegazette.press/rss", "https://bitwire.io/feed"}, cfg.Feeds)
	assert.Equal(t, "tok-123", cfg.GazetteSession)
	assert.Equal(t, "feedbook.epub", cfg.OutputPath)
	assert.Equal(t, "Feedbook digest", cfg.Title)
	assert.Equal(t, "en", cfg.Locale)
	assert.False(t, cfg.Interactive)
}

func TestLoadWithoutFeedsFails(t *testing.T) {
	t.Setenv("FEEDBOOK_FEEDS", "")

	_, err := Load(nil)
	require.ErrorIs(t, err, ErrNoFeeds)
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Empty(t, splitList(" , ,"))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b"))
}
