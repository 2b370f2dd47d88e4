package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrNoFeeds is returned when no feed URLs are configured. It is the one
// fatal pre-run configuration error.
var ErrNoFeeds = errors.New("FEEDBOOK_FEEDS is required (comma-delimited feed urls)")

// Config carries everything a run needs. Values come from flags, the
// FEEDBOOK_ environment and an optional .env file, in that precedence.
type Config struct {
	Feeds          []string
	GazetteSession string
	OutputPath     string
	Title          string
	Description    string
	Locale         string
	Interactive    bool
	Verbose        bool
}

// Load resolves the configuration, binding the given command-line flags over
// the environment. The .env load is best effort.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FEEDBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", "feedbook.epub")
	v.SetDefault("title", "Feedbook digest")
	v.SetDefault("locale", "en")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	feeds := splitList(v.GetString("feeds"))
	if len(feeds) == 0 {
		return nil, ErrNoFeeds
	}

	return &Config{
		Feeds:          feeds,
		GazetteSession: strings.TrimSpace(v.GetString("gazette-session")),
		OutputPath:     v.GetString("output"),
		Title:          v.GetString("title"),
		Description:    v.GetString("description"),
		Locale:         v.GetString("locale"),
		Interactive:    v.GetBool("interactive"),
		Verbose:        v.GetBool("verbose"),
	}, nil
}

// splitList parses a comma-delimited list, dropping empty entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
