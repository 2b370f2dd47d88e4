package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkfold/feedbook/internal/config"
	"github.com/inkfold/feedbook/internal/crawler"
	"github.com/inkfold/feedbook/internal/domain"
	"github.com/inkfold/feedbook/internal/feed"
	"github.com/inkfold/feedbook/internal/logger"
	"github.com/inkfold/feedbook/internal/picker"
	"github.com/inkfold/feedbook/pkg/binder"
	"github.com/inkfold/feedbook/pkg/sources"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "feedbook",
		Short:         "Package syndication feeds into a single EPUB",
		Long:          "feedbook fetches every article of the configured feeds, trims each page to its readable body using source-specific scraping rules, and binds the results into one EPUB document.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("feeds", "", "comma-delimited feed urls (env FEEDBOOK_FEEDS)")
	flags.String("output", "feedbook.epub", "output path for the bound document")
	flags.String("title", "Feedbook digest", "document title")
	flags.String("description", "", "document description")
	flags.String("locale", "en", "document language tag")
	flags.Bool("interactive", false, "pick articles per feed before extraction")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	log, err := logger.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	opts := sources.Options{
		MemberSession: cfg.GazetteSession,
		Verbose:       cfg.Verbose,
		Log:           log,
	}
	resolve := func(feedURL string) (sources.Strategy, error) {
		return sources.Resolve(feedURL, opts)
	}

	var selectFn crawler.SelectFunc
	if cfg.Interactive {
		selectFn = picker.New(log).Select
	}

	fetcher := sources.NewArticleFetcher(sources.DefaultHTTPClient(), log)
	c := crawler.New(resolve, feed.NewIngester(log), fetcher, selectFn, log)

	agg, err := c.Run(cmd.Context(), cfg.Feeds)
	if err != nil {
		return err
	}

	reportRun(log, agg)

	input := binder.Input{
		Title:       cfg.Title,
		Description: cfg.Description,
		Locale:      cfg.Locale,
		Articles:    agg.Articles,
		CoverURL:    agg.CoverURL,
		Style:       agg.Style,
	}
	if err := binder.New(log).Bind(input, cfg.OutputPath); err != nil {
		return fmt.Errorf("bind document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d articles, %d failed)\n",
		cfg.OutputPath, agg.Succeeded(), len(agg.Failed()))
	return nil
}

// reportRun logs the per-run summary: counts plus every failed item with its
// link and reason for follow-up.
func reportRun(log logger.Logger, agg *domain.Aggregate) {
	log.InfoObj("run finished", "run_report", map[string]any{
		"succeeded": agg.Succeeded(),
		"failed":    len(agg.Failed()),
	})
	for _, outcome := range agg.Failed() {
		log.WarnObj("article not included", "run_report_failure", map[string]any{
			"title":  outcome.Title,
			"link":   outcome.Link,
			"reason": outcome.Reason,
		})
	}
}
