package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newsgraph-io/newsgraph/internal/api"
	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/enrich"
	"github.com/newsgraph-io/newsgraph/internal/extract"
	"github.com/newsgraph-io/newsgraph/internal/fetcher"
	"github.com/newsgraph-io/newsgraph/internal/graph"
	"github.com/newsgraph-io/newsgraph/internal/ingest"
	"github.com/newsgraph-io/newsgraph/internal/recommend"
	"github.com/newsgraph-io/newsgraph/internal/search"
	"github.com/newsgraph-io/newsgraph/internal/storage"
	"github.com/newsgraph-io/newsgraph/internal/store"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newsgraph",
		Short: "Extract news article metadata into a searchable knowledge graph",
		Long: `NewsGraph extracts structured metadata from news article pages, builds a
knowledge graph of articles and their related people and organizations,
stores it in a SPARQL triple store, and serves search and recommendations
over it.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(deleteCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired components behind each subcommand.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	extractor   *extract.Extractor
	ingester    *ingest.Service
	searcher    *search.Engine
	recommender *recommend.Engine
	archive     *storage.Archive
	store       *store.Client
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(cfg)

	plain, err := fetcher.NewHTTPFetcher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("http fetcher: %w", err)
	}
	rendered := fetcher.NewBrowserFetcher(cfg, logger)

	extractor := extract.New(plain, rendered, cfg, logger)
	enricher := enrich.New(cfg, logger)

	archive, err := storage.NewArchive(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	client := store.New(cfg, logger)
	searcher := search.New(client, logger)

	var lookup graph.EntityLookup
	if enricher != nil {
		lookup = enricher
	}
	builder := graph.New(extractor, lookup, cfg.Graph.EntityNamespace, logger)
	ingester := ingest.New(builder, client, searcher, archive, logger)
	recommender := recommend.New(searcher, logger)

	return &app{
		cfg:         cfg,
		logger:      logger,
		extractor:   extractor,
		ingester:    ingester,
		searcher:    searcher,
		recommender: recommender,
		archive:     archive,
		store:       client,
	}, nil
}

func (a *app) close() {
	if err := a.extractor.Close(); err != nil {
		a.logger.Warn("extractor close failed", "error", err)
	}
	if err := a.archive.Close(); err != nil {
		a.logger.Warn("archive close failed", "error", err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			server := api.NewServer(a.cfg.API.Port, a.ingester, a.searcher, a.recommender, a.store, a.logger)

			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				a.logger.Info("shutting down", "signal", sig.String())
				return nil
			}
		},
	}
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [url]...",
		Short: "Extract articles and insert them into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var failed int
			for _, url := range args {
				article, err := a.ingester.Ingest(context.Background(), url)
				if err != nil {
					a.logger.Error("ingestion failed", "url", url, "error", err)
					failed++
					continue
				}
				printJSON(article)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d articles failed", failed, len(args))
			}
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [url]",
		Short: "Fetch a stored article record by URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			article, err := a.searcher.ByURL(context.Background(), args[0])
			if err != nil {
				return err
			}
			printJSON(article)
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	var (
		language  string
		author    string
		publisher string
	)
	cmd := &cobra.Command{
		Use:   "search [keywords]",
		Short: "Search stored articles",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			facets := search.Facets{
				Keywords:   strings.Join(args, " "),
				InLanguage: language,
				AuthorName: author,
				Publisher:  publisher,
			}
			hits, match, err := a.searcher.ByFacets(context.Background(), facets)
			if err != nil {
				return err
			}
			printJSON(map[string]any{"match": match, "results": hits})
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "filter by article language")
	cmd.Flags().StringVar(&author, "author", "", "filter by author name")
	cmd.Flags().StringVar(&publisher, "publisher", "", "filter by publisher name")
	return cmd
}

func recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend [viewed-url]...",
		Short: "Recommend articles based on viewed URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			hits, err := a.recommender.Recommend(context.Background(), args)
			if err != nil {
				return err
			}
			printJSON(hits)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [url]",
		Short: "Delete a stored article by URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.searcher.DeleteByURL(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// setupLogger creates a structured logger from the logging config;
// --verbose overrides the configured level.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
