package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	"github.com/Koveh/scrape-yandex-maps/config"
	"github.com/Koveh/scrape-yandex-maps/models"
	"github.com/Koveh/scrape-yandex-maps/scraper/yandexmaps"
	"github.com/Koveh/scrape-yandex-maps/services"
	"github.com/Koveh/scrape-yandex-maps/storage"
	"github.com/Koveh/scrape-yandex-maps/utils"
)

func main() {
	cfg := config.Load()

	query := flag.String("query", "", "search query, e.g. \"кофейни в Москве\" (or pass as positional argument)")
	flag.IntVar(&cfg.MaxResults, "max-results", cfg.MaxResults, "maximum number of listings to scrape")
	flag.BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser without a window")
	flag.BoolVar(&cfg.ScrapePhotos, "photos", cfg.ScrapePhotos, "download listing photos")
	flag.BoolVar(&cfg.ScrapeReviews, "reviews", cfg.ScrapeReviews, "collect listing reviews")
	flag.StringVar(&cfg.PhotoFormat, "photo-format", cfg.PhotoFormat, "photo format: jpg, png or webp")
	flag.IntVar(&cfg.MaxPhotos, "max-photos", cfg.MaxPhotos, "maximum photos per listing")
	flag.StringVar(&cfg.Browser, "browser", cfg.Browser, "browser to drive: chrome or edge")
	flag.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "base directory for session output")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	flag.Parse()

	if *query == "" && flag.NArg() > 0 {
		*query = strings.Join(flag.Args(), " ")
	}
	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: scrape-yandex-maps [flags] <search query>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := utils.NewLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	logger.Info("=== Yandex Maps scraper starting ===")
	logger.Info("run configuration",
		"query", *query,
		"max_results", cfg.MaxResults,
		"headless", cfg.Headless,
		"photos", cfg.ScrapePhotos,
		"reviews", cfg.ScrapeReviews,
		"browser", cfg.Browser,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scr := yandexmaps.New(cfg, logger)

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " preparing..."
	scr.OnProgress = spinnerProgress(sp)
	sp.Start()

	places, err := scr.Run(ctx, *query)
	sp.Stop()

	if err != nil {
		logger.Error("scrape failed", "err", err)
		closer.Close()
		os.Exit(1)
	}
	if len(places) == 0 {
		logger.Error("no places were scraped")
		closer.Close()
		os.Exit(1)
	}

	logger.Info("scrape finished", "places", len(places))

	session := scr.Session()
	exportAll(cfg, session, places, logger)

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(places)
	insightSvc.Print(report)

	fmt.Printf("  Done. Session output → %s\n\n", session.Dir)
}

// spinnerProgress returns a progress callback that updates the spinner's
// status line. The spinner's render goroutine reads Suffix concurrently,
// so every update goes through the spinner's own lock.
func spinnerProgress(sp *spinner.Spinner) yandexmaps.ProgressFunc {
	return func(completed, total int, message string) {
		sp.Lock()
		sp.Suffix = fmt.Sprintf(" [%d/%d] %s", completed, total, message)
		sp.Unlock()
	}
}

// exportAll writes every output format. A failing format is logged and
// skipped so one broken sink never costs the rest of the run's data.
func exportAll(cfg *config.Config, session *storage.Session, places []*models.Place, logger *log.Logger) {
	type export struct {
		format string
		file   string
		writer storage.PlaceWriter
	}

	exports := []export{
		{"JSON", session.FilePath("places_data.json"), storage.NewJSONWriter(session.FilePath("places_data.json"))},
	}

	if csvWriter, err := storage.NewCSVWriter(session.FilePath("places_data.csv")); err != nil {
		logger.Error("CSV export failed", "err", err)
	} else {
		exports = append(exports, export{"CSV", session.FilePath("places_data.csv"), csvWriter})
	}

	exports = append(exports,
		export{"SQLite", session.FilePath("places_data.db"), storage.NewSQLiteWriter(session.FilePath("places_data.db"))},
		export{"Excel", session.FilePath("places_data.xlsx"), storage.NewExcelWriter(session.FilePath("places_data.xlsx"))},
	)

	for _, e := range exports {
		if err := e.writer.Write(places); err != nil {
			logger.Error(e.format+" export failed", "err", err)
			continue
		}
		logger.Info(e.format+" export written", "file", e.file)
	}

	if cfg.PostgresExport {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("PostgreSQL connection failed", "err", err)
			return
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(places); err != nil {
			logger.Error("PostgreSQL export failed", "err", err)
		} else {
			logger.Info("places stored in PostgreSQL", "table", "places")
		}
	}
}
