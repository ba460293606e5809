package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Koveh/scrape-yandex-maps/screenshot"
	"github.com/Koveh/scrape-yandex-maps/utils"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path_to_places_data.csv>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Captures desktop and mobile screenshots of every website in the CSV export.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	csvPath := flag.Arg(0)

	logger, closer, err := utils.NewLogger(filepath.Join(filepath.Dir(csvPath), "screenshotter.log"), *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := screenshot.New(csvPath, logger)
	if err := s.Run(ctx); err != nil {
		logger.Error("screenshot run failed", "err", err)
		closer.Close()
		os.Exit(1)
	}
}
