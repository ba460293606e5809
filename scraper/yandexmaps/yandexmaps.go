// Package yandexmaps drives the end-to-end extraction of business
// listings from Yandex Maps: search submission, scroll-based discovery of
// detail-page links, and per-listing field/photo/review extraction over a
// single browser session.
package yandexmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Koveh/scrape-yandex-maps/browser"
	"github.com/Koveh/scrape-yandex-maps/config"
	"github.com/Koveh/scrape-yandex-maps/models"
	"github.com/Koveh/scrape-yandex-maps/storage"
)

const (
	mapsURL = "https://yandex.ru/maps"

	// The page keeps rendering after navigation; extraction starts only
	// after this settle delay.
	pageSettleDelay     = 3 * time.Second
	panelTimeout        = 10 * time.Second
	overviewSettleDelay = 1500 * time.Millisecond
)

// ProgressFunc receives (completed, total, message) before each listing is
// processed. Implementations must not block and must not panic; this is
// the only coupling point to a host UI.
type ProgressFunc func(completed, total int, message string)

// Scraper runs one scraping session. The browser page is mutated by every
// extraction step, so a Scraper processes listings strictly one at a time.
type Scraper struct {
	cfg     *config.Config
	logger  *log.Logger
	session *storage.Session
	client  *http.Client

	// OnProgress is optional; leave nil to disable progress reporting.
	OnProgress ProgressFunc
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *log.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		session: storage.NewSession(cfg.OutputDir),
		client:  &http.Client{Timeout: downloadTimeout},
	}
}

// Session exposes the run's output directory layout for the export
// writers.
func (s *Scraper) Session() *storage.Session {
	return s.session
}

// Run executes the whole session: launch browser, search, discover
// listing links, process each listing in isolation, and return the
// aggregated records. Browser launch failure and a search-results timeout
// are fatal; any error on a single listing only drops that listing.
//
// The browser session is released on every exit path. Cancelling ctx
// terminates the session at the next browser operation.
func (s *Scraper) Run(ctx context.Context, query string) ([]*models.Place, error) {
	b, err := browser.Launch(ctx, browser.Options{
		Headless: s.cfg.Headless,
		Browser:  s.cfg.Browser,
		BinPath:  s.cfg.BrowserBin,
	}, s.logger)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if err := s.session.Setup(query); err != nil {
		return nil, err
	}

	if err := b.Navigate(mapsURL); err != nil {
		return nil, err
	}
	s.logger.Info("searching", "query", query)

	if err := s.performSearch(b, query); err != nil {
		return nil, err
	}

	s.progress(0, s.cfg.MaxResults, "Scrolling and collecting links...")

	links, err := s.collectListingLinks(b)
	if err != nil {
		return nil, err
	}
	total := len(links)
	s.logger.Info("places discovered", "count", total)

	var places []*models.Place
	for i, link := range links {
		msg := fmt.Sprintf("Processing place %d/%d", i+1, total)
		s.logger.Info("processing place", "index", i+1, "total", total)
		s.progress(i, total, msg)

		place, err := s.processListing(b, link, i+1, query)
		if err != nil {
			// Listing isolation: one failure never aborts the batch.
			s.logger.Error("place failed, skipping", "index", i+1, "err", err)
			continue
		}
		places = append(places, place)
	}

	s.progress(total, total, "Saving data...")

	for _, p := range places {
		p.SearchQuery = query
	}

	return places, nil
}

// processListing navigates to the listing's canonical overview URL and
// extracts one record.
func (s *Scraper) processListing(p browser.Page, link string, index int, query string) (*models.Place, error) {
	if err := p.Navigate(NormalizeListingURL(link)); err != nil {
		return nil, err
	}
	time.Sleep(pageSettleDelay)

	return s.extractDetails(p, index, query)
}

func (s *Scraper) progress(completed, total int, message string) {
	if s.OnProgress != nil {
		s.OnProgress(completed, total, message)
	}
}

var galleryTabParamRe = regexp.MustCompile(`tab=gallery&?`)

// NormalizeListingURL strips gallery-mode markers from a listing link so
// processing always starts from the canonical overview state. Tracking
// parameters are deliberately left alone: two links differing only in
// unnormalized query params will not collapse to one.
func NormalizeListingURL(link string) string {
	link = strings.ReplaceAll(link, "/gallery/", "/")
	link = galleryTabParamRe.ReplaceAllString(link, "")
	return link
}

// switchTab finds the tab control whose rendered label matches one of the
// given lowercase labels and clicks it unless it is already selected.
// Returns true when a click was dispatched (caller should allow settle
// time).
func switchTab(p browser.Page, labels []string) bool {
	js := fmt.Sprintf(`(function() {
		var labels = %s;
		var tabs = document.querySelectorAll(%s);
		for (var i = 0; i < tabs.length; i++) {
			var text = (tabs[i].innerText || "").toLowerCase();
			var hit = false;
			for (var j = 0; j < labels.length; j++) {
				if (text.indexOf(labels[j]) >= 0) { hit = true; break; }
			}
			if (!hit) continue;
			if ((tabs[i].className || "").indexOf(%s) < 0) {
				tabs[i].click();
				return "clicked";
			}
			return "active";
		}
		return "";
	})()`, jsArray(labels), jsString(tabSelector), jsString(selectedTabClassMarker))

	var state string
	if err := p.Eval(js, &state); err != nil {
		return false
	}
	return state == "clicked"
}

func (s *Scraper) switchToOverview(p browser.Page) {
	if switchTab(p, overviewTabLabels) {
		time.Sleep(overviewSettleDelay)
	}
}

func scrollBy(p browser.Page, pixels int) {
	_ = p.Eval(fmt.Sprintf("window.scrollBy(0, %d);", pixels), nil)
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// jsArray encodes a string slice as a JavaScript array literal.
func jsArray(items []string) string {
	b, _ := json.Marshal(items)
	return string(b)
}
