// Package screenshot captures desktop and mobile renderings of the
// websites found in a scraping run's CSV export. It is a standalone
// post-processing step: point it at places_data.csv and it fills the
// session directory with per-place screenshot folders plus a flat
// mirror of every image.
package screenshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/chromedp/cdproto/emulation"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/charmbracelet/log"

	"github.com/Koveh/scrape-yandex-maps/utils"
)

const (
	maxConcurrent  = 5
	captureTimeout = 30 * time.Second
	scrollSettle   = time.Second

	desktopWidth  = 1920
	desktopHeight = 1080
	mobileWidth   = 375
	mobileHeight  = 667

	mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1"
)

// infoFields lists the CSV columns copied into each info.txt, in order.
var infoFields = []struct {
	label  string
	column string
}{
	{"Name", "name"},
	{"Category", "category"},
	{"Address", "address"},
	{"Website", "website"},
	{"Phone", "phone"},
	{"Rating", "rating"},
	{"Reviews Count", "reviews_count"},
	{"Working Hours", "working_hours"},
	{"Social Media", "social_media"},
	{"Top Review", "top_review"},
}

// site is one CSV row that carries a usable website URL.
type site struct {
	ID      string
	Name    string
	URL     string
	Columns map[string]string
}

// Screenshotter drives the capture run for one CSV export.
type Screenshotter struct {
	csvPath   string
	outputDir string // per-place folders
	flatDir   string // flat copies of every screenshot
	logger    *log.Logger
}

// New creates a Screenshotter for the given CSV export. Output
// directories live next to the CSV, inside the same session directory.
func New(csvPath string, logger *log.Logger) *Screenshotter {
	baseDir := filepath.Dir(csvPath)
	return &Screenshotter{
		csvPath:   csvPath,
		outputDir: filepath.Join(baseDir, "all_sources"),
		flatDir:   filepath.Join(baseDir, "all_screenshots_flat"),
		logger:    logger,
	}
}

// Run reads the CSV, launches one shared headless browser, and captures
// every listed website with at most five visits in flight. Individual
// site failures are logged and skipped.
func (s *Screenshotter) Run(ctx context.Context) error {
	sites, err := s.readSites()
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		s.logger.Info("no websites found to process")
		return nil
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("screenshot: create output dir: %w", err)
	}
	if err := os.MkdirAll(s.flatDir, 0o755); err != nil {
		return fmt.Errorf("screenshot: create flat dir: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	s.logger.Info("screenshot run started", "sites", len(sites), "concurrency", maxConcurrent)

	pool := utils.NewWorkerPool(maxConcurrent, 0)
	for _, st := range sites {
		st := st
		pool.Submit(func() {
			if err := s.processSite(allocCtx, st); err != nil {
				s.logger.Error("site failed", "url", st.URL, "err", err)
			}
		})
	}
	pool.Wait()

	s.logger.Info("screenshot run finished")
	return nil
}

// readSites parses the CSV export and keeps rows with a non-empty
// website. Schemeless URLs get an https:// prefix.
func (s *Screenshotter) readSites() ([]site, error) {
	f, err := os.Open(s.csvPath)
	if err != nil {
		return nil, fmt.Errorf("screenshot: open csv %q: %w", s.csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("screenshot: read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	if _, ok := index["website"]; !ok {
		return nil, fmt.Errorf("screenshot: csv %q has no website column", s.csvPath)
	}

	var sites []site
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("screenshot: read csv row: %w", err)
		}

		cols := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(row) {
				cols[name] = row[i]
			}
		}

		url := strings.TrimSpace(cols["website"])
		if url == "" {
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}

		sites = append(sites, site{
			ID:      cols["id"],
			Name:    cols["name"],
			URL:     url,
			Columns: cols,
		})
	}
	return sites, nil
}

// processSite captures one website in both viewports and writes its
// metadata file plus flat-directory copies.
func (s *Screenshotter) processSite(allocCtx context.Context, st site) error {
	folderName := fmt.Sprintf("%s_%s", padID(st.ID), sanitizeFilename(st.Name))
	targetDir := filepath.Join(s.outputDir, folderName)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	if err := s.writeInfo(targetDir, st); err != nil {
		s.logger.Warn("info file failed", "url", st.URL, "err", err)
	}

	captures := []struct {
		label  string
		file   string
		mobile bool
	}{
		{"desktop", "desktop_full.png", false},
		{"mobile", "mobile_full.png", true},
	}

	for _, c := range captures {
		s.logger.Info("capturing", "viewport", c.label, "url", st.URL, "name", st.Name)

		path := filepath.Join(targetDir, c.file)
		if err := s.capture(allocCtx, st.URL, path, c.mobile); err != nil {
			s.logger.Warn("capture failed", "viewport", c.label, "url", st.URL, "err", err)
			continue
		}
		if err := copyFile(path, filepath.Join(s.flatDir, folderName+"_"+c.file)); err != nil {
			s.logger.Warn("flat copy failed", "file", c.file, "err", err)
		}
	}
	return nil
}

// capture opens a fresh tab, navigates with a hard timeout, scrolls to
// the bottom to trigger lazy content, and saves a full-page PNG. If the
// full-page shot fails it falls back to a viewport-only one.
func (s *Screenshotter) capture(allocCtx context.Context, url, path string, mobile bool) error {
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	ctx, cancel := context.WithTimeout(tabCtx, captureTimeout)
	defer cancel()

	actions := append(viewportActions(mobile),
		chromedp.Navigate(url),
		chromedp.Evaluate(scrollToBottomJS, nil, awaitPromise),
		chromedp.Sleep(scrollSettle),
	)

	var buf []byte
	full := append(append([]chromedp.Action{}, actions...), chromedp.FullScreenshot(&buf, 100))
	if err := chromedp.Run(ctx, full...); err != nil {
		buf = nil
		partial := append(append([]chromedp.Action{}, actions...), chromedp.CaptureScreenshot(&buf))
		if err2 := chromedp.Run(ctx, partial...); err2 != nil {
			return fmt.Errorf("capture %s: %w", url, err)
		}
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// writeInfo records the place's key fields next to its screenshots.
func (s *Screenshotter) writeInfo(targetDir string, st site) error {
	var b strings.Builder
	for _, f := range infoFields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, st.Columns[f.column])
	}
	return os.WriteFile(filepath.Join(targetDir, "info.txt"), []byte(b.String()), 0o644)
}

// viewportActions returns the emulation actions for the requested device
// profile: a plain desktop viewport, or a touch-enabled mobile viewport
// with a phone user agent.
func viewportActions(mobile bool) []chromedp.Action {
	if mobile {
		return []chromedp.Action{
			chromedp.EmulateViewport(mobileWidth, mobileHeight, chromedp.EmulateMobile),
			emulation.SetUserAgentOverride(mobileUserAgent),
		}
	}
	return []chromedp.Action{
		chromedp.EmulateViewport(desktopWidth, desktopHeight),
	}
}

func awaitPromise(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

const scrollToBottomJS = `new Promise(function(resolve) {
	var totalHeight = 0;
	var distance = 100;
	var timer = setInterval(function() {
		var scrollHeight = document.body.scrollHeight;
		window.scrollBy(0, distance);
		totalHeight += distance;
		if (totalHeight >= scrollHeight) {
			clearInterval(timer);
			resolve(true);
		}
	}, 50);
})`

// sanitizeFilename keeps letters, digits, dashes and underscores and
// turns spaces into underscores.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// padID left-pads numeric place IDs to three digits so folder names
// sort in scrape order.
func padID(id string) string {
	if id == "" {
		return "unknown"
	}
	for len(id) < 3 {
		id = "0" + id
	}
	return id
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
