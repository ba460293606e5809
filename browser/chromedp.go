package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	cdpstorage "github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/charmbracelet/log"
)

// Options configures the browser session.
type Options struct {
	Headless bool
	Browser  string // chrome | firefox | edge | safari
	BinPath  string // explicit binary path, overrides discovery
}

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Browser is a single live Chromium-family session exposing one page. It
// implements Page. The whole scraping pass drives this one page
// sequentially; there is no internal locking because there is no internal
// parallelism.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      *log.Logger
}

// Launch starts a browser session scoped to the run. The caller must call
// Close on every exit path. Only Chromium-family browsers can be driven
// over the DevTools protocol; firefox and safari are rejected here.
func Launch(parent context.Context, opts Options, logger *log.Logger) (*Browser, error) {
	switch opts.Browser {
	case "chrome", "edge", "":
	case "firefox", "safari":
		return nil, fmt.Errorf("browser: %s is not supported by the DevTools driver, use chrome or edge", opts.Browser)
	default:
		return nil, fmt.Errorf("browser: unknown browser %q", opts.Browser)
	}

	bin := opts.BinPath
	if bin == "" {
		bin = findBinary(opts.Browser)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(defaultUserAgent),
	)
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Force the browser process to start now so launch failures surface
	// here instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}

	logger.Info("browser session started", "browser", orDefault(opts.Browser, "chrome"), "headless", opts.Headless, "bin", bin)

	return &Browser{ctx: ctx, cancel: cancel, cancelAlloc: cancelAlloc, logger: logger}, nil
}

// Close tears the browser session down.
func (b *Browser) Close() {
	b.cancel()
	b.cancelAlloc()
}

// Navigate implements Page.
func (b *Browser) Navigate(url string) error {
	if err := chromedp.Run(b.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// CurrentURL implements Page.
func (b *Browser) CurrentURL() (string, error) {
	var loc string
	if err := chromedp.Run(b.ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("browser: location: %w", err)
	}
	return loc, nil
}

// WaitVisible implements Page.
func (b *Browser) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: wait for %q: %w", selector, err)
	}
	return nil
}

// Submit implements Page.
func (b *Browser) Submit(selector, text string) error {
	err := chromedp.Run(b.ctx,
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, text+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: submit into %q: %w", selector, err)
	}
	return nil
}

// Text implements Page.
func (b *Browser) Text(selector string) string {
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%s);
		if (!el) return "";
		var t = (el.innerText || "").trim();
		if (!t) t = (el.textContent || "").trim();
		return t;
	})()`, jsString(selector))

	var out string
	if err := b.Eval(js, &out); err != nil {
		return ""
	}
	return out
}

// Texts implements Page.
func (b *Browser) Texts(selector string) []string {
	js := fmt.Sprintf(`(function() {
		var out = [];
		var els = document.querySelectorAll(%s);
		for (var i = 0; i < els.length; i++) {
			var t = (els[i].innerText || "").trim();
			if (!t) t = (els[i].textContent || "").trim();
			if (t) out.push(t);
		}
		return out;
	})()`, jsString(selector))

	var out []string
	if err := b.Eval(js, &out); err != nil {
		return nil
	}
	return out
}

// Attr implements Page.
func (b *Browser) Attr(selector, attr string) string {
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%s);
		if (!el) return "";
		return (el.getAttribute(%s) || "").trim();
	})()`, jsString(selector), jsString(attr))

	var out string
	if err := b.Eval(js, &out); err != nil {
		return ""
	}
	return out
}

// Attrs implements Page.
func (b *Browser) Attrs(selector, attr string) []string {
	js := fmt.Sprintf(`(function() {
		var out = [];
		var els = document.querySelectorAll(%s);
		for (var i = 0; i < els.length; i++) {
			var v = (els[i].getAttribute(%s) || "").trim();
			if (v) out.push(v);
		}
		return out;
	})()`, jsString(selector), jsString(attr))

	var out []string
	if err := b.Eval(js, &out); err != nil {
		return nil
	}
	return out
}

// Count implements Page.
func (b *Browser) Count(selector string) int {
	js := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(selector))

	var n int
	if err := b.Eval(js, &n); err != nil {
		return 0
	}
	return n
}

// Click implements Page.
func (b *Browser) Click(selector string) error {
	js := fmt.Sprintf(`(function() {
		var el = document.querySelector(%s);
		if (!el) return false;
		el.click();
		return true;
	})()`, jsString(selector))

	var clicked bool
	if err := b.Eval(js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("browser: nothing to click for %q", selector)
	}
	return nil
}

// Eval implements Page.
func (b *Browser) Eval(js string, out any) error {
	if out == nil {
		var discard json.RawMessage
		out = &discard
	}
	if err := chromedp.Run(b.ctx, chromedp.Evaluate(js, out)); err != nil {
		return fmt.Errorf("browser: evaluate: %w", err)
	}
	return nil
}

// Cookies implements Page.
func (b *Browser) Cookies() []Cookie {
	var out []Cookie
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := cdpstorage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, Cookie{Name: c.Name, Value: c.Value})
		}
		return nil
	}))
	if err != nil {
		b.logger.Debug("cookie transfer failed", "err", err)
		return nil
	}
	return out
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// findBinary locates a Chromium-family binary for the requested browser.
func findBinary(browserName string) string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	var names, paths []string
	if browserName == "edge" {
		names = []string{"microsoft-edge-stable", "microsoft-edge", "msedge"}
		paths = []string{
			"/usr/bin/microsoft-edge-stable",
			"/usr/bin/microsoft-edge",
			"/opt/microsoft/msedge/msedge",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	} else {
		names = []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
		paths = []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/opt/google/chrome/google-chrome",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
