package yandexmaps

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Koveh/scrape-yandex-maps/browser"
	"github.com/Koveh/scrape-yandex-maps/utils"
)

const (
	gallerySettleDelay = 3500 * time.Millisecond
	downloadTimeout    = 15 * time.Second
	// Payloads at or below this size are 1×1 placeholder or error images.
	minPhotoBytes = 1000

	downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	downloadReferer   = "https://yandex.com/maps"
)

type imageCandidate struct {
	Src    string `json:"src"`
	Srcset string `json:"srcset"`
}

// extractPhotos walks the gallery state machine: best-effort gallery
// click, direct gallery-URL navigation when no images showed up, image
// discovery capped at MaxPhotos, sequential download, and a guaranteed
// return to the overview state so field extraction can resume.
func (s *Scraper) extractPhotos(p browser.Page, folder string) []string {
	downloaded := []string{}

	if p.Count(galleryButtonSelector) > 0 {
		s.logger.Info("opening photo gallery")
		if err := p.Click(galleryButtonSelector); err != nil {
			s.logger.Debug("gallery button click failed", "err", err)
		} else {
			time.Sleep(gallerySettleDelay)
		}
	}

	if p.Count(galleryImageSelector) == 0 {
		if cur, err := p.CurrentURL(); err == nil && !strings.Contains(cur, "/gallery/") {
			gu := galleryURL(cur)
			s.logger.Info("navigating to gallery url", "url", gu)
			if err := p.Navigate(gu); err != nil {
				s.logger.Debug("gallery navigation failed", "err", err)
			} else {
				time.Sleep(gallerySettleDelay)
			}
		}
	}

	var images []imageCandidate
	if err := p.Eval(collectGalleryImagesJS(), &images); err != nil {
		s.logger.Warn("photo discovery error", "err", err)
	}
	if len(images) > s.cfg.MaxPhotos {
		images = images[:s.cfg.MaxPhotos]
	}
	s.logger.Info("potential gallery images", "count", len(images))

	cookies := p.Cookies()

	for i, img := range images {
		src := resolveImageURL(img.Src, img.Srcset)
		if src == "" {
			s.logger.Debug("image has no source", "index", i+1)
			continue
		}
		if isChromeAsset(src) {
			s.logger.Debug("skipping icon/logo asset", "index", i+1, "src", src)
			continue
		}
		src = upgradeImageURL(src)

		path, err := s.downloadPhoto(src, cookies, folder, len(downloaded)+1)
		if err != nil {
			s.logger.Warn("photo download failed", "index", i+1, "err", err)
			continue
		}
		s.logger.Info("photo saved", "path", path)
		downloaded = append(downloaded, path)
	}

	s.returnToOverview(p)

	return downloaded
}

// returnToOverview re-establishes the overview state when the photo
// pipeline left the page on the gallery URL, so that text extraction is
// not broken by a stale view.
func (s *Scraper) returnToOverview(p browser.Page) {
	cur, err := p.CurrentURL()
	if err != nil || !strings.Contains(cur, "/gallery/") {
		return
	}

	if err := p.Navigate(strings.Replace(cur, "/gallery/", "/", 1)); err != nil {
		s.logger.Debug("return to overview failed", "err", err)
		return
	}
	time.Sleep(2 * time.Second)
	s.switchToOverview(p)
	scrollBy(p, 1000)
	time.Sleep(time.Second)
}

func collectGalleryImagesJS() string {
	return fmt.Sprintf(`(function() {
		var out = [];
		var imgs = document.querySelectorAll(%s);
		for (var i = 0; i < imgs.length; i++) {
			out.push({
				src: imgs[i].getAttribute("src") || "",
				srcset: imgs[i].getAttribute("srcset") || ""
			});
		}
		return out;
	})()`, jsString(galleryImageSelector))
}

// galleryURL constructs the photo-view variant of a detail URL by
// inserting a gallery/ path segment before the query string, or appending
// one when there is no query.
func galleryURL(current string) string {
	if base, query, ok := strings.Cut(current, "?"); ok {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		return base + "gallery/?" + query
	}
	return strings.TrimRight(current, "/") + "/gallery/"
}

// resolveImageURL picks the image URL, preferring the last (highest
// resolution) candidate of a responsive srcset over the plain src.
func resolveImageURL(src, srcset string) string {
	if srcset != "" {
		candidates := strings.Split(srcset, ",")
		last := strings.TrimSpace(candidates[len(candidates)-1])
		if fields := strings.Fields(last); len(fields) > 0 {
			return fields[0]
		}
	}
	return src
}

// upgradeImageURL rewrites known low-resolution size tokens to their
// high-resolution variants. This is heuristic pattern substitution; URLs
// without a known token pass through unchanged.
func upgradeImageURL(src string) string {
	if strings.Contains(src, "S_height") || strings.Contains(src, "XXS") || strings.Contains(src, "XS_height") {
		src = strings.ReplaceAll(src, "S_height", "XL")
		src = strings.ReplaceAll(src, "XXS_height", "XL")
		src = strings.ReplaceAll(src, "XS_height", "XL")
	}

	src = strings.ReplaceAll(src, "M_height", "XL")
	src = strings.ReplaceAll(src, "L_height", "XL")
	src = strings.ReplaceAll(src, "200x200", "orig")
	src = strings.ReplaceAll(src, "400x400", "orig")
	src = strings.ReplaceAll(src, "600x600", "orig")
	src = strings.ReplaceAll(src, "priority-headline-background", "XL")

	return src
}

// isChromeAsset reports whether the URL's final path segment marks it as
// site chrome (icon, logo, vector graphic) rather than content.
func isChromeAsset(src string) bool {
	pathPart := src
	if i := strings.Index(pathPart, "?"); i >= 0 {
		pathPart = pathPart[:i]
	}
	if i := strings.LastIndex(pathPart, "/"); i >= 0 {
		pathPart = pathPart[i+1:]
	}

	lower := strings.ToLower(pathPart)
	for _, marker := range []string{"icon", "logo", "svg"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// downloadPhoto fetches one image with the browser's cookies and a
// browser-like identity. A response is accepted only on HTTP success with
// a payload above the placeholder threshold.
func (s *Scraper) downloadPhoto(src string, cookies []browser.Cookie, folder string, n int) (string, error) {
	var data []byte

	retry := &utils.RetryConfig{MaxAttempts: 2, BaseDelay: time.Second, Logger: s.logger}
	err := retry.Do(fmt.Sprintf("photo-%d", n), func() error {
		req, err := http.NewRequest(http.MethodGet, src, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", downloadUserAgent)
		req.Header.Set("Referer", downloadReferer)
		for _, c := range cookies {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		if len(body) <= minPhotoBytes {
			return fmt.Errorf("payload too small (%d bytes)", len(body))
		}

		data = body
		return nil
	})
	if err != nil {
		return "", err
	}

	return s.savePhoto(data, folder, n)
}

// savePhoto persists the image, re-encoding to the configured format when
// possible. Re-encode failures (and webp, which has no pure-Go encoder)
// fall back to saving the original bytes verbatim.
func (s *Scraper) savePhoto(data []byte, folder string, n int) (string, error) {
	photosDir := filepath.Join(folder, "photos")

	switch s.cfg.PhotoFormat {
	case "png":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err == nil {
				path := filepath.Join(photosDir, fmt.Sprintf("photo_%d.png", n))
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return "", err
				}
				return path, nil
			}
		}
		s.logger.Warn("png re-encode failed, saving original bytes", "photo", n)
	case "webp":
		s.logger.Debug("webp re-encode unavailable, saving original bytes", "photo", n)
	}

	path := filepath.Join(photosDir, fmt.Sprintf("photo_%d.jpg", n))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
