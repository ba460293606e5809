package yandexmaps

import (
	"strings"

	"github.com/Koveh/scrape-yandex-maps/browser"
)

// Low-level DOM readers shared by every field extractor. All of them
// treat per-element failures as "no value"; the fallback chains are plain
// selector slices so they stay testable against a fake page.

// firstText tries the selectors in order and returns the first non-empty
// text, or "".
func firstText(p browser.Page, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(p.Text(sel)); t != "" {
			return t
		}
	}
	return ""
}

// firstAttr tries the selectors in order and returns the first non-empty
// attribute value, or "".
func firstAttr(p browser.Page, selectors []string, attr string) string {
	for _, sel := range selectors {
		if v := strings.TrimSpace(p.Attr(sel, attr)); v != "" {
			return v
		}
	}
	return ""
}

// allTexts collects the deduplicated texts of every element matched by the
// first selector that yields any results. The selectors are alternative
// strategies for the same content, not cumulative sources, so later ones
// are skipped once a strategy hits.
func allTexts(p browser.Page, selectors []string) []string {
	for _, sel := range selectors {
		texts := p.Texts(sel)
		if len(texts) == 0 {
			continue
		}

		seen := make(map[string]struct{}, len(texts))
		out := make([]string, 0, len(texts))
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// allAttrs returns every value of attr across the elements matched by a
// single selector. No fallback chain.
func allAttrs(p browser.Page, selector, attr string) []string {
	return p.Attrs(selector, attr)
}
