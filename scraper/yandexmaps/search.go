package yandexmaps

import (
	"fmt"
	"time"

	"github.com/Koveh/scrape-yandex-maps/browser"
	"github.com/Koveh/scrape-yandex-maps/utils"
)

const (
	searchTimeout     = 10 * time.Second
	searchSettleDelay = 2 * time.Second

	// Pagination gives up after this many consecutive scroll iterations
	// with no growth in rendered snippet count.
	maxScrollStalls   = 5
	scrollSettleDelay = 1500 * time.Millisecond
)

// performSearch submits the query into the search box and waits for the
// results panel. Both timeouts here are fatal for the run: without a
// results panel no listings can be discovered.
func (s *Scraper) performSearch(p browser.Page, query string) error {
	if err := p.WaitVisible(searchInputSelector, searchTimeout); err != nil {
		return fmt.Errorf("search box not found: %w", err)
	}

	if err := p.Submit(searchInputSelector, query); err != nil {
		return fmt.Errorf("submit query: %w", err)
	}

	if err := p.WaitVisible(resultsPanelSelector, searchTimeout); err != nil {
		return fmt.Errorf("search results never appeared: %w", err)
	}
	time.Sleep(searchSettleDelay)

	return nil
}

// collectListingLinks scrolls the results panel until it has MaxResults
// unique detail-page links, or the panel stalls. Links are deduplicated
// by exact string match and returned in first-seen order.
//
// There is no global time budget beyond the stall cutoff: a panel that
// keeps injecting snippets without new links can keep this loop alive
// indefinitely.
func (s *Scraper) collectListingLinks(p browser.Page) ([]string, error) {
	s.logger.Info("scrolling to load results")

	links := utils.NewURLSet()
	lastCount := 0
	stalls := 0

	for {
		count := p.Count(snippetSelector)

		var hrefs []string
		if err := p.Eval(collectSnippetLinksJS(), &hrefs); err != nil {
			s.logger.Debug("snippet link collection failed", "err", err)
		}
		for _, href := range hrefs {
			links.Add(href)
		}

		if links.Size() >= s.cfg.MaxResults {
			s.logger.Info("collected target number of links",
				"links", links.Size(), "target", s.cfg.MaxResults)
			return links.Values()[:s.cfg.MaxResults], nil
		}

		if count == lastCount {
			stalls++
			if stalls >= maxScrollStalls {
				s.logger.Warn("no new results after repeated scrolls, stopping",
					"links", links.Size())
				return capLinks(links.Values(), s.cfg.MaxResults), nil
			}
		} else {
			stalls = 0
		}
		lastCount = count

		s.logger.Debug("pagination progress", "snippets", count, "links", links.Size())

		if count > 0 {
			if err := p.Eval(scrollLastSnippetJS(), nil); err != nil {
				s.logger.Debug("scroll failed, stopping pagination", "err", err)
				break
			}
		}
		time.Sleep(scrollSettleDelay)
	}

	return capLinks(links.Values(), s.cfg.MaxResults), nil
}

func capLinks(links []string, max int) []string {
	if len(links) > max {
		return links[:max]
	}
	return links
}

// collectSnippetLinksJS resolves each rendered snippet's detail link via
// the ordered selector fallback chain and returns all hrefs found.
func collectSnippetLinksJS() string {
	return fmt.Sprintf(`(function() {
		var sels = %s;
		var out = [];
		var snippets = document.querySelectorAll(%s);
		for (var i = 0; i < snippets.length; i++) {
			for (var j = 0; j < sels.length; j++) {
				var a = snippets[i].querySelector(sels[j]);
				if (a && a.href) { out.push(a.href); break; }
			}
		}
		return out;
	})()`, jsArray(snippetLinkSelectors), jsString(snippetSelector))
}

// scrollLastSnippetJS scrolls the last rendered snippet into view to
// trigger lazy loading of the next result batch.
func scrollLastSnippetJS() string {
	return fmt.Sprintf(`(function() {
		var snippets = document.querySelectorAll(%s);
		if (snippets.length > 0) {
			snippets[snippets.length - 1].scrollIntoView(true);
		}
	})()`, jsString(snippetSelector))
}
