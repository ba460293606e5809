package yandexmaps

import (
	"fmt"
	"strings"
	"time"

	"github.com/Koveh/scrape-yandex-maps/browser"
	"github.com/Koveh/scrape-yandex-maps/models"
)

const (
	reviewsSettleDelay = 2 * time.Second
	maxReviews         = 5
)

type rawReview struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Rating    string `json:"rating"`
	StarsAria string `json:"starsAria"`
	Date      string `json:"date"`
}

// extractReviews switches to the reviews tab and parses the first five
// review items in DOM order. The site renders them recency- or
// relevance-ordered; this is a pass-through, not a re-ranking.
func (s *Scraper) extractReviews(p browser.Page) []models.Review {
	reviews := []models.Review{}

	if switchTab(p, reviewsTabLabels) {
		time.Sleep(reviewsSettleDelay)
	}

	raw := s.collectReviewItems(p)
	if len(raw) == 0 {
		// The reviews list can sit below the fold; one scroll-and-retry
		// before giving up.
		scrollBy(p, 500)
		time.Sleep(time.Second)
		raw = s.collectReviewItems(p)
	}

	if len(raw) > maxReviews {
		raw = raw[:maxReviews]
	}

	for _, r := range raw {
		review := models.Review{
			Author: strings.TrimSpace(r.Author),
			Text:   strings.TrimSpace(r.Text),
			Rating: resolveReviewRating(r.Rating, r.StarsAria),
			Date:   strings.TrimSpace(r.Date),
		}
		if keepReview(review) {
			reviews = append(reviews, review)
		}
	}

	return reviews
}

func (s *Scraper) collectReviewItems(p browser.Page) []rawReview {
	var raw []rawReview
	if err := p.Eval(collectReviewsJS(), &raw); err != nil {
		s.logger.Warn("review extraction error", "err", err)
	}
	return raw
}

// resolveReviewRating prefers the explicit rating text and falls back to
// parsing a number out of the star widget's accessibility label
// ("Rating 5 Out of 5" → "5").
func resolveReviewRating(ratingText, starsAriaLabel string) string {
	if t := strings.TrimSpace(ratingText); t != "" {
		return t
	}
	return extractDecimal(starsAriaLabel)
}

// keepReview applies the validity filter: a review needs a rating and at
// least one of text or author. Anything else is discarded, not counted as
// an error.
func keepReview(r models.Review) bool {
	return r.Rating != "" && (r.Text != "" || r.Author != "")
}

func collectReviewsJS() string {
	return fmt.Sprintf(`(function() {
		function text(parent, sel) {
			var el = parent.querySelector(sel);
			return el ? (el.innerText || "").trim() : "";
		}
		var out = [];
		var items = document.querySelectorAll(%s);
		for (var i = 0; i < items.length; i++) {
			var item = items[i];
			var author = text(item, ".business-review-view__author-name span[itemprop='name']");
			if (!author) author = text(item, ".business-review-view__author-name");
			var body = text(item, ".business-review-view__body .spoiler-view__text");
			if (!body) body = text(item, ".business-review-view__body");
			var starsEl = item.querySelector(".business-rating-badge-view__stars");
			out.push({
				author: author,
				text: body,
				rating: text(item, ".business-rating-badge-view__rating-text"),
				starsAria: starsEl ? (starsEl.getAttribute("aria-label") || "") : "",
				date: text(item, ".business-review-view__date")
			});
		}
		return out;
	})()`, jsString(reviewItemSelector))
}
