package yandexmaps

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Koveh/scrape-yandex-maps/browser"
	"github.com/Koveh/scrape-yandex-maps/models"
)

const maxCategories = 3

// extractDetails builds one record from the currently opened detail
// panel. An error before the panel becomes visible drops the listing;
// every failure past that checkpoint degrades to an absent field.
func (s *Scraper) extractDetails(p browser.Page, index int, query string) (*models.Place, error) {
	if err := p.WaitVisible(detailsPanelSelector, panelTimeout); err != nil {
		return nil, fmt.Errorf("details panel never became visible: %w", err)
	}

	s.switchToOverview(p)

	// Two short scrolls force lazy sections (contacts, features, photos)
	// to render.
	scrollBy(p, 1000)
	time.Sleep(time.Second)
	scrollBy(p, 1000)
	time.Sleep(time.Second)

	name := firstText(p, nameSelectors)
	if name == "" {
		name = firstAttr(p, nameMetaSelectors, "content")
	}
	if name == "" {
		name = fmt.Sprintf("Place_%d", index)
	}

	// Category and description live in the header and must be read before
	// the photo pipeline can navigate away to the gallery.
	category := s.extractCategory(p)
	description := firstText(p, descriptionSelectors)

	folder, err := s.session.CreatePlaceFolder(name, index)
	if err != nil {
		return nil, fmt.Errorf("allocate place folder: %w", err)
	}

	photos := []string{}
	if s.cfg.ScrapePhotos {
		photos = s.extractPhotos(p, folder)
	}

	features := s.extractFeatures(p)

	address := firstAttr(p, addressMetaSelectors, "content")
	if address == "" {
		address = firstText(p, addressSelectors)
	}

	website := firstAttr(p, websiteLinkSelectors, "href")
	if website == "" {
		website = firstText(p, websiteTextSelectors)
	}

	phone := firstText(p, phoneSelectors)

	workingHours := allAttrs(p, openingHoursSelector, "content")
	if len(workingHours) == 0 {
		if status := firstText(p, workingStatusSelectors); status != "" {
			workingHours = []string{status}
		}
	}
	if workingHours == nil {
		workingHours = []string{}
	}

	social := allAttrs(p, socialLinkSelector, "href")
	if social == nil {
		social = []string{}
	}

	link, _ := p.CurrentURL()

	place := &models.Place{
		ID:           index,
		Name:         name,
		Category:     category,
		Description:  description,
		Features:     features,
		Address:      address,
		Website:      website,
		Phone:        phone,
		Rating:       s.extractRating(p),
		ReviewsCount: s.extractReviewsCount(p),
		WorkingHours: workingHours,
		FolderPath:   folder,
		Link:         link,
		SocialMedia:  social,
		Photos:       photos,
		Reviews:      []models.Review{},
		SearchQuery:  query,
	}

	if s.cfg.ScrapeReviews {
		place.Reviews = s.extractReviews(p)
	}

	return place, nil
}

// extractCategory prefers links whose target path carries the category
// marker; descriptive-label selectors are only consulted when no such
// links exist. Deduplicated, capped at three, joined with ", ".
func (s *Scraper) extractCategory(p browser.Page) string {
	seen := make(map[string]struct{})
	var categories []string
	for _, text := range p.Texts(categoryLinkSelector) {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		categories = append(categories, text)
		if len(categories) == maxCategories {
			break
		}
	}
	if len(categories) > 0 {
		return strings.Join(categories, ", ")
	}

	return firstText(p, categoryFallbackSelectors)
}

type valuedFeature struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// extractFeatures collects boolean presence attributes and titled
// key/value attributes into one map.
func (s *Scraper) extractFeatures(p browser.Page) map[string]any {
	features := make(map[string]any)

	for _, text := range p.Texts(boolFeatureSelector) {
		if text = strings.TrimSpace(text); text != "" {
			features[text] = true
		}
	}

	var valued []valuedFeature
	if err := p.Eval(collectValuedFeaturesJS(), &valued); err != nil {
		s.logger.Debug("valued feature extraction failed", "err", err)
		return features
	}
	for _, vf := range valued {
		title := strings.TrimSuffix(strings.TrimSpace(vf.Title), ":")
		value := strings.TrimSpace(vf.Value)
		if title != "" && value != "" {
			features[title] = value
		}
	}

	return features
}

func collectValuedFeaturesJS() string {
	return fmt.Sprintf(`(function() {
		var out = [];
		var items = document.querySelectorAll(%s);
		for (var i = 0; i < items.length; i++) {
			var titleEl = items[i].querySelector(".business-features-view__valued-title");
			var valueEl = items[i].querySelector(".business-features-view__valued-value");
			out.push({
				title: titleEl ? (titleEl.innerText || "").trim() : "",
				value: valueEl ? (valueEl.innerText || "").trim() : ""
			});
		}
		return out;
	})()`, jsString(valuedFeatureSelector))
}

var (
	decimalRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerRe = regexp.MustCompile(`\d+`)
)

// extractDecimal pulls the first decimal substring out of noisy label
// text ("Rating 4.9" → "4.9"). Empty string when no digits are present.
func extractDecimal(s string) string {
	return decimalRe.FindString(s)
}

// extractInteger pulls the first integer substring out of noisy label
// text ("1611 ratings" → "1611"). Empty string when no digits are present.
func extractInteger(s string) string {
	return integerRe.FindString(s)
}

func (s *Scraper) extractRating(p browser.Page) string {
	return extractDecimal(firstText(p, ratingSelectors))
}

func (s *Scraper) extractReviewsCount(p browser.Page) string {
	return extractInteger(firstText(p, reviewsCountSelectors))
}
