package yandexmaps

// Every field is resolved through an ordered fallback chain of selectors
// reflecting the markup variants Yandex Maps has shipped over time.
// Strategies are tried strictly in order; the first non-empty result wins.
// Keeping the chains as data makes selector drift a one-line fix.

const (
	searchInputSelector    = "input.input__control, input[type='text']"
	resultsPanelSelector   = ".search-list-view, .search-snippet-view"
	snippetSelector        = ".search-snippet-view"
	detailsPanelSelector   = ".card-title-view__title, .orgpage-header-view__title, .business-card-view"
	galleryButtonSelector  = ".business-photos-view__more, .business-card-title-view__photo, .business-photos-view"
	galleryImageSelector   = "img.media-wrapper__media, .media-wrapper__media[src], .media-gallery img, .business-photos-view__photo-image img, .orgpage-photos-view__photo img"
	reviewItemSelector     = ".business-review-view"
	categoryLinkSelector   = "a[href*='/category/']"
	socialLinkSelector     = ".business-contacts-view__social-button a"
	openingHoursSelector   = "meta[itemprop='openingHours']"
	boolFeatureSelector    = ".business-features-view__bool-text"
	valuedFeatureSelector  = ".business-features-view__valued"
	tabSelector            = "div[class*='tabs-view__tab'], div[class*='_name_overview'], div[class*='_name_reviews']"
	selectedTabClassMarker = "_selected"
)

// snippetLinkSelectors resolve a snippet's detail-page link, tried in order
// within each rendered result row.
var snippetLinkSelectors = []string{
	".search-snippet-view__link-overlay",
	".search-snippet-view__title-link",
	"a.search-snippet-view__link-overlay",
	".search-snippet-view__body a",
}

var nameSelectors = []string{
	".orgpage-header-view__title",
	".card-title-view__title",
	"h1",
	".business-card-title-view__title",
}

var nameMetaSelectors = []string{"meta[itemprop='name']"}

var categoryFallbackSelectors = []string{
	".orgpage-header-view__categories a",
	".business-categories-view__category",
	".business-card-title-view__category",
	".card-title-view__category",
}

var descriptionSelectors = []string{
	".orgpage-header-view__description",
	".business-card-title-view__description",
	".card-title-view__description",
	".business-card-title-view__subtitle",
	".orgpage-header-view__subtitle",
}

var addressMetaSelectors = []string{"meta[itemprop='address']"}

var addressSelectors = []string{
	".business-contacts-view__address-link",
	".business-contacts-view__address",
	"[data-id='address']",
}

var websiteLinkSelectors = []string{
	".business-urls-view__link",
	"a[itemprop='url']",
}

var websiteTextSelectors = []string{".business-urls-view__text"}

var phoneSelectors = []string{
	"span[itemprop='telephone']",
	".card-phones-view__number",
	".business-phone-view__number",
}

var workingStatusSelectors = []string{".business-working-status-view__text"}

var ratingSelectors = []string{
	".business-rating-view__rating",
	".business-rating-badge-view__rating",
}

var reviewsCountSelectors = []string{
	".business-header-rating-view__text",
	".business-rating-view__count",
	".business-rating-badge-view__count",
	".business-header-rating-view__count",
	"span.business-rating-amount-view",
	".orgpage-header-view__rating-label",
}

// Tab labels are matched case-insensitively against rendered tab text.
// Yandex serves either Russian or English labels depending on locale.
var overviewTabLabels = []string{"обзор", "overview", "about"}
var reviewsTabLabels = []string{"отзывы", "reviews"}
