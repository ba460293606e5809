package storage

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// Flattening rules shared by the tabular exports (CSV, Excel): nested
// features become feat_* columns, the photo list collapses to a count
// plus the primary path, and reviews collapse to a count plus a snippet
// of the top review. List fields are joined with "; ".

const topReviewMaxLen = 200

// baseColumns is the stable column order; feature columns are appended
// after it, sorted by name.
var baseColumns = []string{
	"id", "name", "category", "description", "address", "website", "phone",
	"rating", "reviews_count", "working_hours", "social_media", "link",
	"folder_path", "search_query", "photos_count", "primary_photo", "top_review",
}

// Flatten converts places into a header row and data rows.
func Flatten(places []*models.Place) (columns []string, rows [][]string) {
	featureCols := collectFeatureColumns(places)

	columns = append(columns, baseColumns...)
	columns = append(columns, featureCols...)

	for _, p := range places {
		flat := flattenPlace(p)
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, flat[col])
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func flattenPlace(p *models.Place) map[string]string {
	flat := map[string]string{
		"id":            strconv.Itoa(p.ID),
		"name":          p.Name,
		"category":      p.Category,
		"description":   p.Description,
		"address":       p.Address,
		"website":       p.Website,
		"phone":         p.Phone,
		"rating":        p.Rating,
		"working_hours": strings.Join(p.WorkingHours, "; "),
		"social_media":  strings.Join(p.SocialMedia, "; "),
		"link":          p.Link,
		"folder_path":   p.FolderPath,
		"search_query":  p.SearchQuery,
		"photos_count":  strconv.Itoa(len(p.Photos)),
		// The flattened reviews_count reflects the reviews actually
		// scraped, not the site's total (which stays in the structured
		// exports).
		"reviews_count": strconv.Itoa(len(p.Reviews)),
	}

	if len(p.Photos) > 0 {
		flat["primary_photo"] = p.Photos[0]
	}
	if len(p.Reviews) > 0 {
		flat["top_review"] = truncateRunes(p.Reviews[0].Text, topReviewMaxLen)
	}

	for label, value := range p.Features {
		flat[featureColumn(label)] = featureValue(value)
	}

	return flat
}

func collectFeatureColumns(places []*models.Place) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, p := range places {
		for label := range p.Features {
			col := featureColumn(label)
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// featureColumn derives a safe column name from a feature label.
func featureColumn(label string) string {
	var b strings.Builder
	b.WriteString("feat_")
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func featureValue(v any) string {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return ""
	}
}
