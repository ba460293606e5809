package storage

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/Koveh/scrape-yandex-maps/models"
)

func testPlace() *models.Place {
	return &models.Place{
		ID:       1,
		Name:     "Кофемания",
		Category: "Кафе, Ресторан",
		Address:  "Москва, Тверская 1",
		Website:  "https://example.ru",
		Phone:    "+7 495 000-00-00",
		Rating:   "4.8",
		// The site-reported total; the tabular exports recount from the
		// scraped reviews instead.
		ReviewsCount: "1611",
		WorkingHours: []string{"Mo-Fr 09:00-22:00", "Sa-Su 10:00-23:00"},
		SocialMedia:  []string{"https://vk.com/x", "https://t.me/x"},
		Link:         "https://yandex.ru/maps/org/x/1/",
		FolderPath:   "out/001_Кофемания",
		SearchQuery:  "кофейни в Москве",
		Features: map[string]any{
			"Wi-Fi":        true,
			"Средний счёт": "1500 ₽",
		},
		Photos: []string{"out/001/photos/photo_1.jpg", "out/001/photos/photo_2.jpg"},
		Reviews: []models.Review{
			{Author: "Анна", Text: "Отличное место", Rating: "5"},
		},
	}
}

func rowMap(t *testing.T, columns []string, row []string) map[string]string {
	t.Helper()
	if len(columns) != len(row) {
		t.Fatalf("row has %d cells for %d columns", len(row), len(columns))
	}
	m := make(map[string]string, len(columns))
	for i, col := range columns {
		m[col] = row[i]
	}
	return m
}

func TestFlattenBaseFields(t *testing.T) {
	columns, rows := Flatten([]*models.Place{testPlace()})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	flat := rowMap(t, columns, rows[0])

	want := map[string]string{
		"id":            "1",
		"name":          "Кофемания",
		"category":      "Кафе, Ресторан",
		"working_hours": "Mo-Fr 09:00-22:00; Sa-Su 10:00-23:00",
		"social_media":  "https://vk.com/x; https://t.me/x",
		"photos_count":  "2",
		"primary_photo": "out/001/photos/photo_1.jpg",
		"reviews_count": "1",
		"top_review":    "Отличное место",
	}
	for col, val := range want {
		if flat[col] != val {
			t.Errorf("%s = %q; want %q", col, flat[col], val)
		}
	}
}

func TestFlattenFeatureColumns(t *testing.T) {
	columns, rows := Flatten([]*models.Place{testPlace()})
	flat := rowMap(t, columns, rows[0])

	if flat["feat_WiFi"] != "true" {
		t.Errorf("feat_WiFi = %q; want %q", flat["feat_WiFi"], "true")
	}
	if flat["feat_Среднийсчёт"] != "1500 ₽" {
		t.Errorf("feat_Среднийсчёт = %q; want %q", flat["feat_Среднийсчёт"], "1500 ₽")
	}

	// Feature columns come after the base columns, sorted.
	featStart := len(columns) - 2
	feats := append([]string{}, columns[featStart:]...)
	sorted := append([]string{}, feats...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(feats, sorted) {
		t.Errorf("feature columns not sorted: %v", feats)
	}
	for _, col := range columns[featStart:] {
		if !strings.HasPrefix(col, "feat_") {
			t.Errorf("trailing column %q is not a feature column", col)
		}
	}
}

func TestFlattenTruncatesTopReview(t *testing.T) {
	p := testPlace()
	p.Reviews[0].Text = strings.Repeat("ю", 300)

	columns, rows := Flatten([]*models.Place{p})
	flat := rowMap(t, columns, rows[0])

	if got := len([]rune(flat["top_review"])); got != topReviewMaxLen {
		t.Errorf("top_review length = %d runes; want %d", got, topReviewMaxLen)
	}
}

func TestFlattenMissingFeatureLeavesEmptyCell(t *testing.T) {
	a := testPlace()
	b := testPlace()
	b.ID = 2
	b.Features = map[string]any{"Парковка": true}

	columns, rows := Flatten([]*models.Place{a, b})
	flatA := rowMap(t, columns, rows[0])
	flatB := rowMap(t, columns, rows[1])

	if flatA["feat_Парковка"] != "" {
		t.Errorf("place without feature should have empty cell, got %q", flatA["feat_Парковка"])
	}
	if flatB["feat_Парковка"] != "true" {
		t.Errorf("feat_Парковка = %q; want %q", flatB["feat_Парковка"], "true")
	}
}

func TestFeatureColumn(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Wi-Fi", "feat_WiFi"},
		{"Средний счёт:", "feat_Среднийсчёт"},
		{"card_payment", "feat_card_payment"},
	}

	for _, tt := range tests {
		if got := featureColumn(tt.label); got != tt.want {
			t.Errorf("featureColumn(%q) = %q; want %q", tt.label, got, tt.want)
		}
	}
}
