package yandexmaps

import (
	"fmt"
	"testing"

	"github.com/Koveh/scrape-yandex-maps/models"
)

func TestExtractReviewsCapsAtFive(t *testing.T) {
	var raws []rawReview
	for i := 0; i < 7; i++ {
		raws = append(raws, rawReview{
			Author: fmt.Sprintf("Автор %d", i+1),
			Text:   "Отличное место",
			Rating: "5",
		})
	}

	s := newTestScraper(1)
	got := s.extractReviews(&fakePage{reviews: raws})

	if len(got) != 5 {
		t.Fatalf("expected 5 reviews after the cap, got %d", len(got))
	}
	if got[0].Author != "Автор 1" || got[4].Author != "Автор 5" {
		t.Errorf("cap should keep the first five in order, got %q..%q",
			got[0].Author, got[4].Author)
	}
}

func TestExtractReviewsDiscardsInvalidItems(t *testing.T) {
	raws := []rawReview{
		{Author: "Анна", Text: "Хорошо", Rating: "4"},
		{Author: "Без оценки", Text: "Текст есть"},
		{Rating: "5"},
	}

	s := newTestScraper(1)
	got := s.extractReviews(&fakePage{reviews: raws})

	if len(got) != 1 {
		t.Fatalf("expected 1 valid review, got %d", len(got))
	}
	if got[0].Author != "Анна" {
		t.Errorf("kept review author = %q; want %q", got[0].Author, "Анна")
	}
}

func TestKeepReview(t *testing.T) {
	tests := []struct {
		name   string
		review models.Review
		want   bool
	}{
		{"full review", models.Review{Author: "Анна", Text: "Отлично", Rating: "5"}, true},
		{"rating and author only", models.Review{Author: "Анна", Rating: "4"}, true},
		{"rating and text only", models.Review{Text: "Неплохо", Rating: "3"}, true},
		{"no rating", models.Review{Author: "Анна", Text: "Отлично"}, false},
		{"rating only", models.Review{Rating: "5"}, false},
		{"empty", models.Review{}, false},
	}

	for _, tt := range tests {
		if got := keepReview(tt.review); got != tt.want {
			t.Errorf("%s: keepReview = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolveReviewRating(t *testing.T) {
	tests := []struct {
		ratingText string
		starsAria  string
		want       string
	}{
		{"5", "Rating 4 Out of 5", "5"},
		{"  4.5  ", "", "4.5"},
		{"", "Rating 5 Out of 5", "5"},
		{"", "Оценка 4.2 из 5", "4.2"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := resolveReviewRating(tt.ratingText, tt.starsAria); got != tt.want {
			t.Errorf("resolveReviewRating(%q, %q) = %q; want %q",
				tt.ratingText, tt.starsAria, got, tt.want)
		}
	}
}
