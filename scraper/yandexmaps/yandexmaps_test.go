package yandexmaps

import "testing"

func TestNormalizeListingURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://yandex.ru/maps/org/cafe/123/gallery/?ll=37.6&z=16",
			"https://yandex.ru/maps/org/cafe/123/?ll=37.6&z=16",
		},
		{
			"https://yandex.ru/maps/org/cafe/123/?tab=gallery&ll=37.6",
			"https://yandex.ru/maps/org/cafe/123/?ll=37.6",
		},
		{
			"https://yandex.ru/maps/org/cafe/123/gallery/?tab=gallery&ll=37.6",
			"https://yandex.ru/maps/org/cafe/123/?ll=37.6",
		},
		{
			"https://yandex.ru/maps/org/cafe/123/?ll=37.6",
			"https://yandex.ru/maps/org/cafe/123/?ll=37.6",
		},
	}

	for _, tt := range tests {
		if got := NormalizeListingURL(tt.in); got != tt.want {
			t.Errorf("NormalizeListingURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
