package yandexmaps

import "testing"

func TestUpgradeImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/S_height",
			"https://avatars.mds.yandex.net/get-altay/123/abc/XL",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/M_height",
			"https://avatars.mds.yandex.net/get-altay/123/abc/XL",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/L_height",
			"https://avatars.mds.yandex.net/get-altay/123/abc/XL",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/200x200",
			"https://avatars.mds.yandex.net/get-altay/123/abc/orig",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/600x600",
			"https://avatars.mds.yandex.net/get-altay/123/abc/orig",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/priority-headline-background",
			"https://avatars.mds.yandex.net/get-altay/123/abc/XL",
		},
		{
			"https://avatars.mds.yandex.net/get-altay/123/abc/orig",
			"https://avatars.mds.yandex.net/get-altay/123/abc/orig",
		},
	}

	for _, tt := range tests {
		if got := upgradeImageURL(tt.in); got != tt.want {
			t.Errorf("upgradeImageURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		src    string
		srcset string
		want   string
	}{
		{"plain.jpg", "", "plain.jpg"},
		{"plain.jpg", "small.jpg 1x, large.jpg 2x", "large.jpg"},
		{"plain.jpg", "only.jpg 1x", "only.jpg"},
		{"", "a.jpg 1x, b.jpg 1.5x, c.jpg 2x", "c.jpg"},
	}

	for _, tt := range tests {
		if got := resolveImageURL(tt.src, tt.srcset); got != tt.want {
			t.Errorf("resolveImageURL(%q, %q) = %q; want %q", tt.src, tt.srcset, got, tt.want)
		}
	}
}

func TestIsChromeAsset(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://cdn.example.com/assets/icon.png", true},
		{"https://cdn.example.com/assets/company-logo.png", true},
		{"https://cdn.example.com/assets/marker.svg", true},
		{"https://avatars.mds.yandex.net/get-altay/123/photo/XL", false},
		// Markers in the query string do not make the image chrome.
		{"https://cdn.example.com/photo.jpg?from=logo", false},
	}

	for _, tt := range tests {
		if got := isChromeAsset(tt.src); got != tt.want {
			t.Errorf("isChromeAsset(%q) = %v; want %v", tt.src, got, tt.want)
		}
	}
}

func TestGalleryURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://yandex.ru/maps/org/cafe/123?ll=37.6%2C55.7&z=16",
			"https://yandex.ru/maps/org/cafe/123/gallery/?ll=37.6%2C55.7&z=16",
		},
		{
			"https://yandex.ru/maps/org/cafe/123/",
			"https://yandex.ru/maps/org/cafe/123/gallery/",
		},
		{
			"https://yandex.ru/maps/org/cafe/123",
			"https://yandex.ru/maps/org/cafe/123/gallery/",
		},
	}

	for _, tt := range tests {
		if got := galleryURL(tt.in); got != tt.want {
			t.Errorf("galleryURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
