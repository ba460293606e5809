package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"кофейни в Москве", "кофейни в Москве"},
		{"cafe/bar: best?", "cafebar best"},
		{"  trimmed  ", "trimmed"},
		{"under_score-dash", "under_score-dash"},
		{"***", ""},
	}

	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionSetupCreatesQueryDir(t *testing.T) {
	s := NewSession(t.TempDir())

	if err := s.Setup("кофейни в Москве"); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	base := filepath.Base(s.Dir)
	if !strings.HasPrefix(base, s.Timestamp+"_") {
		t.Errorf("session dir %q does not start with timestamp %q", base, s.Timestamp)
	}
	if !strings.HasSuffix(base, "кофейни в Москве") {
		t.Errorf("session dir %q does not end with sanitized query", base)
	}
	if fi, err := os.Stat(s.Dir); err != nil || !fi.IsDir() {
		t.Errorf("session dir was not created: %v", err)
	}
}

func TestCreatePlaceFolder(t *testing.T) {
	s := NewSession(t.TempDir())
	if err := s.Setup("query"); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	folder, err := s.CreatePlaceFolder("Кофемания", 7)
	if err != nil {
		t.Fatalf("CreatePlaceFolder: %v", err)
	}

	if base := filepath.Base(folder); base != "007_Кофемания" {
		t.Errorf("folder name = %q; want %q", base, "007_Кофемания")
	}
	if fi, err := os.Stat(filepath.Join(folder, "photos")); err != nil || !fi.IsDir() {
		t.Errorf("photos subfolder missing: %v", err)
	}
}

func TestCreatePlaceFolderTruncatesLongNames(t *testing.T) {
	s := NewSession(t.TempDir())
	if err := s.Setup("query"); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	folder, err := s.CreatePlaceFolder(strings.Repeat("я", 80), 1)
	if err != nil {
		t.Fatalf("CreatePlaceFolder: %v", err)
	}

	base := filepath.Base(folder)
	name := strings.TrimPrefix(base, "001_")
	if got := len([]rune(name)); got != 50 {
		t.Errorf("folder name has %d runes after the prefix; want 50", got)
	}
}

func TestCreatePlaceFolderRequiresSetup(t *testing.T) {
	s := NewSession(t.TempDir())

	if _, err := s.CreatePlaceFolder("x", 1); err == nil {
		t.Error("expected error when creating a place folder before Setup")
	}
}
