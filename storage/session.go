package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Session owns the on-disk layout of one scraping run: a dedicated
// directory named after the start timestamp and the sanitized query, with
// one numbered folder (plus photos/ subfolder) per place.
type Session struct {
	BaseDir   string
	Timestamp string
	Dir       string
}

// NewSession creates a Session rooted at baseDir. Setup must be called
// before any paths are handed out.
func NewSession(baseDir string) *Session {
	return &Session{
		BaseDir:   baseDir,
		Timestamp: time.Now().Format("20060102_150405"),
	}
}

// Setup creates the dedicated directory for this run.
func (s *Session) Setup(query string) error {
	folder := s.Timestamp + "_" + sanitizeName(query)
	s.Dir = filepath.Join(s.BaseDir, folder)

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("session: create dir %q: %w", s.Dir, err)
	}
	return nil
}

// CreatePlaceFolder allocates the media folder for one place, named
// NNN_<sanitized name> with the name capped at 50 characters.
func (s *Session) CreatePlaceFolder(placeName string, index int) (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("session: directory not set up, call Setup first")
	}

	safe := truncateRunes(sanitizeName(placeName), 50)
	placePath := filepath.Join(s.Dir, fmt.Sprintf("%03d_%s", index, safe))

	if err := os.MkdirAll(filepath.Join(placePath, "photos"), 0o755); err != nil {
		return "", fmt.Errorf("session: create place folder: %w", err)
	}
	return placePath, nil
}

// FilePath returns the path of a session-level artifact (export file).
func (s *Session) FilePath(name string) string {
	return filepath.Join(s.Dir, name)
}

// sanitizeName keeps letters, digits, spaces, dashes and underscores so
// queries and place names (including Cyrillic ones) stay readable as
// folder names.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
