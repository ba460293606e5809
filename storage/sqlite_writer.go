package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// SQLiteWriter persists the record set into a single-table SQLite
// database. Nested structures (features, photos, reviews) are stored as
// JSON strings so the table stays usable from common tools.
type SQLiteWriter struct {
	path string
}

// NewSQLiteWriter creates a SQLiteWriter targeting the given database
// file.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{path: path}
}

// Write implements PlaceWriter. The places table is replaced wholesale on
// every write; the database belongs to exactly one session directory.
func (w *SQLiteWriter) Write(places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}

	db, err := sql.Open("sqlite", w.path)
	if err != nil {
		return fmt.Errorf("sqlite: open %q: %w", w.path, err)
	}
	defer db.Close()

	if _, err := db.Exec(`DROP TABLE IF EXISTS places`); err != nil {
		return fmt.Errorf("sqlite: drop table: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE places (
			id            INTEGER,
			search_query  TEXT,
			name          TEXT,
			category      TEXT,
			description   TEXT,
			features      TEXT,
			address       TEXT,
			website       TEXT,
			phone         TEXT,
			rating        TEXT,
			reviews_count TEXT,
			working_hours TEXT,
			social_media  TEXT,
			link          TEXT,
			folder_path   TEXT,
			photos        TEXT,
			photos_count  INTEGER,
			primary_photo TEXT,
			reviews       TEXT,
			top_review    TEXT
		)
	`); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO places (
			id, search_query, name, category, description, features,
			address, website, phone, rating, reviews_count, working_hours,
			social_media, link, folder_path, photos, photos_count,
			primary_photo, reviews, top_review
		) VALUES (` + strings.TrimSuffix(strings.Repeat("?,", 20), ",") + `)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range places {
		primaryPhoto := ""
		if len(p.Photos) > 0 {
			primaryPhoto = p.Photos[0]
		}
		topReview := ""
		if len(p.Reviews) > 0 {
			topReview = truncateRunes(p.Reviews[0].Text, topReviewMaxLen)
		}

		_, err := stmt.Exec(
			p.ID, p.SearchQuery, p.Name, p.Category, p.Description,
			mustJSON(p.Features), p.Address, p.Website, p.Phone, p.Rating,
			p.ReviewsCount, strings.Join(p.WorkingHours, "; "),
			strings.Join(p.SocialMedia, "; "), p.Link, p.FolderPath,
			mustJSON(p.Photos), len(p.Photos), primaryPhoto,
			mustJSON(p.Reviews), topReview,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: insert place %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
