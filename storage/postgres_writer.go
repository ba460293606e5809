package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// PostgresWriter is the optional shared-database sink: unlike the
// per-session file exports, it accumulates places across runs, keyed by
// listing link.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS places (
			id            SERIAL PRIMARY KEY,
			place_index   INTEGER      NOT NULL,
			search_query  TEXT         NOT NULL,
			name          TEXT         NOT NULL,
			category      TEXT         NOT NULL DEFAULT '',
			description   TEXT         NOT NULL DEFAULT '',
			features      TEXT         NOT NULL DEFAULT '{}',
			address       TEXT         NOT NULL DEFAULT '',
			website       TEXT         NOT NULL DEFAULT '',
			phone         TEXT         NOT NULL DEFAULT '',
			rating        TEXT         NOT NULL DEFAULT '',
			reviews_count TEXT         NOT NULL DEFAULT '',
			working_hours TEXT         NOT NULL DEFAULT '',
			social_media  TEXT         NOT NULL DEFAULT '',
			link          TEXT         UNIQUE NOT NULL,
			photos        TEXT         NOT NULL DEFAULT '[]',
			reviews       TEXT         NOT NULL DEFAULT '[]',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_places_query    ON places(search_query);
		CREATE INDEX IF NOT EXISTS idx_places_category ON places(category);
	`)
	return err
}

// Write implements PlaceWriter, batch-inserting all places. Links already
// present are left untouched.
func (pw *PostgresWriter) Write(places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(places); i += batchSize {
		end := i + batchSize
		if end > len(places) {
			end = len(places)
		}
		if err := pw.insertBatch(places[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Place) error {
	const cols = 16
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, p := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			p.ID, p.SearchQuery, p.Name, p.Category, p.Description,
			mustJSON(p.Features), p.Address, p.Website, p.Phone, p.Rating,
			p.ReviewsCount, strings.Join(p.WorkingHours, "; "),
			strings.Join(p.SocialMedia, "; "), p.Link,
			mustJSON(p.Photos), mustJSON(p.Reviews),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO places (
			place_index, search_query, name, category, description, features,
			address, website, phone, rating, reviews_count, working_hours,
			social_media, link, photos, reviews
		)
		VALUES %s
		ON CONFLICT (link) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
