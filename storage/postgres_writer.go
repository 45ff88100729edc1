package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"michelin-scraper/models"
	"michelin-scraper/utils"
)

// PostgresWriter persists listing records to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter. The ping is
// retried because the database container may still be starting; this is
// the only retried operation in the system.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS restaurants (
			id          SERIAL PRIMARY KEY,
			name        TEXT        NOT NULL,
			url         TEXT        UNIQUE NOT NULL,
			stars       INTEGER     NOT NULL DEFAULT 0,
			distinction VARCHAR(50) NOT NULL DEFAULT 'None',
			location    TEXT        NOT NULL DEFAULT '',
			price       TEXT        NOT NULL DEFAULT '',
			cuisine     TEXT        NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_restaurants_stars       ON restaurants(stars);
		CREATE INDEX IF NOT EXISTS idx_restaurants_location    ON restaurants(location);
		CREATE INDEX IF NOT EXISTS idx_restaurants_distinction ON restaurants(distinction);
	`)
	return err
}

// Clear deletes all existing restaurants from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM restaurants")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the run's restaurants, clearing old data first.
func (pw *PostgresWriter) Write(restaurants []models.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(restaurants); i += batchSize {
		end := i + batchSize
		if end > len(restaurants) {
			end = len(restaurants)
		}
		if err := pw.insertBatch(restaurants[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Restaurant) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*7)

	for idx, r := range batch {
		base := idx * 7
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			r.Name, r.URL, r.Stars, r.Distinction, r.Location, r.Price, r.Cuisine)
	}

	query := fmt.Sprintf(`
		INSERT INTO restaurants (name, url, stars, distinction, location, price, cuisine)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored restaurants in insertion order.
func (pw *PostgresWriter) FetchAll() ([]models.Restaurant, error) {
	rows, err := pw.db.Query(`
		SELECT name, url, stars, distinction, location, price, cuisine
		FROM restaurants
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(
			&r.Name, &r.URL, &r.Stars, &r.Distinction, &r.Location, &r.Price, &r.Cuisine,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}
