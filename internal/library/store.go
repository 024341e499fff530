// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library mirrors the merged movie document into a SQLite database
// so the collection can be queried with SQL after a conversion run.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tastemap-import/internal/summary"
	"github.com/pdiddy/tastemap-import/pkg/types"
)

// Store manages the library SQLite database.
type Store struct {
	db       *sql.DB
	keyField string
}

// NewStore opens or creates the database at cfg.Path and creates the schema
// if it does not exist. keyField names the record field stored as the
// unique movie identifier.
func NewStore(cfg types.LibraryConfig, keyField string) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("library path is empty")
	}
	if keyField == "" {
		keyField = types.FieldConst
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, keyField: keyField}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			position INTEGER PRIMARY KEY,
			ident TEXT NOT NULL UNIQUE,
			title TEXT,
			title_type TEXT,
			year INTEGER,
			imdb_rating REAL,
			your_rating INTEGER,
			record TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movie_genres (
			ordinal INTEGER PRIMARY KEY,
			movie_ident TEXT NOT NULL REFERENCES movies(ident) ON DELETE CASCADE,
			genre TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres(genre)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_your_rating ON movies(your_rating)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace rewrites the library with movies in a single transaction. Records
// keep their document order. It returns the number of movies stored.
func (s *Store) Replace(ctx context.Context, movies []types.Movie) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres`); err != nil {
		return 0, fmt.Errorf("clearing genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return 0, fmt.Errorf("clearing movies: %w", err)
	}

	movieStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (position, ident, title, title_type, year, imdb_rating, your_rating, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing movie insert: %w", err)
	}
	defer movieStmt.Close()

	genreStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movie_genres (ordinal, movie_ident, genre) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing genre insert: %w", err)
	}
	defer genreStmt.Close()

	ordinal := 0
	for i, m := range movies {
		key := m.Text(s.keyField)
		if key == "" {
			return 0, fmt.Errorf("movie at position %d has no %s", i, s.keyField)
		}
		record, err := json.Marshal(m)
		if err != nil {
			return 0, fmt.Errorf("encoding movie %s: %w", key, err)
		}
		_, err = movieStmt.ExecContext(ctx,
			i, key,
			column(m, types.FieldTitle), column(m, types.FieldTitleType),
			column(m, types.FieldYear), column(m, types.FieldIMDbRating),
			column(m, types.FieldYourRating), string(record),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting movie %s: %w", key, err)
		}

		for _, g := range m.Genres() {
			if _, err := genreStmt.ExecContext(ctx, ordinal, key, g); err != nil {
				return 0, fmt.Errorf("inserting genre %q for %s: %w", g, key, err)
			}
			ordinal++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(movies), nil
}

// column converts a record field to a driver value; Null and missing
// fields become SQL NULL.
func column(m types.Movie, field string) any {
	v, _ := m.Get(field)
	return v.Interface()
}

// Count returns the number of stored movies.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return n, nil
}

// Movies returns the stored records in document order.
func (s *Store) Movies(ctx context.Context) ([]types.Movie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM movies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	var movies []types.Movie
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning movie: %w", err)
		}
		var m types.Movie
		if err := json.Unmarshal([]byte(record), &m); err != nil {
			return nil, fmt.Errorf("decoding movie record: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// TopGenres ranks the genres of rated movies by frequency. Ties keep the
// order in which the genres first appear in the library.
func (s *Store) TopGenres(ctx context.Context, n int) ([]summary.GenreCount, error) {
	if n <= 0 {
		n = summary.DefaultTopGenres
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.genre, count(*) AS cnt
		 FROM movie_genres g
		 JOIN movies m ON m.ident = g.movie_ident
		 WHERE m.your_rating IS NOT NULL
		 GROUP BY g.genre
		 ORDER BY cnt DESC, min(g.ordinal)
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying genres: %w", err)
	}
	defer rows.Close()

	var out []summary.GenreCount
	for rows.Next() {
		var gc summary.GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, fmt.Errorf("scanning genre: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

// AverageRating returns the mean personal rating and whether any movie is
// rated.
func (s *Store) AverageRating(ctx context.Context) (float64, bool, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT avg(your_rating) FROM movies WHERE your_rating IS NOT NULL`,
	).Scan(&avg); err != nil {
		return 0, false, fmt.Errorf("averaging ratings: %w", err)
	}
	return avg.Float64, avg.Valid, nil
}
