// Package postgres is the PostgreSQL driver, the reference backend for
// production use.
package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/internal/profile"
	"github.com/tastegraph/tastegraph/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection pool for profile.DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Vocabulary reads are rare (startup) and tiny; keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ingredient (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS cuisine (
	id SERIAL PRIMARY KEY,
	value TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS category (
	id SERIAL PRIMARY KEY,
	value TEXT NOT NULL UNIQUE
);`
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create schema")
	}
	return nil
}

func (d *DB) SeedVocabulary(ctx context.Context, vocab store.Vocabulary) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	insert := func(query string, terms []string) error {
		for _, term := range terms {
			if _, err := tx.ExecContext(ctx, query, term); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert("INSERT INTO ingredient (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", vocab.Ingredients); err != nil {
		return errors.Wrap(err, "failed to seed ingredients")
	}
	if err := insert("INSERT INTO cuisine (value) VALUES ($1) ON CONFLICT (value) DO NOTHING", vocab.Cuisines); err != nil {
		return errors.Wrap(err, "failed to seed cuisines")
	}
	if err := insert("INSERT INTO category (value) VALUES ($1) ON CONFLICT (value) DO NOTHING", vocab.Categories); err != nil {
		return errors.Wrap(err, "failed to seed categories")
	}

	return tx.Commit()
}

func (d *DB) ListIngredients(ctx context.Context) ([]string, error) {
	return d.listValues(ctx, "SELECT name FROM ingredient ORDER BY name")
}

func (d *DB) ListCuisines(ctx context.Context) ([]string, error) {
	return d.listValues(ctx, "SELECT value FROM cuisine ORDER BY value")
}

func (d *DB) ListCategories(ctx context.Context) ([]string, error) {
	return d.listValues(ctx, "SELECT value FROM category ORDER BY value")
}

func (d *DB) listValues(ctx context.Context, query string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan failed")
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
