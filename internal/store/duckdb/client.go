// Package duckdb persists finished feature tables to a local DuckDB
// database: one columnar table per recipe, replaced wholesale on each
// run, plus a runs catalog tying rows to quality reports.
package duckdb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb"
)

// Client manages the DuckDB connection.
type Client struct {
	db   *sqlx.DB
	path string
}

// NewClient opens (and creates if necessary) the DuckDB database at
// path. ":memory:" yields an in-memory database, used by tests.
func NewClient(path string) (*Client, error) {
	if path != ":memory:" && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping duckdb at %s: %w", path, err)
	}

	c := &Client{db: db, path: path}
	if err := c.ensureCatalog(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// DB returns the underlying sqlx handle.
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *Client) ensureCatalog() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS runs (
			run_id     VARCHAR PRIMARY KEY,
			recipe     VARCHAR NOT NULL,
			row_count  BIGINT NOT NULL,
			written_at TIMESTAMP NOT NULL
		)`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs catalog: %w", err)
	}
	return nil
}
