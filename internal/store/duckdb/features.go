package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/regimelab/macrostate/internal/dataset"
)

// FeatureStore writes and reads feature tables keyed by recipe name.
type FeatureStore struct {
	client *Client
}

// NewFeatureStore creates a feature store on top of the client.
func NewFeatureStore(client *Client) *FeatureStore {
	return &FeatureStore{client: client}
}

// RunRecord is one row of the runs catalog.
type RunRecord struct {
	RunID     string    `db:"run_id"`
	Recipe    string    `db:"recipe"`
	RowCount  int64     `db:"row_count"`
	WrittenAt time.Time `db:"written_at"`
}

// WriteFeatures replaces the recipe's feature table with t and records
// the run in the catalog. The replace and the catalog insert happen in
// one transaction, so readers see either the previous run or the new one
// in full. Missing markers are stored as SQL NULL and round-trip back to
// missing on read.
func (s *FeatureStore) WriteFeatures(ctx context.Context, recipeName string, t *dataset.Table, runID string) error {
	tableName, err := featureTableName(recipeName)
	if err != nil {
		return err
	}
	cols := t.Columns()
	for _, name := range cols {
		if err := validIdentifier(name); err != nil {
			return err
		}
	}

	tx, err := s.client.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %q`, tableName)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", tableName, err)
	}

	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, `ts TIMESTAMP NOT NULL`)
	for _, name := range cols {
		defs = append(defs, fmt.Sprintf("%q DOUBLE", name))
	}
	create := fmt.Sprintf(`CREATE TABLE %q (%s)`, tableName, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create %s: %w", tableName, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	insert := fmt.Sprintf(`INSERT INTO %q VALUES (%s)`, tableName, placeholders)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	series := make([][]float64, len(cols))
	for i, name := range cols {
		series[i], _ = t.Column(name)
	}
	index := t.Index()
	args := make([]interface{}, len(cols)+1)
	for row := 0; row < t.Len(); row++ {
		args[0] = index[row]
		for i := range cols {
			v := series[i][row]
			if dataset.IsMissing(v) {
				args[i+1] = nil
			} else {
				args[i+1] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row, err)
		}
	}

	record := `INSERT INTO runs (run_id, recipe, row_count, written_at) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, record, runID, recipeName, int64(t.Len()), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feature write: %w", err)
	}
	return nil
}

// ReadFeatures loads the recipe's feature table back, preserving column
// order, row order, and values.
func (s *FeatureStore) ReadFeatures(ctx context.Context, recipeName string) (*dataset.Table, error) {
	tableName, err := featureTableName(recipeName)
	if err != nil {
		return nil, err
	}

	rows, err := s.client.db.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %q ORDER BY ts`, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", tableName, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 || cols[0] != "ts" {
		return nil, fmt.Errorf("table %s has unexpected layout", tableName)
	}

	var index []time.Time
	values := make([][]float64, len(cols)-1)

	dest := make([]interface{}, len(cols))
	var ts time.Time
	scanned := make([]sql.NullFloat64, len(cols)-1)
	dest[0] = &ts
	for i := range scanned {
		dest[i+1] = &scanned[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", tableName, err)
		}
		index = append(index, ts.UTC())
		for i, v := range scanned {
			if v.Valid {
				values[i] = append(values[i], v.Float64)
			} else {
				values[i] = append(values[i], dataset.Missing())
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	t := dataset.New(index)
	for i, name := range cols[1:] {
		if t, err = t.WithColumn(name, values[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ListRuns returns the run catalog, most recent first.
func (s *FeatureStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	var runs []RunRecord
	err := s.client.db.SelectContext(ctx, &runs,
		`SELECT run_id, recipe, row_count, written_at FROM runs ORDER BY written_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func featureTableName(recipeName string) (string, error) {
	if err := validIdentifier(recipeName); err != nil {
		return "", err
	}
	return "features_" + recipeName, nil
}

// validIdentifier rejects names that cannot be safely quoted into DDL.
func validIdentifier(name string) error {
	if name == "" || strings.ContainsAny(name, `"`+"\x00") {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}
