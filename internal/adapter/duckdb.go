package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDB reads tabular files through an embedded DuckDB database.
type DuckDB struct {
	BaseSQLAdapter
}

// NewDuckDB creates a new, unconnected DuckDB adapter.
func NewDuckDB(logger *slog.Logger) *DuckDB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDB{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
}

// Connect establishes a connection to DuckDB.
// Use an empty path or ":memory:" for an in-memory database.
func (a *DuckDB) Connect(ctx context.Context, cfg Config) error {
	if a.IsConnected() {
		return fmt.Errorf("duckdb connection already established")
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	a.DB = db
	a.Cfg = cfg

	keys := make([]string, 0, len(cfg.Settings))
	for k := range cfg.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("SET %s = %s", k, QuoteLiteral(cfg.Settings[k]))
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			a.DB = nil
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}

	a.Logger.Debug("connected to duckdb", "path", path, "settings", len(keys))
	return nil
}

// tableReader picks the DuckDB table function for a file by extension.
// Parquet is the default; CSV files are read with every column as text.
func tableReader(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return fmt.Sprintf("read_csv(%s, all_varchar=true, header=true)", QuoteLiteral(path))
	case ".json", ".ndjson", ".jsonl":
		return fmt.Sprintf("read_json_auto(%s)", QuoteLiteral(path))
	default:
		return fmt.Sprintf("read_parquet(%s)", QuoteLiteral(path))
	}
}

// ReadColumn returns the non-null values of one column of a tabular file,
// in file order.
func (a *DuckDB) ReadColumn(ctx context.Context, path, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT CAST(%s AS VARCHAR) FROM %s", QuoteIdent(column), tableReader(path))

	rows, err := a.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read column %s from %s: %w", column, path, err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		if v.Valid {
			values = append(values, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", path, err)
	}

	a.Logger.Debug("read catalog column", "path", path, "column", column, "values", len(values))
	return values, nil
}

// CSVHeader returns the column names of a CSV file without reading its rows.
func (a *DuckDB) CSVHeader(ctx context.Context, path string) ([]string, error) {
	query := fmt.Sprintf("SELECT * FROM read_csv(%s, all_varchar=true, header=true) LIMIT 0", QuoteLiteral(path))

	rows, err := a.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return cols, rows.Err()
}

// Describe binds query and returns the names of its output columns.
func (a *DuckDB) Describe(ctx context.Context, query string) ([]string, error) {
	rows, err := a.Query(ctx, "DESCRIBE "+strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var names []string
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan description: %w", err)
		}
		// column_name is the first column of DESCRIBE output
		names = append(names, fmt.Sprint(values[0]))
	}
	return names, rows.Err()
}
