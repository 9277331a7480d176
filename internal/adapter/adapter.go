// Package adapter provides the database access used by pumsgen to read
// catalogs and CSV headers and to bind generated SQL.
package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Path is the database file. Empty or ":memory:" selects an in-memory
	// database.
	Path string

	// Settings are applied with SET after connecting (e.g. threads, memory_limit).
	Settings map[string]string
}

// BaseSQLAdapter provides common database/sql functionality.
// Embed it in concrete adapters to get Close, Exec and Query.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.IsConnected() {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if !b.IsConnected() {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
// The caller must close the rows and check rows.Err().
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

// QuoteIdent renders s as a double-quoted SQL identifier.
func QuoteIdent(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, s[i])
	}
	return string(append(out, '"'))
}
