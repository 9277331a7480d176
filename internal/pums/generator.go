// Package pums generates DuckDB SQL models that turn coded PUMS extracts into
// labeled tables.
//
// One model is produced per source CSV. Its table name comes from the
// extract's folder and file name (ResolveName), its SELECT list from the data
// dictionary restricted to the extract's header (PlanColumns), and the
// document itself from Statement.
package pums

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/pumsgen/internal/dictionary"
)

// ModelSuffix is inserted between the materialized name and the year in
// generated file names.
const ModelSuffix = "_enum_mapped_renamed_"

// ErrIncomplete is returned by Run when at least one entry was skipped.
var ErrIncomplete = errors.New("some catalog entries were skipped")

// HeaderReader returns the column names of a CSV file.
type HeaderReader interface {
	CSVHeader(ctx context.Context, path string) ([]string, error)
}

// Validator binds a query without running it and returns its output columns.
type Validator interface {
	Describe(ctx context.Context, query string) ([]string, error)
}

// Options configures a Generator.
type Options struct {
	// ModelsDir is the root of the generated tree.
	ModelsDir string
	// OutputSubdir is the directory created under ModelsDir/Year.
	OutputSubdir string
	Year         string
	OutputVar    string
	Generator    string
	// User is the account name stripped from source paths.
	User string
	// DryRun plans every model but writes nothing.
	DryRun bool
	// FailFast aborts the run on the first failing entry.
	FailFast bool
	// Validator, when set, binds every generated SELECT before it is written.
	Validator Validator
	Logger    *slog.Logger
}

// Model describes one generated SQL file.
type Model struct {
	Name        string
	SourcePath  string
	OutputPath  string
	Labeled     int
	Passthrough int
	SQL         string
}

// Skip records a catalog entry that produced no model.
type Skip struct {
	SourcePath string
	Err        error
}

// Summary is the outcome of one Run.
type Summary struct {
	RunID   string
	Models  []*Model
	Skipped []Skip
}

// Generator turns catalog entries into SQL model files.
type Generator struct {
	opts    Options
	dict    *dictionary.Dictionary
	lookups *Lookups
	headers HeaderReader
	logger  *slog.Logger
}

// NewGenerator creates a Generator. dict and lookups are shared read-only.
func NewGenerator(opts Options, dict *dictionary.Dictionary, lookups *Lookups, headers HeaderReader) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		opts:    opts,
		dict:    dict,
		lookups: lookups,
		headers: headers,
		logger:  logger,
	}
}

// OutputDir returns the directory generated files are written to.
func (g *Generator) OutputDir() string {
	return filepath.Join(g.opts.ModelsDir, g.opts.Year, g.opts.OutputSubdir)
}

// OutputPath returns the file a model with the given materialized name is
// written to.
func (g *Generator) OutputPath(name string) string {
	return filepath.Join(g.OutputDir(), name+ModelSuffix+g.opts.Year+".sql")
}

// Run generates one model per path, sequentially and in order.
//
// An entry that fails (invalid geography code, unreadable header, failed
// validation, write error) is logged and recorded in Summary.Skipped, and the
// run continues; Run then returns ErrIncomplete alongside the summary. With
// FailFast the first failure is returned immediately.
func (g *Generator) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{RunID: uuid.New().String()}
	logger := g.logger.With("run_id", summary.RunID)

	logger.Info("starting generation", "entries", len(paths), "year", g.opts.Year, "output_dir", g.OutputDir())

	if !g.opts.DryRun {
		if err := os.MkdirAll(g.OutputDir(), 0o750); err != nil {
			return summary, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		model, err := g.Generate(ctx, path)
		if err != nil {
			if g.opts.FailFast {
				return summary, fmt.Errorf("%s: %w", path, err)
			}
			logger.Warn("skipping catalog entry", "path", path, "error", err)
			summary.Skipped = append(summary.Skipped, Skip{SourcePath: path, Err: err})
			continue
		}

		if prev, dup := seen[model.Name]; dup {
			logger.Warn("materialized name already generated, overwriting",
				"name", model.Name, "path", path, "previous_path", prev)
		}
		seen[model.Name] = path

		logger.Debug("model generated",
			"name", model.Name,
			"path", path,
			"output", model.OutputPath,
			"labeled", model.Labeled,
			"passthrough", model.Passthrough)
		summary.Models = append(summary.Models, model)
	}

	logger.Info("generation completed", "models", len(summary.Models), "skipped", len(summary.Skipped))

	if len(summary.Skipped) > 0 {
		return summary, ErrIncomplete
	}
	return summary, nil
}

// Generate builds and, unless DryRun is set, writes the model for one source
// extract.
func (g *Generator) Generate(ctx context.Context, path string) (*Model, error) {
	folder := filepath.Base(filepath.Dir(path))
	file := filepath.Base(path)

	name, err := ResolveName(folder, file, g.lookups)
	if err != nil {
		return nil, err
	}

	header, err := g.headers.CSVHeader(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	defs := PlanColumns(g.dict.Columns(), header)

	source := file
	if i := strings.Index(source, "."); i >= 0 {
		source = source[:i]
	}
	stmt := Statement{
		Name:       name,
		Year:       g.opts.Year,
		Source:     source,
		SourcePath: PortablePath(path, g.opts.User),
		OutputVar:  g.opts.OutputVar,
		Generator:  g.opts.Generator,
		Columns:    defs,
	}

	model := &Model{
		Name:       name,
		SourcePath: path,
		OutputPath: g.OutputPath(name),
		SQL:        stmt.SQL(),
	}
	for _, d := range defs {
		if d.Kind == Labeled {
			model.Labeled++
		} else {
			model.Passthrough++
		}
	}

	if g.opts.Validator != nil {
		if _, err := g.opts.Validator.Describe(ctx, stmt.Select()); err != nil {
			return nil, fmt.Errorf("generated SQL failed validation: %w", err)
		}
	}

	if g.opts.DryRun {
		return model, nil
	}
	if err := os.WriteFile(model.OutputPath, []byte(model.SQL), 0o644); err != nil { //nolint:gosec // generated models are meant to be shared
		return nil, fmt.Errorf("failed to write model: %w", err)
	}
	return model, nil
}
