package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/pumsgen/internal/adapter"
	"github.com/leapstack-labs/pumsgen/internal/cli/config"
	"github.com/leapstack-labs/pumsgen/internal/dictionary"
	"github.com/leapstack-labs/pumsgen/internal/pums"
	"github.com/spf13/cobra"
)

// RunGenerate generates one SQL model per catalog entry.
func RunGenerate(cmd *cobra.Command, catalogPath, dictionaryPath string) error {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	year := dictionary.ParseYear(dictionaryPath)
	logger.Info("loading dictionary", "path", dictionaryPath, "year", year)

	dict, err := dictionary.Load(dictionaryPath)
	if err != nil {
		return err
	}

	lookups := pums.NewLookups(dict.StateNames(), nil)
	logger.Debug("dictionary loaded", "columns", dict.Len(), "states", lookups.StateCount())
	if lookups.StateCount() == 0 {
		logger.Warn("dictionary has no state names; state extracts will be named with the unknown state sentinel",
			"column", dictionary.StateColumn)
	}

	db := adapter.NewDuckDB(logger)
	if err := db.Connect(ctx, adapter.Config{Path: cfg.Database, Settings: cfg.Settings}); err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	paths, err := db.ReadColumn(ctx, catalogPath, cfg.CatalogColumn)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	if cfg.User == "" {
		logger.Warn("no user name configured; source paths are written unchanged")
	}

	opts := pums.Options{
		ModelsDir:    cfg.ModelsDir,
		OutputSubdir: cfg.OutputSubdir,
		Year:         year,
		OutputVar:    cfg.OutputVar,
		Generator:    cfg.Generator,
		User:         cfg.User,
		DryRun:       cfg.DryRun,
		FailFast:     cfg.FailFast,
		Logger:       logger,
	}
	if cfg.Validate {
		opts.Validator = db
	}

	gen := pums.NewGenerator(opts, dict, lookups, db)
	summary, runErr := gen.Run(ctx, paths)
	if summary != nil {
		renderSummary(cmd.OutOrStdout(), summary, cfg.DryRun)
	}
	return runErr
}

func renderSummary(w io.Writer, s *pums.Summary, dryRun bool) {
	if len(s.Models) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Model", "Labeled", "Passthrough", "File"})
		for _, m := range s.Models {
			t.AppendRow(table.Row{m.Name, m.Labeled, m.Passthrough, filepath.Base(m.OutputPath)})
		}
		t.Render()
	}

	if len(s.Skipped) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Skipped", "Reason"})
		for _, sk := range s.Skipped {
			t.AppendRow(table.Row{sk.SourcePath, sk.Err.Error()})
		}
		t.Render()
	}

	verb := "Generated"
	if dryRun {
		verb = "Planned"
	}
	_, _ = fmt.Fprintf(w, "%s %d models, skipped %d (run %s)\n", verb, len(s.Models), len(s.Skipped), s.RunID)
}
