// Package cli provides the command-line interface for pumsgen.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/pumsgen/internal/cli/commands"
	"github.com/leapstack-labs/pumsgen/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var cfgFile string

// UsageError reports a wrong number of positional arguments.
type UsageError struct {
	Got int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected 2 arguments (catalog and dictionary paths), got %d", e.Got)
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pumsgen <catalog> <dictionary>",
		Short: "Generate labeled SQL models for PUMS extracts",
		Long: `pumsgen generates one DuckDB SQL model per PUMS CSV extract.

Each model selects every data dictionary column present in the extract,
mapping coded columns to human-readable ENUM labels, and is named after
the extract's record type and geography.

The catalog is a parquet (or CSV) file with a csv_path column listing the
extracts. The dictionary is the JSON data dictionary; its file name ends
with the survey year, e.g. PUMS_Data_Dictionary_2022.json.`,
		Example: `  # Generate models for every extract in the catalog
  pumsgen data/catalog.parquet data/PUMS_Data_Dictionary_2022.json

  # Plan only, with debug logging
  pumsgen --dry-run -v data/catalog.parquet data/PUMS_Data_Dictionary_2022.json`,
		Version: Version,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return &UsageError{Got: len(args)}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			if used := config.GetConfigFileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}

			cmd.SetContext(config.WithContext(cmd.Context(), cfg, logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunGenerate(cmd, args[0], args[1])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built with Go and DuckDB
`)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./pumsgen.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.String("log-format", "", "Log format (text|json)")

	fs := rootCmd.Flags()
	fs.String("models-dir", "", "Root directory of generated models")
	fs.String("output-subdir", "", "Subdirectory created under <models-dir>/<year>")
	fs.String("output-var", "", "Templating variable holding the parquet output location")
	fs.String("generator", "", "Generator name written in the provenance comment")
	fs.String("catalog-column", "", "Catalog column listing source CSV paths")
	fs.String("user", "", "Account name stripped from source paths (default: $USER)")
	fs.String("database", "", "DuckDB database used for reading (empty for in-memory)")
	fs.Bool("fail-fast", false, "Abort on the first failing catalog entry")
	fs.Bool("dry-run", false, "Plan models without writing files")
	fs.Bool("validate", false, "Bind every generated SELECT with DuckDB before writing it")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
		}
		return err
	}
	return nil
}
