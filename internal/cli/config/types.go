// Package config provides configuration management for the pumsgen CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	// ModelsDir is the root of the generated model tree.
	ModelsDir string `koanf:"models_dir"`
	// OutputSubdir is created under ModelsDir/<year>.
	OutputSubdir string `koanf:"output_subdir"`
	// OutputVar is the templating variable that holds the parquet output location.
	OutputVar string `koanf:"output_var"`
	// Generator is named in the provenance comment of every model.
	Generator string `koanf:"generator"`
	// CatalogColumn is the catalog column listing source CSV paths.
	CatalogColumn string `koanf:"catalog_column"`
	// User is the account name stripped from source paths. Defaults to $USER.
	User string `koanf:"user"`
	// Database is the DuckDB file used for reading; empty means in-memory.
	Database  string            `koanf:"database"`
	Settings  map[string]string `koanf:"settings"`
	FailFast  bool              `koanf:"fail_fast"`
	DryRun    bool              `koanf:"dry_run"`
	Validate  bool              `koanf:"validate"`
	Verbose   bool              `koanf:"verbose"`
	LogFormat string            `koanf:"log_format"`
}

// Default configuration values.
const (
	DefaultModelsDir     = "models/public_use_microdata_sample/generated"
	DefaultOutputSubdir  = "enum_types_mapped_renamed"
	DefaultOutputVar     = "output_path"
	DefaultGenerator     = "pumsgen"
	DefaultCatalogColumn = "csv_path"
	DefaultLogFormat     = "text"
)
