package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/pumsgen/internal/cli/config"
	"github.com/leapstack-labs/pumsgen/internal/pums"
	"github.com/leapstack-labs/pumsgen/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDictionary = `{
  "RT": {"Description": "Record Type", "Values": {"H": "Housing Record or Group Quarters Unit"}},
  "SERIALNO": {"Description": "Housing unit/GQ person serial number"},
  "ST": {"Description": "State Code", "Values": {"06": "California/CA"}}
}`

type fixture struct {
	root       string
	catalog    string
	dictionary string
	modelsDir  string
}

func newFixture(t *testing.T, extracts ...string) fixture {
	t.Helper()
	root := t.TempDir()

	var catalog strings.Builder
	catalog.WriteString("csv_path\n")
	for _, rel := range extracts {
		path := filepath.Join(root, "alice", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("RT,SERIALNO,ST,WGTP\nH,2022HU0000001,06,12\n"), 0o600))
		catalog.WriteString(path + "\n")
	}

	f := fixture{
		root:       root,
		catalog:    filepath.Join(root, "catalog.csv"),
		dictionary: filepath.Join(root, "PUMS_Data_Dictionary_2022.json"),
		modelsDir:  filepath.Join(root, "models"),
	}
	require.NoError(t, os.WriteFile(f.catalog, []byte(catalog.String()), 0o600))
	require.NoError(t, os.WriteFile(f.dictionary, []byte(testDictionary), 0o600))
	return f
}

func newTestCommand(t *testing.T, cfg *config.Config) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetContext(config.WithContext(context.Background(), cfg, testutil.NewTestLogger(t)))
	return cmd, out
}

func testConfig(modelsDir string) *config.Config {
	cfg := config.GetConfig(context.Background())
	cfg.ModelsDir = modelsDir
	cfg.User = "alice"
	return cfg
}

func TestRunGenerate(t *testing.T) {
	f := newFixture(t, "pums_hCA/psam_h06.csv")
	cmd, out := newTestCommand(t, testConfig(f.modelsDir))

	require.NoError(t, RunGenerate(cmd, f.catalog, f.dictionary))

	path := filepath.Join(f.modelsDir, "2022", config.DefaultOutputSubdir,
		"housing_units_california_enum_mapped_renamed_2022.sql")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	sql := string(data)
	assert.Contains(t, sql, "read_csv('~/pums_hCA/psam_h06.csv'")
	assert.Contains(t, sql, "WHEN 'H' THEN 'Housing Record or Group Quarters Unit'")
	assert.Equal(t, 3, strings.Count(sql, " AS \""))
	assert.NotContains(t, sql, "WGTP", "header columns absent from the dictionary are skipped")

	assert.Contains(t, out.String(), "housing_units_california")
	assert.Contains(t, out.String(), "Generated 1 models, skipped 0")
}

func TestRunGenerate_ReportsSkipped(t *testing.T) {
	f := newFixture(t, "pums_hCA/psam_h06.csv", "pums_hXYZ/psam_h99.csv")
	cmd, out := newTestCommand(t, testConfig(f.modelsDir))

	err := RunGenerate(cmd, f.catalog, f.dictionary)
	require.ErrorIs(t, err, pums.ErrIncomplete)
	assert.Contains(t, out.String(), "psam_h99.csv")
	assert.Contains(t, out.String(), "Generated 1 models, skipped 1")
}

func TestRunGenerate_DryRunWithValidation(t *testing.T) {
	f := newFixture(t, "pums_hCA/psam_h06.csv")
	cfg := testConfig(f.modelsDir)
	cfg.DryRun = true
	cfg.Validate = true
	cfg.User = ""
	cmd, out := newTestCommand(t, cfg)

	require.NoError(t, RunGenerate(cmd, f.catalog, f.dictionary))
	assert.Contains(t, out.String(), "Planned 1 models")
	assert.NoDirExists(t, f.modelsDir)
}

func TestRunGenerate_Errors(t *testing.T) {
	f := newFixture(t, "pums_hCA/psam_h06.csv")

	t.Run("missing dictionary", func(t *testing.T) {
		cmd, _ := newTestCommand(t, testConfig(f.modelsDir))
		err := RunGenerate(cmd, f.catalog, filepath.Join(f.root, "nope_2022.json"))
		assert.Error(t, err)
	})

	t.Run("missing catalog column", func(t *testing.T) {
		cfg := testConfig(f.modelsDir)
		cfg.CatalogColumn = "path"
		cmd, _ := newTestCommand(t, cfg)
		err := RunGenerate(cmd, f.catalog, f.dictionary)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog")
	})
}
