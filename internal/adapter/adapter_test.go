package adapter

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.Error(t, base.Exec(ctx, "SELECT 1"))

	_, err := base.Query(ctx, "SELECT 1")
	assert.Error(t, err)
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("SET threads = '1'")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("BROKEN").WillReturnError(errors.New("syntax error"))

	base := &BaseSQLAdapter{DB: db}
	require.NoError(t, base.Exec(context.Background(), "SET threads = '1'"))

	err = base.Exec(context.Background(), "BROKEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute SQL")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDB_ReadColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT CAST("csv_path" AS VARCHAR) FROM read_parquet('/data/catalog.parquet')`)).
		WillReturnRows(sqlmock.NewRows([]string{"csv_path"}).
			AddRow("/data/pums_pCA/psam_p06.csv").
			AddRow(nil).
			AddRow("/data/pums_hCA/psam_h06.csv"))

	adp := NewDuckDB(nil)
	adp.DB = db

	values, err := adp.ReadColumn(context.Background(), "/data/catalog.parquet", "csv_path")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/pums_pCA/psam_p06.csv", "/data/pums_hCA/psam_h06.csv"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDuckDB_ReadColumnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("read_csv").WillReturnError(errors.New(`Binder Error: column "csv_path" not found`))

	adp := NewDuckDB(nil)
	adp.DB = db

	_, err = adp.ReadColumn(context.Background(), "/data/catalog.csv", "csv_path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read column csv_path from /data/catalog.csv")
}

func TestDuckDB_CSVHeaderWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM read_csv('/data/o''neil.csv', all_varchar=true, header=true) LIMIT 0")).
		WillReturnRows(sqlmock.NewRows([]string{"RT", "SERIALNO", "ST"}))

	adp := NewDuckDB(nil)
	adp.DB = db

	header, err := adp.CSVHeader(context.Background(), "/data/o'neil.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"RT", "SERIALNO", "ST"}, header)
}

func TestTableReader(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "catalog.parquet", want: "read_parquet('catalog.parquet')"},
		{path: "catalog", want: "read_parquet('catalog')"},
		{path: "catalog.CSV", want: "read_csv('catalog.CSV', all_varchar=true, header=true)"},
		{path: "catalog.jsonl", want: "read_json_auto('catalog.jsonl')"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, tableReader(tt.path))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it''s'`, QuoteLiteral("it's"))
	assert.Equal(t, `''`, QuoteLiteral(""))
	assert.Equal(t, `"csv_path"`, QuoteIdent("csv_path"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}
