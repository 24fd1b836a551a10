package windows

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/tabular"
)

func exportTable() *tabular.CanonicalTable {
	return &tabular.CanonicalTable{Rows: []tabular.CanonicalRow{
		{ID: "a", Time: 0, Meas: 5, FOV: "f1"},
		{ID: "b", Time: 1.5, Meas: 4.25, FOV: tabular.NoFOV},
	}}
}

func TestExportToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportToCSV(exportTable(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "TIME", "MEAS", "FOV"}, records[0])
	assert.Equal(t, []string{"a", "0", "5", "f1"}, records[1])
	assert.Equal(t, []string{"b", "1.5", "4.25", "-"}, records[2])
}

func TestExportToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportToJSON(exportTable(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &records))

	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["ID"])
	assert.Equal(t, 5.0, records[0]["MEAS"])
	assert.Equal(t, "-", records[1]["FOV"])
}

func TestExportToParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ExportToParquet(exportTable(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCanonicalToArrow(t *testing.T) {
	tbl := canonicalToArrow(exportTable())
	defer tbl.Release()

	assert.Equal(t, int64(2), tbl.NumRows())
	assert.Equal(t, int64(4), tbl.NumCols())
	assert.True(t, tbl.Schema().Equal(canonicalArrowSchema))
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "canonical_table", cleanFilename("canonical table"))
	assert.Equal(t, "tracks-2", cleanFilename("tracks-2!?"))
}
