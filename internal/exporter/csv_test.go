package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasecli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		UploadsDir:    filepath.Join(base, "data", "uploads"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
	}
}

func testTable() *Table {
	return &Table{
		Headers: []string{"客户名称", "2025年租金之和", "2025-01"},
		Records: [][]string{
			{"甲公司", "5.000000", "0.500000"},
			{"乙公司", "0.000000", "0.000000"},
		},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	data = bytes.TrimPrefix(data, utf8BOM)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTableCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteTable("租赁收入统计.csv", testTable())
	require.NoError(t, err)

	// WriteTable resolves bare filenames into the reports directory.
	data, err := os.ReadFile(paths.GetReportPath("租赁收入统计.csv"))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, utf8BOM), "expected UTF-8 BOM prefix")

	rows := parseCSV(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"客户名称", "2025年租金之和", "2025-01"}, rows[0])
	assert.Equal(t, []string{"甲公司", "5.000000", "0.500000"}, rows[1])
	assert.Equal(t, []string{"乙公司", "0.000000", "0.000000"}, rows[2])
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "deep", "nested", "out.csv")
	writer := NewCSVWriter(nil)

	err := writer.WriteCSV(target, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	// Missing parent directories are created on the way.
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(data, utf8BOM), "BOM must be opt-in")
	assert.Equal(t, [][]string{{"a"}, {"1"}}, parseCSV(t, data))
}

func TestWriteCSVUploadsPrefix(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteCSV("uploads/raw.csv", WriteOptions{Headers: []string{"x"}})
	require.NoError(t, err)

	_, err = os.Stat(paths.GetUploadPath("raw.csv"))
	assert.NoError(t, err)
}

func TestWriteCSVTo(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSVTo(&buf, testTable(), false)
	require.NoError(t, err)

	assert.False(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	rows := parseCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "甲公司", rows[1][0])
}

func TestWriteCSVToWithBOM(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSVTo(&buf, testTable(), true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
}
