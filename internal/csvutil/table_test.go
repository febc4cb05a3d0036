package csvutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeTempCSV(t, "filename,directory,size_bytes\na.safetensors,/models,1000\nb.ckpt,/models/sd,2000\n")

	table, err := ReadTable(path, "filename", "size_bytes")
	require.NoError(t, err)

	assert.Equal(t, []string{"filename", "directory", "size_bytes"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Empty(t, table.Malformed)

	v, ok := table.Field(table.Rows[0], "filename")
	assert.True(t, ok)
	assert.Equal(t, "a.safetensors", v)

	v, ok = table.Field(table.Rows[1], "size_bytes")
	assert.True(t, ok)
	assert.Equal(t, "2000", v)
}

func TestReadTable_LineNumbers(t *testing.T) {
	path := writeTempCSV(t, "filename\nfirst\nsecond\nthird\n")

	table, err := ReadTable(path, "filename")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	// Header occupies line 1, data starts at line 2.
	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, 4, table.Rows[2].Line)
}

func TestReadTable_MissingColumns(t *testing.T) {
	path := writeTempCSV(t, "filename,directory\na,b\n")

	_, err := ReadTable(path, "filename", "size_bytes", "file_date")
	require.Error(t, err)

	var he *HeaderError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, path, he.Path)
	assert.Equal(t, []string{"size_bytes", "file_date"}, he.Missing)
	assert.Contains(t, he.Error(), "size_bytes")
}

func TestReadTable_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")

	_, err := ReadTable(path, "filename")
	require.Error(t, err)

	var he *HeaderError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, []string{"filename"}, he.Missing)
}

func TestReadTable_FileNotFound(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"), "filename")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestReadTable_ShortRow(t *testing.T) {
	path := writeTempCSV(t, "filename,directory,size_bytes\nonly_one_field\n")

	table, err := ReadTable(path, "filename", "directory", "size_bytes")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	_, ok := table.Field(table.Rows[0], "size_bytes")
	assert.False(t, ok, "short row should not expose the missing trailing column")

	v, ok := table.Field(table.Rows[0], "filename")
	assert.True(t, ok)
	assert.Equal(t, "only_one_field", v)
}

func TestReadTable_BadQuotingSkipped(t *testing.T) {
	path := writeTempCSV(t, "filename,size_bytes\ngood.ckpt,10\nbro\"ken,20\nalso_good.pt,30\n")

	table, err := ReadTable(path, "filename", "size_bytes")
	require.NoError(t, err)

	require.Len(t, table.Malformed, 1)
	assert.Equal(t, 3, table.Malformed[0].Line)

	require.Len(t, table.Rows, 2)
	v, _ := table.Field(table.Rows[1], "filename")
	assert.Equal(t, "also_good.pt", v)
}

func TestReadTable_HeaderWhitespaceTrimmed(t *testing.T) {
	path := writeTempCSV(t, "filename, size_bytes\na,1\n")

	table, err := ReadTable(path, "filename", "size_bytes")
	require.NoError(t, err)
	assert.True(t, table.HasColumn("size_bytes"))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := WriteFile(path, []string{"a", "b"}, [][]string{
		{"1", "with,comma"},
		{"2", "plain"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"with,comma\"\n2,plain\n", string(data))
}

func TestWriteFile_BadDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"a"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")
}
