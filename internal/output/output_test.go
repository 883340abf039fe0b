package output

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"surveykit/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCleanKeepsDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "old.xlsx"), "x")
	touch(t, filepath.Join(dir, "charts", "keep.jpg"), "x")

	assert.Equal(t, 0, Clean(dir, internal.NopLogger()))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "charts", entries[0].Name())

	assert.Equal(t, 0, Clean(filepath.Join(dir, "missing"), internal.NopLogger()))
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteManifest(dir, &Manifest{
		RunID:   "run-1",
		Sheets:  []string{"Geral"},
		Charts:  []string{"charts/Geral_columnB.jpg"},
		Skipped: []SkippedColumn{{Partition: "Geral", Column: "D", Question: "Why?", Reason: "no usable vocabulary"}},
	})
	require.NoError(t, err)

	var decoded Manifest
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "D", decoded.Skipped[0].Column)
}

func TestZipReplacesArchive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "analysis.xlsx"), "workbook")
	touch(t, filepath.Join(dir, "charts", "Geral_columnB.jpg"), "img")
	touch(t, filepath.Join(dir, "survey.zip"), "stale")

	path, err := Zip(dir, "survey.zip")
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"analysis.xlsx", "charts/Geral_columnB.jpg"}, names)
}
