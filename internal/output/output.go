package output

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"surveykit/internal"
	"surveykit/internal/errors"
)

// ManifestName is the run summary written next to the outputs
const ManifestName = "manifest.json"

// Manifest describes one run's outputs
type Manifest struct {
	RunID      string          `json:"run_id"`
	Input      string          `json:"input"`
	Workbook   string          `json:"workbook"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Sheets     []string        `json:"sheets"`
	Charts     []string        `json:"charts"`
	Reports    []string        `json:"reports,omitempty"`
	Skipped    []SkippedColumn `json:"skipped,omitempty"`
	Archive    string          `json:"archive,omitempty"`
}

// SkippedColumn records an open question that could not be clustered
type SkippedColumn struct {
	Partition string `json:"partition"`
	Column    string `json:"column"`
	Question  string `json:"question"`
	Reason    string `json:"reason"`
}

// Clean deletes regular files and symlinks directly inside dir. Subdirectories
// are kept. Failures are logged and counted, never returned.
func Clean(dir string, logger *internal.Logger) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("[Output] Could not list %s: %v", dir, err)
		}
		return 0
	}
	failed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("[Output] Failed to delete %s. Reason: %v", path, err)
			failed++
		}
	}
	return failed
}

// WriteManifest writes m as indented JSON into dir
func WriteManifest(dir string, m *Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode manifest")
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// Zip archives every file under dir, except the archive itself, into dir/name.
// An existing archive is replaced. Entry names are relative to dir.
func Zip(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to replace %s", target)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == target {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to list %s", dir)
	}
	sort.Strings(files)

	out, err := os.Create(target)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %s", target)
	}
	zw := zip.NewWriter(out)
	for _, path := range files {
		if err := addFile(zw, dir, path); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return "", errors.Wrapf(err, "failed to finish %s", target)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close %s", target)
	}
	return target, nil
}

func addFile(zw *zip.Writer, root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}
	in, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer in.Close()

	w, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return errors.Wrapf(err, "failed to add %s", rel)
	}
	if _, err := io.Copy(w, in); err != nil {
		return errors.Wrapf(err, "failed to compress %s", rel)
	}
	return nil
}
