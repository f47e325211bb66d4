// Package file implements the storage interfaces on a local directory tree.
//
// Layout under the root directory:
//
//	raw/<YYYY-MM-DD>.json           raw article batches
//	processed/<run_key>.json        linked and scored batches
//	corpus/master.json              consolidated corpus snapshot
//	prices/price_features.csv       price-derived features
//	outputs/<run_key>/daily_sentiment.csv
//	outputs/<run_key>/merged_features.csv
//	runs/runs.json                  pipeline run history
//
// Every file is written to a temp file in the same directory and renamed into
// place, so readers never observe a partial snapshot.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

// writeAtomic writes path via a temp file and rename.
func writeAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON.
func writeJSON(path string, v any) error {
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// readJSON decodes path into v. Returns storage.ErrNotFound if the file does not exist.
func readJSON(path string, v any) error {
	f, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// openFile opens path, mapping a missing file to storage.ErrNotFound.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// checkKey rejects keys that could escape their directory.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: bad key %q", storage.ErrInvalidInput, key)
	}
	return nil
}
