// Package archive bundles the exported PNGs into a single zip, optionally
// AES-256 encrypted, for hand-off to asset pipelines that want one file.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	zip "github.com/yeka/zip"
)

// Bundle writes files (flattened to their base names) into a new zip at
// path and returns the archive size. A non-empty password encrypts every
// entry with AES-256. An existing archive at path is replaced.
func Bundle(path string, files []string, password string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	// A partial archive is never left behind.
	if err := writeArchive(f, sorted, password); err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// writeArchive streams the zip for files into w, central directory included.
func writeArchive(w io.Writer, files []string, password string) error {
	zw := zip.NewWriter(w)
	for _, src := range files {
		if err := addFile(zw, src, password); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, src, password string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	name := filepath.Base(src)
	var w io.Writer
	if password != "" {
		w, err = zw.Encrypt(name, password, zip.AES256Encryption)
	} else {
		w, err = zw.Create(name)
	}
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	return nil
}
