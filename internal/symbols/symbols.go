// Package symbols looks up symbol IDs in the per-file symbol tables that the
// decompiler's symbol export writes next to each SWF: one ';'-delimited
// symbols.csv per input, rows of (id, name, ...).
package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sentinel errors. Resolve wraps them with the stem; test with errors.Is.
var (
	ErrTableMissing   = errors.New("symbol table missing")
	ErrSymbolNotFound = errors.New("symbol not found")
)

// TableFile is the file name of a symbol table inside its per-SWF directory.
const TableFile = "symbols.csv"

// TablePath returns <symbolsDir>/<stem>.swf/symbols.csv.
func TablePath(symbolsDir, stem string) string {
	return filepath.Join(symbolsDir, stem+".swf", TableFile)
}

// Resolve opens the symbol table for stem and returns the ID of the first
// row named name. A missing table yields ErrTableMissing; a table without a
// usable row yields ErrSymbolNotFound.
func Resolve(symbolsDir, stem, name string) (int, error) {
	path := TablePath(symbolsDir, stem)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrTableMissing, path)
		}
		return 0, fmt.Errorf("open symbol table: %w", err)
	}
	defer f.Close()

	id, err := Find(f, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", stem, err)
	}
	return id, nil
}

// Find scans rows in order and returns the integer first column of the
// first row whose second column, trimmed and case-folded, equals name.
// Rows whose ID does not parse are skipped and the scan continues.
func Find(r io.Reader, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return 0, fmt.Errorf("read symbol table: %w", err)
		}
		if len(row) < 2 || strings.ToLower(strings.TrimSpace(row[1])) != want {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff")))
		if err != nil {
			continue
		}
		return id, nil
	}
	return 0, ErrSymbolNotFound
}
