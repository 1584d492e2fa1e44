package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// swfExt is the input extension. The match is exact, so "PET.SWF" is not
// an input.
const swfExt = ".swf"

// Discover lists the .swf files directly inside sourceDir (no recursion).
// Paths are returned sorted so logs and reports list files in a stable
// order; processing itself does not depend on it. A missing directory is an
// error.
func Discover(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == swfExt {
			files = append(files, filepath.Join(sourceDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// DuplicateStems groups input paths whose stems differ only in case
// ("Pet.swf" and "pet.swf"). Such files share a temp directory and an output
// name on case-insensitive filesystems; the result for them is undefined, so
// the runner only warns. Groups are keyed by the lower-cased stem.
func DuplicateStems(files []string) map[string][]string {
	byStem := make(map[string][]string)
	for _, f := range files {
		base := filepath.Base(f)
		key := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
		byStem[key] = append(byStem[key], f)
	}
	for k, group := range byStem {
		if len(group) < 2 {
			delete(byStem, k)
		}
	}
	return byStem
}
