package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the immediate files of dir whose names end in ext and
// returns their paths sorted by name. Subdirectories are not descended and
// entries that are not regular files (after resolving symlinks) are ignored.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegular(path, entry) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

func isRegular(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
