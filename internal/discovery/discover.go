package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover finds SQL scripts under path. A directory is walked recursively
// for *.sql files; a regular file is returned as is, whatever its extension.
func Discover(path string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return []DiscoveredFile{newDiscoveredFile(absRoot, filepath.Base(absRoot), info)}, nil
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, newDiscoveredFile(path, relPath, info))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

func newDiscoveredFile(path, relPath string, info os.FileInfo) DiscoveredFile {
	compat, ok := ClassifyPath(path)
	return DiscoveredFile{
		Path:          path,
		RelativePath:  relPath,
		Compatibility: compat,
		HasHint:       ok,
		ModTime:       info.ModTime(),
	}
}

// DiscoverAll merges the scripts found under each path, dropping duplicates
func DiscoverAll(paths []string) ([]DiscoveredFile, error) {
	var files []DiscoveredFile
	seen := make(map[string]bool)

	for _, p := range paths {
		found, err := Discover(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f.Path] {
				files = append(files, f)
				seen[f.Path] = true
			}
		}
	}

	return files, nil
}
