package app

import (
	"io/fs"
	"path/filepath"
	"sort"

	"codegrader/internal/core/errors"
)

// ScanDirectories returns the supported source files under paths, sorted
// and without duplicates. Excluded directories are not descended into.
func (a *App) ScanDirectories(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && matchAny(a.excludeDirs, base) {
					return filepath.SkipDir
				}
				return nil
			}
			if !a.shouldScanFile(path) {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			err = errors.Wrap(err, errors.CodeNotFound, "scan directory")
			return nil, errors.AddContext(err, errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (a *App) shouldScanFile(path string) bool {
	if !a.codeParser.IsSupportedPath(path) {
		return false
	}
	if !a.Config.Analysis.IncludesTests() && a.codeParser.IsTestFile(path) {
		return false
	}
	return !matchAny(a.excludeFiles, filepath.Base(path))
}
