// Package discover finds the HTML pages of a static site build.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ExcludedDirs are directory names never descended into: version control,
// CI and hosting config, IDE metadata, dependencies, the tool's own scripts
// and bytecode caches.
var ExcludedDirs = map[string]bool{
	".git":         true,
	".github":      true,
	".idea":        true,
	".netlify":     true,
	"node_modules": true,
	"scripts":      true,
	"__pycache__":  true,
}

// Suffixes are matched case-sensitively.
var Suffixes = []string{".html", ".htm"}

// HTMLFiles walks root and returns the slash-separated paths, relative to
// root, of every page outside the excluded directories. The result is
// sorted and free of duplicates; an empty tree yields an empty slice.
//
// Only an unreadable root is an error. Entries below it that cannot be read
// are reported through warn (which may be nil) and skipped.
func HTMLFiles(fs afero.Fs, root string, warn func(string, ...interface{})) ([]string, error) {
	if _, err := fs.Stat(root); err != nil {
		return nil, fmt.Errorf("project root %s: %w", root, err)
	}

	seen := make(map[string]bool)
	var files []string

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if warn != nil {
				warn("skipping %s: %v", path, err)
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if info.IsDir() {
			if ExcludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasPageSuffix(info.Name()) {
			return nil
		}

		rel, err := relPath(root, path)
		if err != nil {
			return err
		}
		if seen[rel] {
			return nil
		}
		seen[rel] = true
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}

// relPath returns path relative to root with forward slashes.
func relPath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

func hasPageSuffix(name string) bool {
	for _, s := range Suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
