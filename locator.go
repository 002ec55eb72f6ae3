package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/sirupsen/logrus"
)

const jsonExt = ".json"

// locateJSONFiles handles a single local scan root, which may be a directory
// or a single file. Paths come back sorted ascending so the counting pass and
// the report tie-break order are deterministic.
func locateJSONFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}

	if !info.IsDir() {
		if keepJSONFile(root, info) {
			return []string{root}, nil
		}
		logrus.Debugf("Skipping single file due to filters: %s", root)
		return nil, nil
	}

	return walkRoot(root)
}

// walkRoot recursively walks a directory collecting .json files, respecting
// the exclude/hidden/depth/size filters and the root's .gitignore.
func walkRoot(root string) ([]string, error) {
	var files []string
	var ignoreMatcher gitignore.IgnoreMatcher

	parsedExcludes := parsePatterns(excludePatterns)

	if !noIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				logrus.Warnf("Could not parse .gitignore file %s: %v", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logrus.Warnf("Error accessing path %s: %v", path, err)
			return nil // report and continue
		}
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		if !showHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		// go-gitignore relativizes against the .gitignore's own directory,
		// so it gets the full walk path.
		if ignoreMatcher != nil && ignoreMatcher.Match(path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if maxDepth > 0 && countPathSeparators(relPath) >= maxDepth && isDir {
			return fs.SkipDir
		}

		excluded, err := matchesAnyPattern(baseName, parsedExcludes)
		if err != nil {
			logrus.Warnf("Error in exclude pattern matching for %s: %v", path, err)
		}
		if excluded {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if isDir {
			return nil
		}
		if !strings.HasSuffix(baseName, jsonExt) {
			return nil
		}

		if maxSizeBytes > 0 {
			info, err := d.Info()
			if err != nil {
				logrus.Warnf("Could not get info for %s: %v", path, err)
				return nil
			}
			if info.Size() > maxSizeBytes {
				logrus.Debugf("Skipping %s: larger than %d bytes", path, maxSizeBytes)
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// keepJSONFile applies the file-level filters to a root that is itself a
// file. A .gitignore is not consulted for explicit file arguments.
func keepJSONFile(path string, info fs.FileInfo) bool {
	baseName := info.Name()

	if !strings.HasSuffix(baseName, jsonExt) {
		return false
	}
	if !showHidden && isHidden(baseName) {
		return false
	}

	excluded, err := matchesAnyPattern(baseName, parsePatterns(excludePatterns))
	if err != nil {
		logrus.Warnf("Error in exclude pattern matching for %s: %v", path, err)
	}
	if excluded {
		return false
	}

	if maxSizeBytes > 0 && info.Size() > maxSizeBytes {
		return false
	}
	return true
}

// parsePatterns splits a comma-separated string of glob patterns.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	return strings.Split(patterns, ",")
}

// matchesAnyPattern checks the name against each glob pattern.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden reports whether the base name starts with a dot.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	baseName := filepath.Base(name)
	return len(baseName) > 0 && baseName[0] == '.'
}

// countPathSeparators counts separators in a slash-normalized relative path.
func countPathSeparators(path string) int {
	path = filepath.ToSlash(path)
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/")
}
