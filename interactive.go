package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// runInteractiveFinder lists directories and JSON files under the working
// directory and lets the user fuzzy-select the scan roots.
func runInteractiveFinder(rules []probeRule) ([]string, error) {
	candidates := []string{}
	root := "."

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // continue walking
		}
		if path == root {
			return nil
		}

		if !showHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Only directories and JSON files are meaningful scan roots.
		if d.IsDir() || strings.HasSuffix(d.Name(), jsonExt) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no directories or JSON files found to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select directories or JSON files to scan. Press Tab to multi-select, Enter to confirm."
			}
			path := candidates[i]
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			if info.IsDir() {
				return fmt.Sprintf("Path: %s\nType: Directory", path)
			}
			stat, _ := countFile(path, rules)
			if stat.Err != "" {
				return fmt.Sprintf("Path: %s\nSize: %d bytes\n%s", path, info.Size(), stat.Err)
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes\nEntries: %s 条", path, info.Size(), groupDigits(int64(stat.Entries)))
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			fmt.Println("Interactive selection aborted.")
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]string, len(idx))
	for i, index := range idx {
		selected[i] = candidates[index]
	}
	return selected, nil
}
