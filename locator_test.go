package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLocatorFlags pins the filter globals to their defaults for the test
// and restores whatever was there before.
func resetLocatorFlags(t *testing.T) {
	t.Helper()
	oldExclude, oldSize, oldDepth := excludePatterns, maxSizeBytes, maxDepth
	oldHidden, oldNoIgnore := showHidden, noIgnore
	excludePatterns, maxSizeBytes, maxDepth = "", 0, 0
	showHidden, noIgnore = false, false
	t.Cleanup(func() {
		excludePatterns, maxSizeBytes, maxDepth = oldExclude, oldSize, oldDepth
		showHidden, noIgnore = oldHidden, oldNoIgnore
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLocateJSONFilesRecursiveSorted(t *testing.T) {
	resetLocatorFlags(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.json"), `[]`)
	writeFile(t, filepath.Join(root, "a.json"), `[]`)
	writeFile(t, filepath.Join(root, "sub", "c.json"), `[]`)
	writeFile(t, filepath.Join(root, "notes.txt"), "not json")

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.json"),
		filepath.Join(root, "b.json"),
		filepath.Join(root, "sub", "c.json"),
	}, files)
}

func TestLocateJSONFilesEmptyRoot(t *testing.T) {
	resetLocatorFlags(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "readme.md"), "nothing here")

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocateJSONFilesMissingRoot(t *testing.T) {
	resetLocatorFlags(t)
	_, err := locateJSONFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLocateJSONFilesHidden(t *testing.T) {
	resetLocatorFlags(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.json"), `[]`)
	writeFile(t, filepath.Join(root, ".hidden.json"), `[]`)
	writeFile(t, filepath.Join(root, ".secret", "nested.json"), `[]`)

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "visible.json")}, files)

	showHidden = true
	files, err = locateJSONFiles(root)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestLocateJSONFilesExcludePatterns(t *testing.T) {
	resetLocatorFlags(t)
	excludePatterns = "tmp_*"
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.json"), `[]`)
	writeFile(t, filepath.Join(root, "tmp_scratch.json"), `[]`)
	writeFile(t, filepath.Join(root, "tmp_dir", "nested.json"), `[]`)

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep.json")}, files)
}

func TestLocateJSONFilesMaxDepth(t *testing.T) {
	resetLocatorFlags(t)
	maxDepth = 1
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.json"), `[]`)
	writeFile(t, filepath.Join(root, "sub", "mid.json"), `[]`)
	writeFile(t, filepath.Join(root, "sub", "nested", "deep.json"), `[]`)

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "sub", "mid.json"),
		filepath.Join(root, "top.json"),
	}, files)
}

func TestLocateJSONFilesMaxSize(t *testing.T) {
	resetLocatorFlags(t)
	maxSizeBytes = 10
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.json"), `[]`)
	writeFile(t, filepath.Join(root, "big.json"), `[1,2,3,4,5,6,7,8,9]`)

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "small.json")}, files)
}

func TestLocateJSONFilesGitignore(t *testing.T) {
	resetLocatorFlags(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "ignored/\nskipme.json\n")
	writeFile(t, filepath.Join(root, "keep.json"), `[]`)
	writeFile(t, filepath.Join(root, "skipme.json"), `[]`)
	writeFile(t, filepath.Join(root, "ignored", "gone.json"), `[]`)

	files, err := locateJSONFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep.json")}, files)

	noIgnore = true
	files, err = locateJSONFiles(root)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestLocateJSONFilesSingleFileRoot(t *testing.T) {
	resetLocatorFlags(t)
	root := t.TempDir()
	path := filepath.Join(root, "single.json")
	writeFile(t, path, `[]`)

	files, err := locateJSONFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	other := filepath.Join(root, "single.txt")
	writeFile(t, other, "nope")
	files, err = locateJSONFiles(other)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCountPathSeparators(t *testing.T) {
	assert.Equal(t, 0, countPathSeparators("."))
	assert.Equal(t, 0, countPathSeparators("a.json"))
	assert.Equal(t, 1, countPathSeparators(filepath.Join("sub", "a.json")))
	assert.Equal(t, 2, countPathSeparators(filepath.Join("a", "b", "c.json")))
}
