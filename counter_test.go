package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountEntriesTopLevelArray(t *testing.T) {
	n, errMsg := countEntries([]byte(`[1,2,3]`), defaultProbeRules())
	assert.Equal(t, 3, n)
	assert.Empty(t, errMsg)

	n, errMsg = countEntries([]byte(`[]`), defaultProbeRules())
	assert.Equal(t, 0, n)
	assert.Empty(t, errMsg)
}

func TestCountEntriesKeyPriority(t *testing.T) {
	// data wins over items and results even when all are present.
	content := []byte(`{"data":[1,2],"items":[1,2,3,4],"results":[1]}`)
	n, errMsg := countEntries(content, defaultProbeRules())
	assert.Equal(t, 2, n)
	assert.Empty(t, errMsg)

	// items wins over results when data is absent.
	n, _ = countEntries([]byte(`{"items":[1,2,3,4],"results":[1]}`), defaultProbeRules())
	assert.Equal(t, 4, n)

	n, _ = countEntries([]byte(`{"results":[1]}`), defaultProbeRules())
	assert.Equal(t, 1, n)
}

func TestCountEntriesProbeSkipsNonArrayValues(t *testing.T) {
	// A probed key holding a non-array falls through to the next probe.
	content := []byte(`{"data":"not an array","items":[1,2,3]}`)
	n, errMsg := countEntries(content, defaultProbeRules())
	assert.Equal(t, 3, n)
	assert.Empty(t, errMsg)
}

func TestCountEntriesObjectFallback(t *testing.T) {
	n, errMsg := countEntries([]byte(`{"foo":"bar"}`), defaultProbeRules())
	assert.Equal(t, 1, n)
	assert.Empty(t, errMsg)
}

func TestCountEntriesScalarFallback(t *testing.T) {
	for _, content := range []string{`"hello"`, `42`, `true`, `null`} {
		n, errMsg := countEntries([]byte(content), defaultProbeRules())
		assert.Equal(t, 1, n, "content %s", content)
		assert.Empty(t, errMsg)
	}
}

func TestCountEntriesMalformed(t *testing.T) {
	n, errMsg := countEntries([]byte(`{invalid`), defaultProbeRules())
	assert.Equal(t, 0, n)
	assert.Contains(t, errMsg, "JSON解析错误")
}

func TestCountEntriesCustomRuleOrder(t *testing.T) {
	rules := []probeRule{{Key: "results"}, {Key: "data"}}
	content := []byte(`{"data":[1,2],"results":[1,2,3]}`)
	n, _ := countEntries(content, rules)
	assert.Equal(t, 3, n)
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":[1,2,3]}`), 0644))

	stat, content := countFile(path, defaultProbeRules())
	assert.Equal(t, path, stat.Path)
	assert.Equal(t, 3, stat.Entries)
	assert.Empty(t, stat.Err)
	assert.Equal(t, int64(len(content)), stat.Size)
}

func TestCountFileReadError(t *testing.T) {
	stat, content := countFile(filepath.Join(t.TempDir(), "missing.json"), defaultProbeRules())
	assert.Equal(t, 0, stat.Entries)
	assert.Contains(t, stat.Err, "文件读取错误")
	assert.Nil(t, content)
}
