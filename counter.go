package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// probeRule is one ordered probe applied to a top-level JSON object: if the
// object has Key and its value is an array, the entry count is that array's
// length.
type probeRule struct {
	Key string
}

// defaultProbeRules returns the built-in probe order. The order is a
// contract: the first matching key wins even when several are present.
func defaultProbeRules() []probeRule {
	return []probeRule{{Key: "data"}, {Key: "items"}, {Key: "results"}}
}

// countEntries derives the entry count of a JSON document:
//   - top-level array: its length
//   - top-level object: the length of the first probed key holding an array,
//     otherwise 1 (a single object is one entry)
//   - any other top-level value: 1
//
// A parse failure yields count 0 and a non-empty message.
func countEntries(content []byte, rules []probeRule) (int, string) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return 0, fmt.Sprintf("JSON解析错误: %v", err)
	}

	switch v := doc.(type) {
	case []any:
		return len(v), ""
	case map[string]any:
		for _, rule := range rules {
			if arr, ok := v[rule.Key].([]any); ok {
				return len(arr), ""
			}
		}
		return 1, ""
	default:
		return 1, ""
	}
}

// countFile reads and counts one file. The raw content is also returned so
// callers can feed it to the token estimator without a second read; it is nil
// when the read failed.
func countFile(path string, rules []probeRule) (FileStat, []byte) {
	stat := FileStat{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		stat.Err = fmt.Sprintf("文件读取错误: %v", err)
		return stat, nil
	}

	stat.Size = int64(len(content))
	stat.Entries, stat.Err = countEntries(content, rules)
	return stat, content
}
