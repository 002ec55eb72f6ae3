package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// symbolSet holds the console status markers. Keeping them configurable makes
// the scan log testable and terminal-friendly.
type symbolSet struct {
	OK   string
	Fail string
}

var symbolSets = map[string]symbolSet{
	"emoji": {OK: "✅", Fail: "❌"},
	"ascii": {OK: "[OK]", Fail: "[!!]"},
	"plain": {OK: "OK", Fail: "ERR"},
}

func lookupSymbols(name string) (symbolSet, error) {
	syms, ok := symbolSets[strings.ToLower(name)]
	if !ok {
		return symbolSet{}, fmt.Errorf("unsupported symbol set: %s. Use 'emoji', 'ascii' or 'plain'", name)
	}
	return syms, nil
}

// groupDigits renders n with thousands separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func divider(width int, ch string) string {
	return strings.Repeat(ch, width)
}

// scanLine formats the per-file console line emitted during the counting
// pass.
func scanLine(syms symbolSet, s FileStat) string {
	if s.Err != "" {
		return fmt.Sprintf("%s %s: %s", syms.Fail, s.Path, s.Err)
	}
	return fmt.Sprintf("%s %s: %s 条", syms.OK, s.Path, groupDigits(int64(s.Entries)))
}

// sortByEntries returns the successful records ordered by entry count
// descending. The sort is stable, so ties keep the locator's ascending path
// order.
func sortByEntries(stats []FileStat) []FileStat {
	sorted := make([]FileStat, 0, len(stats))
	for _, s := range stats {
		if s.Err == "" {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Entries > sorted[j].Entries
	})
	return sorted
}

// entryLine formats one line of the sorted view, count right-aligned to
// eight columns.
func entryLine(s FileStat, withTokens bool) string {
	line := fmt.Sprintf("%8s 条 - %s", groupDigits(int64(s.Entries)), s.Path)
	if withTokens {
		line += fmt.Sprintf(" (tokens: %s)", groupDigits(int64(s.Tokens)))
	}
	return line
}

// buildReport renders the persisted statistics report. The sorted slice must
// already be in descending entry order.
func buildReport(roots []string, sorted []FileStat, sum Summary, now time.Time, withTokens bool) string {
	var b strings.Builder

	b.WriteString("Data目录JSON文件条数统计报告\n")
	b.WriteString(divider(40, "=") + "\n")
	b.WriteString(fmt.Sprintf("统计时间: %s\n", now.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("统计目录: %s\n", strings.Join(roots, ", ")))
	b.WriteString(fmt.Sprintf("总文件数: %d\n", sum.LocatedFiles))
	b.WriteString(fmt.Sprintf("总条数: %s\n", groupDigits(sum.TotalEntries)))
	if withTokens {
		b.WriteString(fmt.Sprintf("总Token数: %s\n", groupDigits(sum.TotalTokens)))
	}
	b.WriteString("\n")

	b.WriteString("详细统计:\n")
	b.WriteString(divider(40, "-") + "\n")
	for _, s := range sorted {
		b.WriteString(entryLine(s, withTokens) + "\n")
	}

	return b.String()
}

// writeReport persists the report, overwriting any previous run.
func writeReport(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("error writing report to %s: %w", path, err)
	}
	return nil
}
