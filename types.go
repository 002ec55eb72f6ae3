package main

// FileStat holds the counting result for one located JSON file (or one
// fetched JSON URL).
type FileStat struct {
	Path    string
	Size    int64
	Entries int
	Tokens  int    // populated only when token estimation is enabled
	Err     string // non-empty when the file could not be read or parsed
}

// Summary holds the aggregate over one scan.
type Summary struct {
	LocatedFiles int // every JSON file the locator found, failures included
	CountedFiles int // files that parsed successfully
	FailedFiles  int
	TotalEntries int64
	TotalTokens  int64
}

// aggregate folds per-file stats into a Summary. Files that failed to read or
// parse contribute nothing to the totals.
func aggregate(stats []FileStat) Summary {
	sum := Summary{LocatedFiles: len(stats)}
	for _, s := range stats {
		if s.Err != "" {
			sum.FailedFiles++
			continue
		}
		sum.CountedFiles++
		sum.TotalEntries += int64(s.Entries)
		sum.TotalTokens += int64(s.Tokens)
	}
	return sum
}
