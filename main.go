package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultScanRoot = "data"
const defaultReportFile = "data_json_statistics.txt"

var (
	// Filtering
	excludePatterns string
	maxSizeBytes    int64
	maxDepth        int
	showHidden      bool
	noIgnore        bool

	// Output
	reportFile      string
	pdfOutputFile   string
	copyToClipboard bool
	symbolSetName   string

	// Counting
	rulesFile string

	// Token estimation
	countTokens    bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Web
	traverseLinks bool
	linkDepth     int

	// Mode
	interactiveMode bool
	quietMode       bool
	verboseMode     bool
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "jsontally [ROOTS...]",
	Short: "jsontally counts the entries in every JSON file under a directory.",
	Long: `jsontally recursively scans directories, Git repositories and web URLs for
JSON files, derives an entry count per file (top-level arrays, or the first of
the data/items/results keys holding an array), and writes a sorted statistics
report.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		syms, err := lookupSymbols(symbolSetName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		rules, err := loadProbeRules(rulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		// Determine scan roots: interactive or command-line args.
		var roots []string
		if interactiveMode {
			roots, err = runInteractiveFinder(rules)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Interactive mode error: %v\n", err)
				os.Exit(1)
			}
			if roots == nil {
				// User aborted interactive selection
				os.Exit(0)
			}
		} else {
			roots = args
			if len(roots) == 0 {
				roots = []string{defaultScanRoot}
			}
		}

		var estimator TokenEstimator
		if countTokens {
			estimator, err = newTokenEstimator()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing tokenizer: %v\n", err)
				countTokens = false
				fmt.Fprintln(os.Stderr, "Token counting disabled due to error.")
			} else {
				defer estimator.Close()
			}
		}

		fmt.Println(divider(60, "="))
		fmt.Println("JSON文件条数统计工具")
		fmt.Println(divider(60, "="))

		// Git roots are cloned into temp dirs; clean them up on exit.
		var tempDirsToClean []string
		defer func() {
			for _, dir := range tempDirsToClean {
				_ = os.RemoveAll(dir)
			}
		}()

		var located []string
		var webStats []FileStat
		availableRoots := 0

		for _, input := range roots {
			switch {
			case isWebURL(input):
				stats, err := processWebRoot(input, rules)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
					continue
				}
				availableRoots++
				webStats = append(webStats, stats...)

			case isGitURL(input):
				tempDir, cloneErr := cloneGitRepo(input)
				if cloneErr != nil {
					fmt.Fprintf(os.Stderr, "Error cloning git repo %s: %v\n", input, cloneErr)
					continue
				}
				tempDirsToClean = append(tempDirsToClean, tempDir)
				files, err := locateJSONFiles(tempDir)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
					continue
				}
				availableRoots++
				located = append(located, files...)

			default:
				if _, statErr := os.Stat(input); statErr != nil {
					fmt.Printf("错误: %s 目录不存在\n", input)
					continue
				}
				files, err := locateJSONFiles(input)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
					continue
				}
				availableRoots++
				located = append(located, files...)
			}
		}

		if availableRoots == 0 {
			os.Exit(1)
		}
		if len(located)+len(webStats) == 0 {
			fmt.Printf("在 %s 目录下未找到任何JSON文件\n", strings.Join(roots, ", "))
			return
		}

		fmt.Printf("在 %s 目录下找到 %d 个JSON文件:\n", strings.Join(roots, ", "), len(located)+len(webStats))
		fmt.Println(divider(60, "-"))

		var bar *progressbar.ProgressBar
		if quietMode {
			bar = progressbar.NewOptions(len(located)+len(webStats),
				progressbar.OptionSetDescription("Counting entries"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionFullWidth(),
			)
		}

		emit := func(s FileStat) {
			if quietMode {
				_ = bar.Add(1)
				if s.Err != "" {
					logrus.Warnf("%s: %s", s.Path, s.Err)
				}
				return
			}
			fmt.Println(scanLine(syms, s))
		}

		// Single sequential pass: read, count, optionally estimate tokens.
		stats := make([]FileStat, 0, len(located)+len(webStats))
		for _, path := range located {
			stat, content := countFile(path, rules)
			if stat.Err == "" && countTokens && estimator != nil {
				stat.Tokens = estimator.CountTokens(string(content))
			}
			stats = append(stats, stat)
			emit(stat)
		}
		for _, stat := range webStats {
			stats = append(stats, stat)
			emit(stat)
		}
		if quietMode {
			fmt.Fprintln(os.Stderr)
		}

		sum := aggregate(stats)

		fmt.Println(divider(60, "-"))
		fmt.Printf("总计: %s 条数据\n", groupDigits(sum.TotalEntries))
		if countTokens {
			fmt.Printf("总Token数: %s\n", groupDigits(sum.TotalTokens))
		}

		sorted := sortByEntries(stats)
		if len(sorted) > 0 {
			fmt.Println("\n按条数排序:")
			fmt.Println(divider(60, "-"))
			for _, s := range sorted {
				fmt.Println(entryLine(s, countTokens))
			}
		}

		now := time.Now()
		content := buildReport(roots, sorted, sum, now, countTokens)
		if err := writeReport(reportFile, content); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n统计结果已保存到: %s\n", reportFile)

		if copyToClipboard {
			if err := clipboard.WriteAll(content); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
			} else {
				fmt.Println("统计结果已复制到剪贴板")
			}
		}

		if pdfOutputFile != "" {
			if err := generatePDF(roots, sorted, sum, now, countTokens, pdfOutputFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating PDF: %v\n", err)
			} else {
				fmt.Printf("PDF报告已保存到: %s\n", pdfOutputFile)
			}
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Filtering
	rootCmd.Flags().StringVarP(&excludePatterns, "exclude", "e", "", "Patterns to exclude (comma-separated, e.g. tmp_*.json)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	viper.BindPFlag("default_excludes", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().Int64VarP(&maxSizeBytes, "max-size", "s", 0, "Maximum file size in bytes (0 for no limit)")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().BoolVarP(&showHidden, "hidden", "H", false, "Include hidden files and directories")
	viper.BindPFlag("hidden", rootCmd.Flags().Lookup("hidden"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect .gitignore files")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Output
	rootCmd.Flags().StringVarP(&reportFile, "report", "f", defaultReportFile, "Path of the text report")
	viper.BindPFlag("report", rootCmd.Flags().Lookup("report"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also save the report as PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&symbolSetName, "symbols", "emoji", "Console status markers: emoji, ascii or plain")
	viper.BindPFlag("symbols", rootCmd.Flags().Lookup("symbols"))

	// Counting
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file overriding the ordered key-probe list")
	viper.BindPFlag("rules", rootCmd.Flags().Lookup("rules"))

	// Token estimation
	rootCmd.Flags().BoolVar(&countTokens, "tokens", false, "Also estimate model tokens per file")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g., gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Web
	rootCmd.Flags().BoolVar(&traverseLinks, "traverse-links", false, "Follow links on HTML index pages to .json files")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().IntVar(&linkDepth, "link-depth", 1, "Maximum depth to traverse links")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	// Mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick scan roots with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
	rootCmd.Flags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress per-file lines, show a progress bar instead")
	viper.BindPFlag("quiet", rootCmd.Flags().Lookup("quiet"))
	rootCmd.Flags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable debug logging")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.SetDefault("max_size", 0)
	viper.SetDefault("max_depth", 0)
	viper.SetDefault("symbols", "emoji")
	viper.SetDefault("report", defaultReportFile)
	viper.SetDefault("tokenizer", "tiktoken")
	viper.SetDefault("link_depth", 1)
	viper.SetDefault("default_excludes", []string{})
}

// initConfig reads in config file and JSONTALLY_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "jsontally"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("JSONTALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	initLogging()

	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		logrus.Warnf("Error reading config file: %v", err)
	}

	// The config file can provide the default exclude list; an explicit -e
	// flag overrides it.
	if !rootCmd.Flags().Changed("exclude") {
		excludePatterns = strings.Join(viper.GetStringSlice("default_excludes"), ",")
	}
}

func initLogging() {
	logrus.SetOutput(os.Stderr)
	if verboseMode || viper.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
