package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/HundredVisionsGuy/webcode-tk-sub000/internal/config"
	"github.com/HundredVisionsGuy/webcode-tk-sub000/pkg/contrast"
)

var (
	// Input flags
	projectDir = flag.String("project", "", "Project root directory containing HTML and CSS files")

	// Output control flags
	format  = flag.String("format", "text", "Output format (text, json)")
	verbose = flag.Bool("verbose", false, "Verbose output with cascade debug logging")
	quiet   = flag.Bool("quiet", false, "Suppress all output except errors and failures")

	// Gating flags
	failOn = flag.String("fail-on", "", "Exit non-zero when any element fails the given WCAG level (aa, aaa)")
)

func main() {
	flag.Parse()

	if err := validateArgs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger, err := buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	analyzer := contrast.New(config.Default(), logger)
	results, err := analyzer.AnalyzeProject(*projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "json":
		err = printJSON(results)
	default:
		err = printText(results)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *failOn != "" && countFailures(results, *failOn) > 0 {
		os.Exit(2)
	}
}

// validateArgs validates command line arguments
func validateArgs() error {
	if *projectDir == "" {
		return fmt.Errorf("-project is required")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("invalid format: %s (valid: text, json)", *format)
	}
	if *failOn != "" && *failOn != "aa" && *failOn != "aaa" {
		return fmt.Errorf("invalid fail-on level: %s (valid: aa, aaa)", *failOn)
	}
	if *quiet && *verbose {
		return fmt.Errorf("cannot specify both -quiet and -verbose")
	}
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if *quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if *verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

func printJSON(results []contrast.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// printText prints one line per element grouped by file, then a summary.
func printText(results []contrast.Result) error {
	byFile := make(map[string][]contrast.Result)
	var files []string
	for _, r := range results {
		if _, seen := byFile[r.Filename]; !seen {
			files = append(files, r.Filename)
		}
		byFile[r.Filename] = append(byFile[r.Filename], r)
	}
	sort.Strings(files)

	passed, failed, other := 0, 0, 0
	for _, file := range files {
		if !*quiet {
			fmt.Printf("%s\n", file)
		}
		for _, r := range byFile[file] {
			switch r.ContrastAnalysis {
			case contrast.AnalysisWarning:
				other++
				fmt.Printf("  WARN  %s\n", r.WarningMessage)
			case contrast.AnalysisIndeterminate:
				other++
				if !*quiet {
					fmt.Printf("  ????  <%s> %q: %s\n", r.ElementTag, truncate(r.TextContent, 40), r.Reason)
				}
			default:
				if r.WCAGAAPass {
					passed++
					if !*quiet {
						fmt.Printf("  PASS  <%s> %q: %.2f:1 (%s on %s)\n",
							r.ElementTag, truncate(r.TextContent, 40), r.ContrastRatio, r.TextColor, r.BackgroundColor)
					}
				} else {
					failed++
					fmt.Printf("  FAIL  <%s> %q: %.2f:1 (%s on %s, from %s)\n",
						r.ElementTag, truncate(r.TextContent, 40), r.ContrastRatio,
						r.TextColor, r.BackgroundColor, r.TextColorSource.SourceType)
				}
			}
		}
	}
	if !*quiet {
		fmt.Printf("\n%d passed, %d failed, %d warnings/indeterminate\n", passed, failed, other)
	}
	return nil
}

func countFailures(results []contrast.Result, level string) int {
	failures := 0
	for _, r := range results {
		if r.ContrastAnalysis == contrast.AnalysisDeterminable && !r.Passed(level) {
			failures++
		}
	}
	return failures
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
