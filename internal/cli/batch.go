package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/pmicheck/internal/eligibility"
	"github.com/ppiankov/pmicheck/internal/pipeline"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	concurrency  int
	outputDir    string
	listFile     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [answers.yaml...]",
	Short: "Check many answers files in parallel",
	Long: `Batch replays many answers files concurrently:
- Files come from the arguments and/or a list file (one path per line)
- Files are checked by a bounded worker pool
- Requests to the scoring service share one rate limiter
- A summary table is printed at the end; reports are written when
  --output-dir is set

Example:
  pmicheck batch fixtures/*.yaml
  pmicheck batch --list answers.txt --concurrency 8 --output-dir ./reports`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing answers files, one per line")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "write a Markdown and JSON report per file to this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().Float64("rate", 0, "requests per second to the scoring service (default from config)")

	_ = viper.BindPFlag("concurrency.batch_workers", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("eligibility.rate_limit", batchCmd.Flags().Lookup("rate"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths := append([]string(nil), args...)
	if listFile != "" {
		listed, err := worker.ReadListFile(listFile)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no answers files given")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	workers := cfg.Concurrency.BatchWorkers

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  pmicheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Files:        %d\n", len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Rate:         %.2f req/s\n", cfg.Eligibility.RateLimit)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// One limiter for the whole run; every request goes to the same host.
	var limiter *worker.Limiter
	if cfg.Eligibility.RateLimit > 0 {
		limiter = worker.NewLimiter(cfg.Eligibility.RateLimit, 1, 16)
	}
	checker, err := newChecker(cfg, log, limiterOrNil(limiter))
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg, log)
	if err != nil {
		return err
	}

	p := pipeline.New(checker,
		pipeline.WithTimeout(cfg.Eligibility.Timeout),
		pipeline.WithSummarizer(summarizer),
		pipeline.WithLogger(log),
	)
	processor := worker.NewBatchProcessor(p, workers)

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	results := processor.ProcessFiles(ctx, paths)
	renderer := report.NewRenderer(cfg.Report)

	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}
		if outputDir != "" {
			if err := writeBatchReport(renderer, r.Check); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, err)
			}
		}
	}

	printSummaryTable(results)

	s := worker.Summarize(results)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d\n", s.Total)
	fmt.Fprintf(os.Stderr, "  Scored:    %d\n", s.Scored)
	fmt.Fprintf(os.Stderr, "  Exited:    %d\n", s.Exited)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", s.Errors)
	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if s.Errors > 0 {
		return fmt.Errorf("%d of %d files could not be checked", s.Errors, s.Total)
	}
	return nil
}

// limiterOrNil keeps a nil *worker.Limiter from becoming a non-nil interface
func limiterOrNil(l *worker.Limiter) eligibility.Limiter {
	if l == nil {
		return nil
	}
	return l
}

func printSummaryTable(results []*worker.FileResult) {
	fmt.Printf("%-32s  %-26s  %s\n", "FILE", "OUTCOME", "HEADLINE")
	fmt.Printf("%-32s  %-26s  %s\n", strings.Repeat("-", 32), strings.Repeat("-", 26), strings.Repeat("-", 8))
	for _, r := range results {
		name := truncate(filepath.Base(r.Path), 32)
		switch {
		case r.Error != nil:
			fmt.Printf("%-32s  %-26s  %s\n", name, "error", r.Error)
		case r.Check.Document.Status == "":
			fmt.Printf("%-32s  %-26s  %s\n", name, r.Check.State, "")
		default:
			outcome := string(r.Check.Document.Status)
			if r.Check.Document.Level != "" {
				outcome += " " + r.Check.Document.Level
			}
			fmt.Printf("%-32s  %-26s  %s\n", name, outcome, r.Check.Document.Headline)
		}
	}
}

func writeBatchReport(renderer *report.Renderer, res *pipeline.CheckResult) error {
	slug := sanitizeFilename(strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path)))

	md := exitMarkdown(res)
	if res.Document.Status != "" {
		md = renderer.Markdown(res.Document)
	}
	if err := os.WriteFile(filepath.Join(outputDir, slug+".md"), []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return writeJSON(filepath.Join(outputDir, slug+".json"), res)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(s)
	if s == "" || s == "." || s == ".." {
		s = "answers"
	}
	return truncate(s, 100)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
