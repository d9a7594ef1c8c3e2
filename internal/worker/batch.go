package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/pipeline"
)

// Checker checks one answers file
type Checker interface {
	CheckFile(ctx context.Context, path string) (*pipeline.CheckResult, error)
}

// CheckJob represents one answers file in a batch
type CheckJob struct {
	Index   int
	Path    string
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	res, err := j.Checker.CheckFile(ctx, j.Path)
	return &FileResult{
		Index: j.Index,
		Path:  j.Path,
		Check: res,
		Error: err,
	}
}

// FileResult represents the result of a check job
type FileResult struct {
	Index int
	Path  string
	Check *pipeline.CheckResult
	Error error
}

// GetError returns the error from the check
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor checks many answers files concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessFiles checks every path and returns the results in input order.
// Duplicate paths are checked once.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	paths = dedupe(paths)
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, path := range paths {
			if !pool.Submit(&CheckJob{Index: i, Path: path, Checker: b.checker}) {
				break
			}
		}
		pool.Close()
	}()

	results := make([]*FileResult, 0, len(paths))
	for r := range pool.Results() {
		results = append(results, r.(*FileResult))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ReadListFile reads answers file paths, one per line. Relative paths are
// resolved against the list file's directory.
func ReadListFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return dedupe(paths), nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Summary counts batch outcomes
type Summary struct {
	Total  int
	Scored int // the service returned a result
	Exited int // ended on an exit state, not scored
	Failed int // reached the service but got no result
	Errors int // could not be replayed
}

// Summarize counts results by outcome
func Summarize(results []*FileResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != nil:
			s.Errors++
		case r.Check.Scored():
			s.Scored++
		case r.Check.State != model.StateDone:
			s.Exited++
		default:
			s.Failed++
		}
	}
	return s
}
