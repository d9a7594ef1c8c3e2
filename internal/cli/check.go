package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/ppiankov/pmicheck/internal/pipeline"
	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	noCache      bool
	pretty       bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <answers.yaml>",
	Short: "Replay one answers file and check PMI cancellation eligibility",
	Long: `Check replays an answers file through the survey, exactly as a homeowner
would answer it, then asks the scoring service and prints the report as
Markdown.

Files that end on an exit screen (not a conventional loan, 20% or more
down) print the exit message without contacting the service.

Example:
  pmicheck check answers.yaml
  pmicheck check answers.yaml --json result.json --md report.md
  pmicheck check answers.yaml --timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the raw service result as JSON to this path")
	checkCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path instead of stdout")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "scoring request timeout (0 waits indefinitely)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	checkCmd.Flags().BoolVar(&pretty, "pretty", false, "render the Markdown report for the terminal")

	_ = viper.BindPFlag("eligibility.timeout", checkCmd.Flags().Lookup("timeout"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	log := newLogger(cfg)

	checker, err := newChecker(cfg, log, nil)
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

	log.Debug("checking %s", args[0])
	res, err := p.CheckFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderer := report.NewRenderer(cfg.Report)
	var md string
	if res.Document.Status == "" {
		md = exitMarkdown(res)
	} else {
		md = renderer.Markdown(res.Document)
	}

	if outMD != "" {
		if err := os.WriteFile(outMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		log.Info("wrote %s", outMD)
	} else if pretty {
		out, err := renderMarkdown(md, 80)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Print(out)
	} else {
		fmt.Print(md)
	}

	if outJSON != "" {
		if err := writeJSON(outJSON, res.Result); err != nil {
			return err
		}
		log.Info("wrote %s", outJSON)
	}

	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// exitMarkdown covers files that never reached the scoring step. Replay
// only returns terminal states, so an unscored result is always an exit.
func exitMarkdown(res *pipeline.CheckResult) string {
	msg, _ := widget.ExitFor(res.State)
	return fmt.Sprintf("# %s\n\n%s\n", msg.Headline, msg.Body)
}

func renderMarkdown(input string, width int) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(input)
}
