package cli

import (
	"context"

	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/tui"
	"github.com/ppiankov/pmicheck/internal/util"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Take the survey in the terminal",
	Long: `Ask runs the survey as an interactive terminal program and shows the
eligibility report when the scoring service answers.

Keys: enter continues, tab moves between fields, esc quits.`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// the terminal belongs to the survey; only warnings reach stderr
	log := util.NewLogger(false)

	checker, err := newChecker(cfg, log, nil)
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg, log)
	if err != nil {
		return err
	}

	return tui.Run(context.Background(), checker,
		tui.WithTimeout(cfg.Eligibility.Timeout),
		tui.WithSummarizer(summarizer),
		tui.WithRenderer(report.NewRenderer(cfg.Report)),
		tui.WithLogger(log),
	)
}
