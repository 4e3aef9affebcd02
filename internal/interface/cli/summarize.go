package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/summarize"
)

var (
	summarizeRegenerate string
	summarizeLog        string
	summarizeLimit      int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate short titles for sessions",
	Long: `Generate AI titles for sessions that lack one, using the claude CLI in
headless mode.

Titles are cached by content fingerprint; unchanged sessions are skipped,
and sessions that grew only slightly keep their stale title.

Examples:
  claudeboss summarize
  claudeboss summarize --limit 5
  claudeboss summarize --regenerate 3f2a9c10-77aa-4b8e-9d2e-1a2b3c4d5e6f
  claudeboss summarize --log 3f2a9c10-77aa-4b8e-9d2e-1a2b3c4d5e6f`,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeRegenerate, "regenerate", "", "Drop the cached title for a session and regenerate it")
	summarizeCmd.Flags().StringVar(&summarizeLog, "log", "", "Print the temporal log for a session")
	summarizeCmd.Flags().IntVar(&summarizeLimit, "limit", 0, "Stop after this many generations (0 means no limit)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, err := loadSessions(cfg)
	if err != nil {
		return err
	}

	summ := summarize.NewSummarizer(
		summarize.OpenCache(cfg.SummaryCachePath()),
		summarize.OpenLogCache(cfg.TemporalLogCachePath()),
		&summarize.CLIGenerator{Program: cfg.Program, Model: cfg.Model},
	)

	if summarizeLog != "" {
		for _, s := range sessions {
			if s.ID != summarizeLog {
				continue
			}
			lines := summ.TemporalLog(cmd.Context(), s)
			if len(lines) == 0 {
				fmt.Println("No temporal log available.")
				return nil
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		}
		return fmt.Errorf("no session with id %s", summarizeLog)
	}

	if summarizeRegenerate != "" {
		for _, s := range sessions {
			if s.ID != summarizeRegenerate {
				continue
			}
			summ.Invalidate(s.ID)
			title := summ.Summarize(cmd.Context(), s)
			if title == "" {
				return fmt.Errorf("generation failed for %s", s.ID)
			}
			fmt.Println(title)
			return nil
		}
		return fmt.Errorf("no session with id %s", summarizeRegenerate)
	}

	generated := 0
	for _, s := range sessions {
		if summ.CachedSummary(s.ID) != "" {
			continue
		}
		title := summ.Summarize(cmd.Context(), s)
		if title == "" {
			continue
		}
		fmt.Printf("%s  %s\n", s.ID, title)
		generated++
		if summarizeLimit > 0 && generated >= summarizeLimit {
			break
		}
	}
	fmt.Printf("Generated %d title(s).\n", generated)
	return nil
}
