package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/activity"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <session-id>",
	Short: "Show the activity timeline of a session",
	Long: `Reconstruct when a session was actually worked on.

Evidence comes from the shell history file, debug log timestamps, and the
record file's own modification time. Activity separated by more than 30
minutes starts a new work period.

Examples:
  claudeboss timeline 3f2a9c10-77aa-4b8e-9d2e-1a2b3c4d5e6f`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, err := loadSessions(cfg)
	if err != nil {
		return err
	}

	id := args[0]
	for _, s := range sessions {
		if s.ID != id {
			continue
		}
		tl := activity.NewReconstructor(cfg.ClaudeDir).Reconstruct(s)
		printTimeline(tl)
		return nil
	}
	return fmt.Errorf("no session with id %s", id)
}

func printTimeline(tl *activity.Timeline) {
	if len(tl.Periods) == 0 {
		fmt.Println("No activity evidence found.")
		return
	}

	fmt.Printf("%d work period(s), %s total, across %d day(s)\n\n",
		len(tl.Periods), tl.TotalDuration().Round(time.Minute), tl.ActiveDays())

	for _, p := range tl.Periods {
		fmt.Printf("  %s  %s  (%d event(s), %s)\n",
			p.Start.Format("Jan 2 15:04"),
			humanize.Time(p.Start),
			p.MessageCount,
			p.Duration().Round(time.Minute))
		if p.FirstMessage != "" {
			fmt.Printf("    %s\n", p.FirstMessage)
		}
	}
}
