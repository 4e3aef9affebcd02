package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/active"
)

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show sessions with a running Claude Code process",
	Long: `Correlate running processes and terminal windows with session records
and print the sessions that appear to be open right now.

Window correlation needs wmctrl and pstree; without them the command falls
back to matching process working directories alone.`,
	RunE: runActive,
}

func init() {
	rootCmd.AddCommand(activeCmd)
}

func runActive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, err := loadSessions(cfg)
	if err != nil {
		return err
	}

	corr := active.NewCorrelator(cfg.ClaudeDir, cfg.Program, cfg.WindowMarker,
		active.SystemProcessLister{}, active.WmctrlWindowLister{})
	activeIDs := corr.ActiveSessionIDs(cmd.Context())

	if len(activeIDs) == 0 {
		fmt.Println("No open sessions detected.")
		return nil
	}

	for _, s := range sessions {
		if !activeIDs[s.ID] {
			continue
		}
		fmt.Printf("%s  %s  %s\n", s.ID, s.ShortPath(), s.MtimeDisplay())
	}
	return nil
}
