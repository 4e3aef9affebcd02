package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/active"
	"github.com/neilberkman/claudeboss/internal/core/store"
	"github.com/neilberkman/claudeboss/internal/core/summarize"
	"github.com/neilberkman/claudeboss/internal/core/supervisor"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch sessions, titles, and liveness continuously",
	Long: `Run the background supervisor and print the session list whenever it
changes. New records are picked up automatically, missing titles are
generated in the background, and open sessions are re-checked every few
seconds. Ctrl-C stops.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "Redraw interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	corr := active.NewCorrelator(cfg.ClaudeDir, cfg.Program, cfg.WindowMarker,
		active.SystemProcessLister{}, active.WmctrlWindowLister{})
	summ := summarize.NewSummarizer(
		summarize.OpenCache(cfg.SummaryCachePath()),
		summarize.OpenLogCache(cfg.TemporalLogCachePath()),
		&summarize.CLIGenerator{Program: cfg.Program, Model: cfg.Model},
	)
	sup := supervisor.New(cfg.ClaudeDir, store.New(cfg.WorkPatterns), corr, summ, supervisor.Options{})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() { _ = sup.Run(ctx) }()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		// ANSI clear screen plus home
		fmt.Print("\033[2J\033[H")
		sessions := sup.Snapshot()
		if len(sessions) > 20 {
			sessions = sessions[:20]
		}
		for i := range sessions {
			fmt.Println(renderSession(&sessions[i]))
		}
	}
}
