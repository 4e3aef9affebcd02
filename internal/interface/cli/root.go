package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/config"
	"github.com/neilberkman/claudeboss/internal/core/models"
	"github.com/neilberkman/claudeboss/internal/core/store"
)

var (
	claudeDirFlag string
	versionInfo   string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "claudeboss",
	Short: "Claude Code session browser backend",
	Long: `claudeboss - discover, summarize, and resume your Claude Code sessions

Reads session records straight from the Claude Code data directory, infers
which sessions are open right now, and keeps short AI-generated titles for
each one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the list when no subcommand is given
		return listCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&claudeDirFlag, "claude-dir", "", "Claude Code data directory (default ~/.claude)")
}

// loadConfig resolves config plus the flag override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if claudeDirFlag != "" {
		cfg.ClaudeDir = claudeDirFlag
	}
	return cfg, nil
}

// loadSessions builds the store and loads the deduplicated session set,
// newest first.
func loadSessions(cfg *config.Config) ([]*models.Session, error) {
	st := store.New(cfg.WorkPatterns)
	sessions, err := st.Load(cfg.ClaudeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	models.SortByMtime(sessions)
	return sessions, nil
}
