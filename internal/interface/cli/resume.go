package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/neilberkman/claudeboss/internal/core/terminal"
)

var resumeWindow bool

var resumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Resume a Claude Code session",
	Long: `Resume a session in its original working directory.

By default the session resumes in the current terminal. With --window a new
terminal window is spawned instead, using the configured terminal command or
an auto-detected one.

Examples:
  claudeboss resume 3f2a9c10-77aa-4b8e-9d2e-1a2b3c4d5e6f
  claudeboss resume 3f2a9c10-77aa-4b8e-9d2e-1a2b3c4d5e6f --window`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.Flags().BoolVar(&resumeWindow, "window", false, "Spawn a new terminal window")
}

func runResume(cmd *cobra.Command, args []string) error {
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

		workingDir := s.CWD
		if _, err := os.Stat(workingDir); err != nil {
			workingDir = "" // directory gone, resume from wherever we are
		}

		if resumeWindow {
			spawner := &terminal.Spawner{CustomCommand: cfg.TerminalCommand}
			return spawner.Spawn(terminal.SpawnConfig{
				WorkingDir: workingDir,
				Command:    terminal.ResumeCommand(cfg.Program, s.ID, cfg.ClaudeFlags),
			})
		}

		cliArgs := append([]string{"--resume", s.ID}, cfg.ClaudeFlags...)
		claude := exec.Command(cfg.Program, cliArgs...)
		claude.Dir = workingDir
		claude.Stdin = os.Stdin
		claude.Stdout = os.Stdout
		claude.Stderr = os.Stderr
		return claude.Run()
	}
	return fmt.Errorf("no session with id %s", id)
}
