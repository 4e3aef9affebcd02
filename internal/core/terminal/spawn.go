// Package terminal spawns new terminal windows that resume sessions.
package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Spawner handles spawning new terminal windows with commands
type Spawner struct {
	// Optional override from config
	CustomCommand string
}

// SpawnConfig contains the command to run in a new terminal
type SpawnConfig struct {
	WorkingDir string
	Command    string // Full shell command to execute
}

// ResumeCommand builds the shell command that resumes a session and keeps
// the shell alive after the program exits.
func ResumeCommand(program, sessionID string, extraFlags []string) string {
	parts := []string{program, "--resume", shellEscape(sessionID)}
	for _, f := range extraFlags {
		parts = append(parts, shellEscape(f))
	}
	return strings.Join(parts, " ") + "; exec bash"
}

// Spawn opens a new terminal window and runs the command
func (s *Spawner) Spawn(cfg SpawnConfig) error {
	// Use custom command if configured
	if s.CustomCommand != "" {
		return s.spawnCustom(cfg)
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "ghostty":
		return s.spawnGhostty(cfg)
	case "WezTerm":
		return s.spawnWezTerm(cfg)
	case "kitty":
		return s.spawnKitty(cfg)
	}

	// Detect by checking for CLI tools
	if _, err := exec.LookPath("ghostty"); err == nil {
		return s.spawnGhostty(cfg)
	}
	if _, err := exec.LookPath("wezterm"); err == nil {
		return s.spawnWezTerm(cfg)
	}
	if _, err := exec.LookPath("kitty"); err == nil {
		return s.spawnKitty(cfg)
	}
	if path, err := exec.LookPath("x-terminal-emulator"); err == nil {
		return s.spawnGeneric(path, cfg)
	}

	return fmt.Errorf("no supported terminal found; set terminal_command.txt")
}

func (s *Spawner) spawnGhostty(cfg SpawnConfig) error {
	// Ghostty: +new-window opens in existing instance
	cmd := exec.Command("ghostty",
		"+new-window",
		"--working-directory="+cfg.WorkingDir,
		"-e", "bash", "-l", "-c", cfg.Command,
	)
	return cmd.Start()
}

func (s *Spawner) spawnWezTerm(cfg SpawnConfig) error {
	// WezTerm: wezterm cli spawn (if remote control enabled)
	cmd := exec.Command("wezterm", "cli", "spawn",
		"--cwd", cfg.WorkingDir,
		"--", "bash", "-l", "-c", cfg.Command,
	)
	return cmd.Start()
}

func (s *Spawner) spawnKitty(cfg SpawnConfig) error {
	// Kitty: kitty @ launch (if remote control enabled)
	cmd := exec.Command("kitty", "@", "launch",
		"--type=os-window",
		"--cwd="+cfg.WorkingDir,
		"bash", "-l", "-c", cfg.Command,
	)
	return cmd.Start()
}

func (s *Spawner) spawnGeneric(path string, cfg SpawnConfig) error {
	cmd := exec.Command(path, "-e", "bash", "-l", "-c", cfg.Command)
	cmd.Dir = cfg.WorkingDir
	return cmd.Start()
}

func (s *Spawner) spawnCustom(cfg SpawnConfig) error {
	// Custom command template, replace placeholders
	// Template vars: {cwd}, {command}
	cmdStr := s.CustomCommand
	cmdStr = strings.ReplaceAll(cmdStr, "{cwd}", cfg.WorkingDir)
	cmdStr = strings.ReplaceAll(cmdStr, "{command}", cfg.Command)

	cmd := exec.Command("bash", "-c", cmdStr)
	cmd.Dir = cfg.WorkingDir
	return cmd.Start()
}

// shellEscape escapes a string for safe use in shell commands
func shellEscape(s string) string {
	// Simple escape: wrap in single quotes, escape single quotes
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
