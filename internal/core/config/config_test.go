package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClaudeDir != filepath.Join(home, ".claude") {
		t.Errorf("ClaudeDir = %q", cfg.ClaudeDir)
	}
	if cfg.Program != "claude" || cfg.Model != "haiku" || cfg.WindowMarker != "✳" {
		t.Errorf("defaults = %q/%q/%q", cfg.Program, cfg.Model, cfg.WindowMarker)
	}
	if len(cfg.WorkPatterns) == 0 {
		t.Error("WorkPatterns should default to non-empty")
	}
}

func TestLoadTomlOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".config", "claudeboss")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	toml := `claude_dir = "~/claude-data"
program = "claude-next"
model = "sonnet"
work_patterns = ["acme"]
claude_flags = ["--verbose"]
`
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "terminal_command.txt"), []byte("kitty @ launch {cmd}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClaudeDir != filepath.Join(home, "claude-data") {
		t.Errorf("ClaudeDir = %q, want tilde expanded", cfg.ClaudeDir)
	}
	if cfg.Program != "claude-next" || cfg.Model != "sonnet" {
		t.Errorf("overrides = %q/%q", cfg.Program, cfg.Model)
	}
	if len(cfg.WorkPatterns) != 1 || cfg.WorkPatterns[0] != "acme" {
		t.Errorf("WorkPatterns = %v", cfg.WorkPatterns)
	}
	if len(cfg.ClaudeFlags) != 1 || cfg.ClaudeFlags[0] != "--verbose" {
		t.Errorf("ClaudeFlags = %v", cfg.ClaudeFlags)
	}
	if cfg.TerminalCommand != "kitty @ launch {cmd}" {
		t.Errorf("TerminalCommand = %q", cfg.TerminalCommand)
	}
}

func TestSummaryCachePathCreatesDir(t *testing.T) {
	cfg := &Config{CacheDir: filepath.Join(t.TempDir(), "nested", "cache")}
	path := cfg.SummaryCachePath()
	if filepath.Base(path) != "summary_cache.json" {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(cfg.CacheDir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}
