package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/neilberkman/claudeboss/internal/core/store"
)

type Config struct {
	ClaudeDir       string   // Claude Code data directory, default ~/.claude
	CacheDir        string   // summary/log cache directory
	Program         string   // process name to correlate, default "claude"
	WindowMarker    string   // title glyph marking live windows
	Model           string   // model passed to the summarizer CLI
	WorkPatterns    []string // substrings that classify a path as professional
	TerminalCommand string   // Custom command to spawn terminal (optional)
	ClaudeFlags     []string // Additional flags to pass to claude --resume
}

type tomlConfig struct {
	ClaudeDir    string   `toml:"claude_dir"`
	CacheDir     string   `toml:"cache_dir"`
	Program      string   `toml:"program"`
	WindowMarker string   `toml:"window_marker"`
	Model        string   `toml:"model"`
	WorkPatterns []string `toml:"work_patterns"`
	ClaudeFlags  []string `toml:"claude_flags"`
}

// Load reads config from ~/.config/claudeboss/
func Load() (*Config, error) {
	cfg := &Config{
		Program:      "claude",
		WindowMarker: "✳",
		Model:        "haiku",
		WorkPatterns: store.DefaultWorkPatterns,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}
	cfg.ClaudeDir = filepath.Join(home, ".claude")
	cfg.CacheDir = filepath.Join(home, ".cache", "claudeboss")

	configDir := filepath.Join(home, ".config", "claudeboss")
	terminalPath := filepath.Join(configDir, "terminal_command.txt")
	tomlPath := filepath.Join(configDir, "config.toml")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.ClaudeDir != "" {
				cfg.ClaudeDir = expandHome(home, tc.ClaudeDir)
			}
			if tc.CacheDir != "" {
				cfg.CacheDir = expandHome(home, tc.CacheDir)
			}
			if tc.Program != "" {
				cfg.Program = tc.Program
			}
			if tc.WindowMarker != "" {
				cfg.WindowMarker = tc.WindowMarker
			}
			if tc.Model != "" {
				cfg.Model = tc.Model
			}
			if len(tc.WorkPatterns) > 0 {
				cfg.WorkPatterns = tc.WorkPatterns
			}
			cfg.ClaudeFlags = tc.ClaudeFlags
		}
	}

	// If custom terminal command exists, use it
	if data, err := os.ReadFile(terminalPath); err == nil {
		cfg.TerminalCommand = strings.TrimSpace(string(data))
	}

	return cfg, nil
}

// SummaryCachePath returns the summary cache file location, creating the
// cache directory if needed.
func (c *Config) SummaryCachePath() string {
	_ = os.MkdirAll(c.CacheDir, 0755)
	return filepath.Join(c.CacheDir, "summary_cache.json")
}

// TemporalLogCachePath returns the temporal log cache file location.
func (c *Config) TemporalLogCachePath() string {
	_ = os.MkdirAll(c.CacheDir, 0755)
	return filepath.Join(c.CacheDir, "temporal_log_cache.json")
}

func expandHome(home, path string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
