// Package paths maps working directories to the encoded project directory
// names Claude Code uses under ~/.claude/projects.
//
// The encoding is lossy (both "/" and "." collapse into dashes) and has
// varied across Claude Code versions, so decoding is never attempted.
// Instead callers probe an ordered list of candidate directory names and
// take the first that exists on disk.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Encode converts a working directory to its canonical encoded project name.
//
//	/home/devkit/foo/bar   -> home-devkit-foo-bar
//	/home/devkit/.local/foo -> home-devkit--local-foo
//
// A path component starting with a dot keeps an extra dash so hidden
// directories stay distinguishable from collapsed literal dashes.
func Encode(cwd string) string {
	encoded := strings.ReplaceAll(cwd, "/.", "/-")
	encoded = strings.ReplaceAll(encoded, "/", "-")
	return strings.TrimLeft(encoded, "-")
}

// Candidates returns the ordered list of project directory names to probe
// for a working directory. Order matters: the canonical encoding first, then
// the same with a stray leading dash (some encoder versions emit one), then
// both with underscores normalized to dashes (another encoder variant).
func Candidates(cwd string) []string {
	encoded := Encode(cwd)

	candidates := []string{
		encoded,
		"-" + encoded,
	}

	alt := strings.ReplaceAll(encoded, "_", "-")
	if alt != encoded {
		candidates = append(candidates, alt, "-"+alt)
	}

	return candidates
}

// FindProjectDir probes the candidates for cwd under projectsDir and returns
// the first directory that exists. An empty result is a normal outcome, not
// an error: callers must treat it as "unknown, skip".
func FindProjectDir(projectsDir, cwd string) string {
	for _, name := range Candidates(cwd) {
		dir := filepath.Join(projectsDir, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
