// Package summarize maintains short generated titles and temporal digests
// for sessions, backed by a content-fingerprint-keyed persistent cache and
// an external text generator.
package summarize

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Generator produces text from a prompt. Implementations are treated as
// black boxes: an empty result, for any reason, means "no text available".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CLIGenerator shells out to the claude CLI in print mode. Tool absence,
// timeouts and non-zero exits all surface as errors the caller converts to
// empty results.
type CLIGenerator struct {
	Program string // e.g. "claude"
	Model   string // e.g. "haiku"
}

// Generate runs the CLI with the prompt on stdin and returns its trimmed
// stdout. Runs from the temp directory so the generation itself never picks
// up project context.
func (g *CLIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, g.Program, "-p", "--model", g.Model, "--tools", "")
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Dir = os.TempDir()

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
