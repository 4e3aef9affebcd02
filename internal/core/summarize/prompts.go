package summarize

import (
	"strings"

	"github.com/cbroglie/mustache"
)

// titleRules is shared by the fresh and delta title prompts.
const titleRules = `You are a title generator. Read the session transcript and output a PRODUCT or JOB TITLE.

Rules:
- Maximum 6 words, Title Case
- Plain text only - no markdown, no asterisks, no formatting
- MUST identify the core subject noun - the specific thing being worked on
- The subject noun should be prominent (e.g., project name, tool, system, API)
- No action verbs (Building, Fixing, Setting up, etc.)
- Name what was MADE or what JOB was done, not the action

Examples of subject nouns: AgentiCloud, NSPECT, Milvus, PLC, Emulator, VPN, SSH, Bluetooth
Good: Milvus Database Size Check, NSPECT API Integration, SSH Daemon Setup, Slack Export Tool
Bad: **Building** a browser, Fixing the API, Database work`

const titleTemplate = titleRules + `

SESSION TRANSCRIPT:
{{{transcript}}}

TITLE:`

const updateTemplate = titleRules + `

The previous title was: {{{previous}}}

Based on the NEW WORK below, output an updated title ONLY if the focus has shifted.
If the new work is just continuation of the same topic, output the same title.

NEW WORK:
{{{tail}}}

TITLE:`

const temporalTemplate = `Analyze this Claude Code session transcript and produce a temporal log.
Format as exactly 5 bracketed sections, each 1-2 sentences max:

[Initial] What the user originally asked for
[Proposal] How Claude planned to approach it
[Work] What was actually built/modified
[Challenges] Any difficulties or pivots encountered
[Current] Final state and what's working now

Be specific - mention actual file names, features, or concepts from the transcript.
Plain text only, no markdown.

SESSION TRANSCRIPT:
{{{transcript}}}

TEMPORAL LOG:`

// renderTitlePrompt builds the fresh-title prompt from the two excerpts.
func renderTitlePrompt(contextStart, contextEnd string) string {
	transcript := "START:\n" + clip(contextStart, 1000) + "\n\nEND:\n" + clip(contextEnd, 1000)
	out, err := mustache.Render(titleTemplate, map[string]string{"transcript": transcript})
	if err != nil {
		return ""
	}
	return out
}

// renderUpdatePrompt builds the delta-regeneration prompt from the previous
// title and only the new tail excerpt.
func renderUpdatePrompt(previous, tail string) string {
	out, err := mustache.Render(updateTemplate, map[string]string{
		"previous": previous,
		"tail":     clip(tail, 2000),
	})
	if err != nil {
		return ""
	}
	return out
}

// renderTemporalPrompt builds the temporal-log prompt over both excerpts.
func renderTemporalPrompt(contextStart, contextEnd string) string {
	transcript := "START:\n" + clip(contextStart, 3000) + "\n\nEND:\n" + clip(contextEnd, 3000)
	out, err := mustache.Render(temporalTemplate, map[string]string{"transcript": transcript})
	if err != nil {
		return ""
	}
	return out
}

// extractTitle cleans a raw generator response down to a plausible title:
// the last short line that is not meta-chatter, capped at 6 words.
func extractTitle(raw string) string {
	if raw == "" {
		return ""
	}

	strip := strings.NewReplacer("**", "", "*", "")
	lines := strings.Split(raw, "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(strip.Replace(lines[i]))
		if line == "" || strings.HasPrefix(line, "Session") || strings.HasPrefix(line, "Shell") || len(line) >= 80 {
			continue
		}
		words := strings.Fields(line)
		if len(words) <= 8 {
			if len(words) > 6 {
				words = words[:6]
			}
			return titleCase(strings.Join(words, " "))
		}
	}

	words := strings.Fields(strip.Replace(lines[0]))
	if len(words) > 6 {
		words = words[:6]
	}
	return titleCase(strings.Join(words, " "))
}

// parseTemporalLog cleans a raw temporal-log response into display lines,
// starting at the first bracketed section.
func parseTemporalLog(raw string) []string {
	strip := strings.NewReplacer("**", "", "*", "")

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(strip.Replace(line))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") || len(lines) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
