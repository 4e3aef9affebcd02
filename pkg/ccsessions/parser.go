// Package ccsessions parses Claude Code session record files: line-delimited
// JSON logs stored under ~/.claude/projects/<encoded-project>/<uuid>.jsonl.
package ccsessions

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AgentPrefix marks agent subsession record files, which are skipped by the
// session store.
const AgentPrefix = "agent-"

const (
	previewLimit = 100  // chars of the first user message kept as preview
	excerptLimit = 2000 // char budget for each context excerpt
)

// ParsedSession is the result of parsing a single session record file.
type ParsedSession struct {
	SessionID    string
	Slug         string
	Summary      string
	CWD          string
	GitBranch    string
	Model        string
	FirstMessage string
	ContextStart string // first ~2000 chars of concatenated message text
	ContextEnd   string // last ~2000 chars of concatenated message text
	FilePath     string
	FileSize     int64
	FileMtime    time.Time
}

// rawEntry represents a raw JSONL line
type rawEntry struct {
	Type      string          `json:"type"`
	Summary   string          `json:"summary,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Slug      string          `json:"slug,omitempty"`
	CWD       string          `json:"cwd,omitempty"`
	GitBranch string          `json:"gitBranch,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
}

// ParseFile parses a Claude Code session JSONL file.
//
// Lines that are not valid JSON are skipped; only I/O-level failures (open,
// stat, oversized lines) are reported as errors. The session ID is the
// filename stem.
func ParseFile(path string) (session *ParsedSession, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	sessionID := filepath.Base(path)
	sessionID = sessionID[:len(sessionID)-len(filepath.Ext(sessionID))]

	session = &ParsedSession{
		SessionID: sessionID,
		FilePath:  path,
		FileSize:  info.Size(),
		FileMtime: info.ModTime(),
	}

	// Collected user/assistant text fragments, in record order. Used to
	// build the two bounded excerpts after the scan.
	var texts []string

	// Configure scanner with larger buffer for long lines (10MB max)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw rawEntry
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}

		// Summary entries: last one wins.
		if raw.Type == "summary" {
			session.Summary = raw.Summary
			continue
		}

		// Session metadata: the first non-empty value for each field wins,
		// later entries never overwrite.
		if raw.SessionID != "" {
			if session.Slug == "" {
				session.Slug = raw.Slug
			}
			if session.CWD == "" {
				session.CWD = raw.CWD
			}
			if session.GitBranch == "" {
				session.GitBranch = raw.GitBranch
			}
		}

		switch raw.Type {
		case "user":
			text := extractText(raw.Message)
			if session.FirstMessage == "" && text != "" {
				session.FirstMessage = truncate(text, previewLimit)
			}
			if text != "" {
				texts = append(texts, text)
			}

		case "assistant":
			if session.Model == "" {
				session.Model = extractModel(raw.Message)
			}
			if text := extractText(raw.Message); text != "" {
				texts = append(texts, text)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	session.ContextStart, session.ContextEnd = buildExcerpts(texts)

	return session, nil
}

// extractText pulls the concatenated text content out of a message payload.
// Handles both the older string form and the newer content-block array.
func extractText(message json.RawMessage) string {
	if len(message) == 0 {
		return ""
	}

	var blockMsg struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content"`
	}
	if err := json.Unmarshal(message, &blockMsg); err == nil {
		var text string
		for _, block := range blockMsg.Content {
			if block.Type == "text" && block.Text != "" {
				if text != "" {
					text += "\n"
				}
				text += block.Text
			}
		}
		return text
	}

	var stringMsg struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(message, &stringMsg); err == nil {
		return stringMsg.Content
	}

	return ""
}

// extractModel pulls the model identifier from an assistant message payload.
func extractModel(message json.RawMessage) string {
	var msg struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		return ""
	}
	return msg.Model
}

// buildExcerpts fills the start excerpt front-to-back and the end excerpt
// back-to-front, each stopping before the 2000-char budget would be
// exceeded.
func buildExcerpts(texts []string) (start, end string) {
	for _, text := range texts {
		if len(start)+len(text) > excerptLimit {
			break
		}
		start += text + "\n"
	}

	for i := len(texts) - 1; i >= 0; i-- {
		if len(end)+len(texts[i]) > excerptLimit {
			break
		}
		end = texts[i] + "\n" + end
	}

	return strings.TrimSpace(start), strings.TrimSpace(end)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
