package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/neilberkman/claudeboss/internal/core/models"
	"github.com/neilberkman/claudeboss/internal/core/paths"
)

// gapThreshold is the silence gap that starts a new activity period.
const gapThreshold = 30 * time.Minute

// displayLimit caps the evidence description taken from history entries.
const displayLimit = 60

// evidence is one timestamped observation about a session.
type evidence struct {
	at   time.Time
	text string
}

// Reconstructor builds activity timelines from the on-disk evidence under a
// Claude Code data directory.
type Reconstructor struct {
	claudeDir string
}

// NewReconstructor creates a reconstructor over claudeDir.
func NewReconstructor(claudeDir string) *Reconstructor {
	return &Reconstructor{claudeDir: claudeDir}
}

// Reconstruct gathers evidence for a session and segments it into activity
// periods. No evidence at all yields an empty timeline, not an error.
//
// Sources, all additive:
//  1. the shared history log, matched by session id or project path
//  2. the session's debug log file timestamps
//  3. the record file's own mtime, only if nothing later was seen
func (r *Reconstructor) Reconstruct(session *models.Session) *Timeline {
	var items []evidence

	items = append(items, r.searchHistory(session)...)
	items = append(items, r.debugLogTimes(session)...)

	if mtime, ok := r.recordMtime(session); ok {
		latest := maxTime(items)
		if len(items) == 0 || mtime.After(latest) {
			items = append(items, evidence{at: mtime, text: "[session file modified]"})
		}
	}

	if len(items) == 0 {
		return &Timeline{SessionID: session.ID}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].at.Before(items[j].at) })

	return &Timeline{
		SessionID:     session.ID,
		Periods:       segment(items),
		TotalMessages: len(items),
		FirstActivity: items[0].at,
		LastActivity:  items[len(items)-1].at,
	}
}

// historyEntry is one line of the shared history log.
type historyEntry struct {
	SessionID string `json:"sessionId"`
	Project   string `json:"project"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Display   string `json:"display"`
}

// searchHistory scans history.jsonl for entries recorded against this
// session's id, or against its project path as a fallback.
func (r *Reconstructor) searchHistory(session *models.Session) []evidence {
	file, err := os.Open(filepath.Join(r.claudeDir, "history.jsonl"))
	if err != nil {
		return nil
	}
	defer file.Close()

	cwd := session.CWD
	if cwd == "" {
		cwd = "/" + strings.TrimLeft(strings.ReplaceAll(session.ProjectPath, "-", "/"), "/")
	}

	var items []evidence

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry historyEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Timestamp == 0 {
			continue
		}

		matched := entry.SessionID == session.ID
		if !matched && entry.Project != "" {
			matched = entry.Project == cwd ||
				strings.TrimRight(entry.Project, "/") == strings.TrimRight(cwd, "/")
		}
		if !matched {
			continue
		}

		items = append(items, evidence{
			at:   time.UnixMilli(entry.Timestamp),
			text: truncate(entry.Display, displayLimit),
		})
	}

	return items
}

// debugLogTimes contributes the creation and, when different, modification
// time of the per-session debug log.
func (r *Reconstructor) debugLogTimes(session *models.Session) []evidence {
	path := filepath.Join(r.claudeDir, "debug", session.ID+".txt")
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	ctime := changeTime(info)
	mtime := info.ModTime()

	items := []evidence{{at: ctime, text: "[debug log created]"}}
	if !mtime.Equal(ctime) {
		items = append(items, evidence{at: mtime, text: "[debug log modified]"})
	}
	return items
}

// recordMtime finds the session's record file and returns its mtime.
func (r *Reconstructor) recordMtime(session *models.Session) (time.Time, bool) {
	cwd := session.CWD
	if cwd == "" {
		cwd = "/" + strings.ReplaceAll(session.ProjectPath, "-", "/")
	}

	dir := paths.FindProjectDir(filepath.Join(r.claudeDir, "projects"), cwd)
	if dir == "" {
		return time.Time{}, false
	}

	info, err := os.Stat(filepath.Join(dir, session.ID+".jsonl"))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// segment groups sorted evidence into periods: a gap over the threshold
// starts a new period, anything closer extends the current one.
func segment(items []evidence) []Period {
	if len(items) == 0 {
		return nil
	}

	var periods []Period
	current := Period{
		Start:        items[0].at,
		End:          items[0].at,
		MessageCount: 1,
		FirstMessage: items[0].text,
	}

	for _, item := range items[1:] {
		if item.at.Sub(current.End) > gapThreshold {
			periods = append(periods, current)
			current = Period{
				Start:        item.at,
				End:          item.at,
				MessageCount: 1,
				FirstMessage: item.text,
			}
			continue
		}
		current.End = item.at
		current.MessageCount++
	}

	return append(periods, current)
}

func maxTime(items []evidence) time.Time {
	var latest time.Time
	for _, item := range items {
		if item.at.After(latest) {
			latest = item.at
		}
	}
	return latest
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
