package models

import (
	"errors"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Category classifies a session by the kind of work it holds.
type Category string

const (
	CategoryPersonal     Category = "personal"
	CategoryProfessional Category = "professional"
)

// Session represents one Claude Code conversation session on disk.
//
// Summary and liveness annotations are filled in after loading; the
// supervisor owns all mutation of those fields.
type Session struct {
	ID           string // UUID from the record filename
	Slug         string
	CWD          string // Working directory, may be empty
	ProjectPath  string // Encoded project directory name, e.g. home-devkit-nv
	Mtime        time.Time
	ContextSize  int64  // Record file size in bytes, proxy for content volume
	Summary      string // From a summary record entry
	GitBranch    string
	Model        string
	FirstMessage string // First user message, truncated, used as preview
	LastSummary  string // Short generated title for recent activity
	ContextStart string // First ~2000 chars of message text
	ContextEnd   string // Last ~2000 chars of message text

	Category Category
	IsActive bool
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.CWD == "" && s.ProjectPath == "" {
		return errors.New("either cwd or project_path is required")
	}
	return nil
}

// DisplayPath returns a human-readable project path.
func (s *Session) DisplayPath() string {
	if s.CWD != "" {
		return s.CWD
	}
	return strings.ReplaceAll(s.ProjectPath, "-", "/")
}

// ShortPath returns a shortened path for display, with the home directory
// collapsed to ~ and long paths elided in the middle.
func (s *Session) ShortPath() string {
	p := s.DisplayPath()
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(p, home) {
		p = "~" + p[len(home):]
	}
	if len(p) > 40 {
		parts := strings.Split(p, "/")
		if len(parts) > 3 {
			p = strings.Join(parts[:2], "/") + "/.../" + parts[len(parts)-1]
		}
	}
	return p
}

// DirName returns the leaf directory name for compact display.
func (s *Session) DirName() string {
	return path.Base(strings.TrimRight(s.DisplayPath(), "/"))
}

// MtimeDisplay returns a relative modification time, e.g. "2 hours ago".
func (s *Session) MtimeDisplay() string {
	return humanize.Time(s.Mtime)
}

// ContextDisplay returns a human-readable context size, e.g. "12 kB".
func (s *Session) ContextDisplay() string {
	return humanize.Bytes(uint64(s.ContextSize))
}

// SortByMtime orders sessions most recently modified first.
func SortByMtime(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Mtime.After(sessions[j].Mtime)
	})
}
