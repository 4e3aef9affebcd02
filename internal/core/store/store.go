// Package store scans the Claude Code data directory and builds the
// in-memory session set.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/neilberkman/claudeboss/internal/core/models"
	"github.com/neilberkman/claudeboss/pkg/ccsessions"
)

// noisePrefix identifies automated pre-flight evaluation prompts recorded as
// ordinary sessions. They carry no user work and are discarded.
const noisePrefix = "Evaluate if this bash"

// minUsefulSize is the record size floor in bytes. Smaller files are
// sessions that were started and immediately abandoned.
const minUsefulSize = 500

// DefaultWorkPatterns are the category keywords used when the config
// provides none.
var DefaultWorkPatterns = []string{"work", "company", "client", "project"}

// Store loads sessions from a Claude Code data directory.
type Store struct {
	workPatterns []string
}

// New creates a store. patterns may be nil to use DefaultWorkPatterns.
func New(patterns []string) *Store {
	if len(patterns) == 0 {
		patterns = DefaultWorkPatterns
	}
	return &Store{workPatterns: patterns}
}

// Load scans every project directory under claudeDir/projects and returns
// one session per distinct working directory. When several records share a
// working directory the largest file wins, since active editing grows the
// record.
//
// Individual records that fail to parse are skipped; Load only fails when
// the projects directory itself cannot be read.
func (s *Store) Load(claudeDir string) ([]*models.Session, error) {
	projectsDir := filepath.Join(claudeDir, "projects")

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read projects dir: %w", err)
	}

	var all []*models.Session

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(projectsDir, entry.Name())

		files, err := os.ReadDir(projectDir)
		if err != nil {
			continue
		}

		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".jsonl" {
				continue
			}
			if strings.HasPrefix(f.Name(), ccsessions.AgentPrefix) {
				continue
			}

			session := s.loadRecord(filepath.Join(projectDir, f.Name()), entry.Name())
			if session != nil {
				all = append(all, session)
			}
		}
	}

	return dedupe(all), nil
}

// loadRecord parses one record file and applies the usefulness filters.
// Returns nil for records that should not surface.
func (s *Store) loadRecord(path, projectName string) *models.Session {
	parsed, err := ccsessions.ParseFile(path)
	if err != nil {
		return nil
	}

	if strings.HasPrefix(parsed.FirstMessage, noisePrefix) {
		return nil
	}
	if parsed.CWD == "" && parsed.FirstMessage == "" {
		return nil
	}
	if parsed.FileSize < minUsefulSize {
		return nil
	}

	slug := parsed.Slug
	if slug == "" {
		slug = parsed.SessionID
		if len(slug) > 8 {
			slug = slug[:8]
		}
	}

	session := &models.Session{
		ID:           parsed.SessionID,
		Slug:         slug,
		CWD:          parsed.CWD,
		ProjectPath:  projectName,
		Mtime:        parsed.FileMtime,
		ContextSize:  parsed.FileSize,
		Summary:      parsed.Summary,
		GitBranch:    parsed.GitBranch,
		Model:        parsed.Model,
		FirstMessage: parsed.FirstMessage,
		ContextStart: parsed.ContextStart,
		ContextEnd:   parsed.ContextEnd,
	}
	session.Category = s.Categorize(session)

	return session
}

// Categorize tags a session by matching the configured work patterns
// against its working directory and encoded project path.
func (s *Store) Categorize(session *models.Session) models.Category {
	text := strings.ToLower(session.CWD + " " + session.ProjectPath)
	for _, p := range s.workPatterns {
		if strings.Contains(text, strings.ToLower(p)) {
			return models.CategoryProfessional
		}
	}
	return models.CategoryPersonal
}

// dedupe keeps one session per working-directory key, preferring the record
// with the most content.
func dedupe(sessions []*models.Session) []*models.Session {
	byPath := make(map[string]*models.Session)
	var order []string

	for _, s := range sessions {
		key := s.CWD
		if key == "" {
			key = s.ProjectPath
		}
		existing, ok := byPath[key]
		if !ok {
			byPath[key] = s
			order = append(order, key)
			continue
		}
		if s.ContextSize > existing.ContextSize {
			byPath[key] = s
		}
	}

	result := make([]*models.Session, 0, len(byPath))
	for _, key := range order {
		result = append(result, byPath[key])
	}
	return result
}
