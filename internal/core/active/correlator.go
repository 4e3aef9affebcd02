// Package active infers which sessions belong to currently running Claude
// Code processes.
//
// There is no authoritative link between an OS process and a session record,
// so the correlation is heuristic: window titles and process trees narrow
// the search to working directories, and record file sizes pick the most
// plausible sessions within each directory. The result is advisory and the
// package never fails the caller.
package active

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/neilberkman/claudeboss/internal/core/paths"
	"github.com/neilberkman/claudeboss/pkg/ccsessions"
)

// introspectTimeout bounds every external process/window query.
const introspectTimeout = 5 * time.Second

// Window is one on-screen window as reported by the window manager.
type Window struct {
	Title string
	PID   int // owning terminal process
}

// ProcessLister answers questions about running processes.
type ProcessLister interface {
	// Instances returns the pids of running instances of program.
	Instances(ctx context.Context, program string) ([]int, error)
	// WorkingDir returns the current working directory of a process.
	WorkingDir(pid int) (string, error)
	// Command returns the short command name of a process.
	Command(pid int) (string, error)
}

// WindowLister answers questions about on-screen windows and process trees.
type WindowLister interface {
	// Windows returns all on-screen windows with their owning pids.
	Windows(ctx context.Context) ([]Window, error)
	// Descendants returns the pids in the process subtree rooted at pid,
	// including pid itself.
	Descendants(ctx context.Context, pid int) ([]int, error)
}

// Correlator resolves running processes to session identifiers.
type Correlator struct {
	projectsDir string
	program     string // target program name, e.g. "claude"
	marker      string // window title glyph marking the program's windows
	procs       ProcessLister
	windows     WindowLister
}

// NewCorrelator creates a correlator over the given claude data directory.
// windows may be nil when no window manager integration is available; the
// correlator then relies on the process-based fallback alone.
func NewCorrelator(claudeDir, program, marker string, procs ProcessLister, windows WindowLister) *Correlator {
	return &Correlator{
		projectsDir: filepath.Join(claudeDir, "projects"),
		program:     program,
		marker:      marker,
		procs:       procs,
		windows:     windows,
	}
}

// ActiveSessionIDs returns the identifiers of sessions believed to be
// currently open. Failures of any external tool yield an empty set, never
// an error.
func (c *Correlator) ActiveSessionIDs(ctx context.Context) map[string]bool {
	active := c.fromWindows(ctx)
	if len(active) == 0 {
		active = c.fromProcesses(ctx)
	}
	return active
}

// fromWindows is the primary tier: window titles carrying the marker glyph
// identify terminals hosting the program. Each terminal's process subtree is
// walked to find the program instance and read its working directory. When
// several terminals share a directory, the N largest records there are
// marked active, N being the number of live processes observed.
func (c *Correlator) fromWindows(ctx context.Context) map[string]bool {
	active := make(map[string]bool)
	if c.windows == nil {
		return active
	}

	wctx, cancel := context.WithTimeout(ctx, introspectTimeout)
	defer cancel()

	windows, err := c.windows.Windows(wctx)
	if err != nil {
		return active
	}

	cwdCounts := make(map[string]int)
	for _, win := range windows {
		if !strings.Contains(win.Title, c.marker) {
			continue
		}
		cwd, ok := c.programCWD(ctx, win.PID)
		if !ok {
			continue
		}
		cwdCounts[cwd]++
	}

	for cwd, count := range cwdCounts {
		dir := paths.FindProjectDir(c.projectsDir, cwd)
		if dir == "" {
			continue
		}
		ids := recordsBySize(dir)
		if len(ids) > count {
			ids = ids[:count]
		}
		for _, id := range ids {
			active[id] = true
		}
	}

	return active
}

// fromProcesses is the fallback tier: list program instances by name and
// mark the single largest record per distinct working directory.
func (c *Correlator) fromProcesses(ctx context.Context) map[string]bool {
	active := make(map[string]bool)

	pctx, cancel := context.WithTimeout(ctx, introspectTimeout)
	defer cancel()

	pids, err := c.procs.Instances(pctx, c.program)
	if err != nil {
		return active
	}

	cwds := make(map[string]bool)
	for _, pid := range pids {
		cwd, err := c.procs.WorkingDir(pid)
		if err != nil || cwd == "" {
			continue
		}
		cwds[cwd] = true
	}

	for cwd := range cwds {
		dir := paths.FindProjectDir(c.projectsDir, cwd)
		if dir == "" {
			continue
		}
		if ids := recordsBySize(dir); len(ids) > 0 {
			active[ids[0]] = true
		}
	}

	return active
}

// programCWD walks the process subtree under a terminal pid looking for the
// target program and returns its working directory.
func (c *Correlator) programCWD(ctx context.Context, terminalPID int) (string, bool) {
	dctx, cancel := context.WithTimeout(ctx, introspectTimeout)
	defer cancel()

	pids, err := c.windows.Descendants(dctx, terminalPID)
	if err != nil {
		return "", false
	}

	for _, pid := range pids {
		name, err := c.procs.Command(pid)
		if err != nil || name != c.program {
			continue
		}
		cwd, err := c.procs.WorkingDir(pid)
		if err != nil || cwd == "" {
			continue
		}
		return cwd, true
	}
	return "", false
}

// recordsBySize lists the non-agent record stems in a project directory,
// largest file first. Ties break by name so the order is stable.
func recordsBySize(projectDir string) []string {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil
	}

	type record struct {
		id   string
		size int64
	}
	var records []record

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		if strings.HasPrefix(e.Name(), ccsessions.AgentPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".jsonl")
		records = append(records, record{id: id, size: info.Size()})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].size != records[j].size {
			return records[i].size > records[j].size
		}
		return records[i].id < records[j].id
	})

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.id
	}
	return ids
}
