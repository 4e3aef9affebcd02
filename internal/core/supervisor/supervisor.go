// Package supervisor owns the canonical session collection and coordinates
// the background refresh tasks.
//
// Background workers never mutate sessions directly: they compute new field
// values and send them over a channel back to the supervisor loop, which
// applies them on its own turn. The summarizer and the liveness watcher
// each own a disjoint field (LastSummary and IsActive), the supervisor owns
// everything else.
package supervisor

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/neilberkman/claudeboss/internal/core/active"
	"github.com/neilberkman/claudeboss/internal/core/activity"
	"github.com/neilberkman/claudeboss/internal/core/models"
	"github.com/neilberkman/claudeboss/internal/core/store"
	"github.com/neilberkman/claudeboss/internal/core/summarize"
)

const (
	defaultLivenessInterval = 5 * time.Second
	defaultReloadDebounce   = 2 * time.Second
)

// Update carries a computed field value from a background worker back to
// the supervisor. Only the non-nil field is applied.
type Update struct {
	RequestID string // set for one-off regeneration jobs
	SessionID string
	Summary   *string
	Active    *bool
}

// Options tune the supervisor's background intervals. Zero values mean
// defaults.
type Options struct {
	LivenessInterval time.Duration
	ReloadDebounce   time.Duration
}

// Supervisor owns the session set and drives the background workers.
type Supervisor struct {
	claudeDir     string
	store         *store.Store
	correlator    *active.Correlator
	summarizer    *summarize.Summarizer
	reconstructor *activity.Reconstructor
	opts          Options

	mu       sync.RWMutex
	sessions []*models.Session

	updates  chan Update
	reloadCh chan struct{}

	runCtx     context.Context
	passCancel context.CancelFunc
}

// New creates a supervisor. Run must be called before the background
// behaviors take effect.
func New(claudeDir string, st *store.Store, corr *active.Correlator, summ *summarize.Summarizer, opts Options) *Supervisor {
	if opts.LivenessInterval <= 0 {
		opts.LivenessInterval = defaultLivenessInterval
	}
	if opts.ReloadDebounce <= 0 {
		opts.ReloadDebounce = defaultReloadDebounce
	}
	return &Supervisor{
		claudeDir:     claudeDir,
		store:         st,
		correlator:    corr,
		summarizer:    summ,
		reconstructor: activity.NewReconstructor(claudeDir),
		opts:          opts,
		updates:       make(chan Update, 64),
		reloadCh:      make(chan struct{}, 1),
	}
}

// Run loads the session set and processes background updates until ctx is
// cancelled. It blocks; callers run it in its own goroutine when they need
// to keep rendering.
func (s *Supervisor) Run(ctx context.Context) error {
	s.runCtx = ctx
	s.reload(ctx)

	go s.livenessLoop(ctx)

	watcher := s.startWatcher()
	if watcher != nil {
		defer watcher.Close()
	}

	debounce := time.NewTimer(s.opts.ReloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		var events chan fsnotify.Event
		if watcher != nil {
			events = watcher.Events
		}

		select {
		case <-ctx.Done():
			s.cancelPass()
			return ctx.Err()

		case u := <-s.updates:
			s.apply(u)

		case <-s.reloadCh:
			s.reload(ctx)

		case ev := <-events:
			if filepath.Ext(ev.Name) == ".jsonl" && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				debounce.Reset(s.opts.ReloadDebounce)
			}

		case <-debounce.C:
			s.reload(ctx)
		}
	}
}

// Sessions returns a snapshot of the current session list, newest first.
func (s *Supervisor) Sessions() []*models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Snapshot returns value copies of the current sessions, safe to read while
// background updates keep landing.
func (s *Supervisor) Snapshot() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = *sess
	}
	return out
}

// Session returns the session with the given id, or nil.
func (s *Supervisor) Session(id string) *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// Timeline reconstructs the activity timeline for one session on demand.
func (s *Supervisor) Timeline(id string) *activity.Timeline {
	sess := s.Session(id)
	if sess == nil {
		return &activity.Timeline{SessionID: id}
	}
	return s.reconstructor.Reconstruct(sess)
}

// TemporalLog returns the generated digest for one session, from cache or
// freshly generated.
func (s *Supervisor) TemporalLog(ctx context.Context, id string) []string {
	sess := s.Session(id)
	if sess == nil {
		return nil
	}
	return s.summarizer.TemporalLog(ctx, sess)
}

// Reload requests a wholesale rebuild of the session set. Non-blocking; a
// pending request is enough.
func (s *Supervisor) Reload() {
	select {
	case s.reloadCh <- struct{}{}:
	default:
	}
}

// Regenerate clears the cached summary for a session and spawns a one-off
// background regeneration. Fire-and-forget: the returned job id is for
// logging only and the caller does not wait.
func (s *Supervisor) Regenerate(id string) string {
	sess := s.Session(id)
	if sess == nil {
		return ""
	}

	s.summarizer.Invalidate(id)

	jobID := uuid.New().String()
	blank := ""
	s.send(Update{RequestID: jobID, SessionID: id, Summary: &blank})

	ctx := s.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		summary := s.summarizer.Summarize(ctx, sess)
		s.send(Update{RequestID: jobID, SessionID: id, Summary: &summary})
	}()

	return jobID
}

// reload rebuilds the session set from disk, pre-populates summaries from
// cache, and restarts the background summarization pass.
func (s *Supervisor) reload(ctx context.Context) {
	sessions, err := s.store.Load(s.claudeDir)
	if err != nil {
		log.Printf("session reload failed: %v", err)
		return
	}

	for _, sess := range sessions {
		sess.LastSummary = s.summarizer.CachedSummary(sess.ID)
	}
	models.SortByMtime(sessions)

	s.mu.Lock()
	s.sessions = sessions
	s.mu.Unlock()

	s.startSummarizePass(ctx)
}

// startSummarizePass cancels any in-flight pass and starts a new one over
// the sessions still lacking a summary, strictly in list order, one at a
// time.
func (s *Supervisor) startSummarizePass(ctx context.Context) {
	s.cancelPass()
	pctx, cancel := context.WithCancel(ctx)
	s.passCancel = cancel

	var pending []*models.Session
	s.mu.RLock()
	for _, sess := range s.sessions {
		if sess.LastSummary == "" {
			pending = append(pending, sess)
		}
	}
	s.mu.RUnlock()

	go func() {
		for _, sess := range pending {
			if pctx.Err() != nil {
				return
			}
			summary := s.summarizer.Summarize(pctx, sess)
			if summary == "" {
				continue
			}
			s.send(Update{SessionID: sess.ID, Summary: &summary})
		}
	}()
}

func (s *Supervisor) cancelPass() {
	if s.passCancel != nil {
		s.passCancel()
		s.passCancel = nil
	}
}

// livenessLoop performs a full OS-introspection pass on a fixed interval.
// The pass runs inline in this goroutine, so a slow tick delays the next
// one instead of overlapping it.
func (s *Supervisor) livenessLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.LivenessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		activeIDs := s.correlator.ActiveSessionIDs(ctx)
		for _, sess := range s.Sessions() {
			isActive := activeIDs[sess.ID]
			if isActive == sess.IsActive {
				continue
			}
			v := isActive
			s.send(Update{SessionID: sess.ID, Active: &v})
		}
	}
}

// apply writes a computed update into the owned session set.
func (s *Supervisor) apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID != u.SessionID {
			continue
		}
		if u.Summary != nil {
			sess.LastSummary = *u.Summary
		}
		if u.Active != nil {
			sess.IsActive = *u.Active
		}
		return
	}
}

func (s *Supervisor) send(u Update) {
	select {
	case s.updates <- u:
	case <-time.After(time.Second):
		// Supervisor loop is gone or wedged; drop the update, it will be
		// recomputed on the next pass.
	}
}

// startWatcher sets up auto-reload on project-root changes. Watching is
// advisory: any failure just disables it.
func (s *Supervisor) startWatcher() *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}

	projectsDir := filepath.Join(s.claudeDir, "projects")
	if err := watcher.Add(projectsDir); err != nil {
		watcher.Close()
		return nil
	}

	// Watch each project subdirectory too; record writes land there.
	if entries, err := os.ReadDir(projectsDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				_ = watcher.Add(filepath.Join(projectsDir, e.Name()))
			}
		}
	}

	return watcher
}
