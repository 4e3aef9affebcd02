package summarize

import (
	"context"
	"time"

	"github.com/neilberkman/claudeboss/internal/core/models"
)

// GrowthThreshold is the minimum byte growth since the cached generation
// before a stale summary is worth regenerating. Below this the old title is
// still good enough to display, which avoids churn from trivial edits.
const GrowthThreshold = 10000

const (
	titleTimeout    = 30 * time.Second
	temporalTimeout = 60 * time.Second
)

// Summarizer decides when to reuse, refresh or regenerate session
// summaries. All generation failures degrade to keeping whatever text was
// already available; nothing propagates as an error.
type Summarizer struct {
	cache *Cache
	logs  *LogCache
	gen   Generator
}

// NewSummarizer creates a summarizer over the given caches and generator.
func NewSummarizer(cache *Cache, logs *LogCache, gen Generator) *Summarizer {
	return &Summarizer{cache: cache, logs: logs, gen: gen}
}

// CachedSummary returns the stored summary text for a session without any
// freshness check or generation. Used to pre-populate the list on startup.
func (s *Summarizer) CachedSummary(id string) string {
	entry, ok := s.cache.Get(id)
	if !ok {
		return ""
	}
	return entry.Summary
}

// Invalidate drops the cached summary for a session.
func (s *Summarizer) Invalidate(id string) {
	_ = s.cache.Delete(id)
}

// Summarize returns the display summary for a session, generating or
// regenerating as the cache policy requires. Sessions with no excerpt
// content yield an empty summary without a generation call.
func (s *Summarizer) Summarize(ctx context.Context, session *models.Session) string {
	if session.ContextStart == "" && session.ContextEnd == "" {
		return ""
	}

	hash := Fingerprint(session.ContextStart + session.ContextEnd)

	entry, ok := s.cache.Get(session.ID)
	if !ok {
		return s.generateFresh(ctx, session, hash)
	}

	// Legacy plain-string entry: upgrade in place on first read.
	if entry.Hash == "" {
		_ = s.cache.Put(session.ID, Entry{Hash: hash, Size: session.ContextSize, Summary: entry.Summary})
		return entry.Summary
	}

	// Content unchanged: cache hit, no generation call.
	if entry.Hash == hash {
		return entry.Summary
	}

	// Stale, but not grown enough to justify a regeneration.
	if session.ContextSize-entry.Size < GrowthThreshold {
		return entry.Summary
	}

	// Delta regeneration: old title plus only the new tail.
	title := extractTitle(s.generate(ctx, renderUpdatePrompt(entry.Summary, session.ContextEnd), titleTimeout))
	if title == "" {
		return entry.Summary
	}
	_ = s.cache.Put(session.ID, Entry{Hash: hash, Size: session.ContextSize, Summary: title})
	return title
}

func (s *Summarizer) generateFresh(ctx context.Context, session *models.Session, hash string) string {
	title := extractTitle(s.generate(ctx, renderTitlePrompt(session.ContextStart, session.ContextEnd), titleTimeout))
	if title == "" {
		return ""
	}
	_ = s.cache.Put(session.ID, Entry{Hash: hash, Size: session.ContextSize, Summary: title})
	return title
}

// TemporalLog returns the cached or freshly generated temporal digest for a
// session. An empty result means the generator was unavailable or the
// session has no excerpt content.
func (s *Summarizer) TemporalLog(ctx context.Context, session *models.Session) []string {
	if session.ContextStart == "" && session.ContextEnd == "" {
		return nil
	}

	key := session.ID + ":" + Fingerprint(session.ContextStart+session.ContextEnd)
	if lines, ok := s.logs.Get(key); ok {
		return lines
	}

	lines := parseTemporalLog(s.generate(ctx, renderTemporalPrompt(session.ContextStart, session.ContextEnd), temporalTimeout))
	if len(lines) == 0 {
		return nil
	}
	_ = s.logs.Put(key, lines)
	return lines
}

// generate runs the generator under a deadline and converts every failure
// into an empty string.
func (s *Summarizer) generate(ctx context.Context, prompt string, timeout time.Duration) string {
	if prompt == "" {
		return ""
	}
	gctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := s.gen.Generate(gctx, prompt)
	if err != nil {
		return ""
	}
	return text
}
