package summarize

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilberkman/claudeboss/internal/core/models"
)

// fakeGenerator scripts generation results and records invocations.
type fakeGenerator struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func newTestSummarizer(t *testing.T, gen Generator) *Summarizer {
	t.Helper()
	dir := t.TempDir()
	return NewSummarizer(
		OpenCache(filepath.Join(dir, "summary_cache.json")),
		OpenLogCache(filepath.Join(dir, "temporal_log_cache.json")),
		gen,
	)
}

func testSession(size int64) *models.Session {
	return &models.Session{
		ID:           "sess-1",
		ContextSize:  size,
		ContextStart: "asked to build a session browser",
		ContextEnd:   "the list view renders now",
	}
}

func TestSummarizeFresh(t *testing.T) {
	gen := &fakeGenerator{response: "Session Browser Backend"}
	s := newTestSummarizer(t, gen)

	got := s.Summarize(context.Background(), testSession(3000))
	if got != "Session Browser Backend" {
		t.Errorf("Summarize() = %q", got)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}

	// Second call with unchanged content is a cache hit.
	got = s.Summarize(context.Background(), testSession(3000))
	if got != "Session Browser Backend" || gen.calls != 1 {
		t.Errorf("cache hit: got %q after %d calls, want no new generation", got, gen.calls)
	}
}

func TestSummarizeEmptyExcerptsIsNoOp(t *testing.T) {
	gen := &fakeGenerator{response: "Should Not Happen"}
	s := newTestSummarizer(t, gen)

	got := s.Summarize(context.Background(), &models.Session{ID: "empty"})
	if got != "" {
		t.Errorf("Summarize() = %q, want empty", got)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls)
	}
}

func TestSummarizeGeneratorFailureLeavesBlank(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("tool missing")}
	s := newTestSummarizer(t, gen)

	if got := s.Summarize(context.Background(), testSession(3000)); got != "" {
		t.Errorf("Summarize() = %q, want empty on failure", got)
	}
	// Nothing cached for a failed generation.
	if got := s.CachedSummary("sess-1"); got != "" {
		t.Errorf("CachedSummary() = %q, want empty", got)
	}
}

func TestDeltaPolicyThreshold(t *testing.T) {
	tests := []struct {
		name      string
		growth    int64
		wantCalls int
		want      string
	}{
		{"below threshold keeps stale title", GrowthThreshold - 1, 0, "Old Title"},
		{"at threshold regenerates", GrowthThreshold, 1, "New Direction Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: "New Direction Title"}
			s := newTestSummarizer(t, gen)

			session := testSession(5000 + tt.growth)
			// Seed a stale entry: different fingerprint, size 5000.
			if err := s.cache.Put(session.ID, Entry{Hash: "0000000000000000", Size: 5000, Summary: "Old Title"}); err != nil {
				t.Fatal(err)
			}

			got := s.Summarize(context.Background(), session)
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
			if gen.calls != tt.wantCalls {
				t.Errorf("generator calls = %d, want %d", gen.calls, tt.wantCalls)
			}
		})
	}
}

func TestDeltaPromptCarriesOldTitleAndTailOnly(t *testing.T) {
	gen := &fakeGenerator{response: "Updated Title"}
	s := newTestSummarizer(t, gen)

	session := testSession(5000 + GrowthThreshold)
	if err := s.cache.Put(session.ID, Entry{Hash: "0000000000000000", Size: 5000, Summary: "Old Title"}); err != nil {
		t.Fatal(err)
	}

	s.Summarize(context.Background(), session)
	if len(gen.prompts) != 1 {
		t.Fatalf("generator calls = %d, want 1", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Old Title") {
		t.Error("delta prompt should include the previous title")
	}
	if !strings.Contains(prompt, session.ContextEnd) {
		t.Error("delta prompt should include the new tail excerpt")
	}
	if strings.Contains(prompt, session.ContextStart) {
		t.Error("delta prompt should not resend the start excerpt")
	}
}

func TestDeltaFailureRetainsOldSummary(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	s := newTestSummarizer(t, gen)

	session := testSession(5000 + GrowthThreshold)
	if err := s.cache.Put(session.ID, Entry{Hash: "0000000000000000", Size: 5000, Summary: "Old Title"}); err != nil {
		t.Fatal(err)
	}

	if got := s.Summarize(context.Background(), session); got != "Old Title" {
		t.Errorf("Summarize() = %q, want retained old title", got)
	}
}

func TestLegacyEntryUpgradedOnSummarize(t *testing.T) {
	gen := &fakeGenerator{response: "Should Not Be Called"}
	s := newTestSummarizer(t, gen)

	session := testSession(3000)
	if err := s.cache.Put(session.ID, Entry{Summary: "Legacy Title"}); err != nil {
		t.Fatal(err)
	}

	got := s.Summarize(context.Background(), session)
	if got != "Legacy Title" {
		t.Errorf("Summarize() = %q, want legacy text", got)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0 for legacy upgrade", gen.calls)
	}

	entry, _ := s.cache.Get(session.ID)
	want := Fingerprint(session.ContextStart + session.ContextEnd)
	if entry.Hash != want || entry.Size != session.ContextSize {
		t.Errorf("upgraded entry = %+v, want fingerprint %q and current size", entry, want)
	}
}

func TestTemporalLogCached(t *testing.T) {
	gen := &fakeGenerator{response: "[Initial] Asked for a browser\n[Current] Working list view"}
	s := newTestSummarizer(t, gen)

	session := testSession(3000)
	lines := s.TemporalLog(context.Background(), session)
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "[Initial]") {
		t.Fatalf("TemporalLog() = %v", lines)
	}

	// Second request with unchanged content hits the cache.
	s.TemporalLog(context.Background(), session)
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain title", "Milvus Database Size Check", "Milvus Database Size Check"},
		{"markdown stripped", "**GPU Passthrough** Setup", "Gpu Passthrough Setup"},
		{"last short line wins", "Here is the title:\nVPN Tunnel Audit", "Vpn Tunnel Audit"},
		{"word cap", "One Two Three Four Five Six Seven Eight", "One Two Three Four Five Six"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.raw); got != tt.want {
				t.Errorf("extractTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
