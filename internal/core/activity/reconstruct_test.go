package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilberkman/claudeboss/internal/core/models"
)

func TestSegmentation(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	items := []evidence{
		{at: base, text: "first"},
		{at: base.Add(5 * time.Minute), text: "second"},
		{at: base.Add(40 * time.Minute), text: "third"},
		{at: base.Add(41 * time.Minute), text: "fourth"},
	}

	periods := segment(items)
	if len(periods) != 2 {
		t.Fatalf("segment() produced %d periods, want 2", len(periods))
	}

	if !periods[0].Start.Equal(base) || !periods[0].End.Equal(base.Add(5*time.Minute)) {
		t.Errorf("first period = [%v, %v], want [t, t+5m]", periods[0].Start, periods[0].End)
	}
	if periods[0].MessageCount != 2 || periods[0].FirstMessage != "first" {
		t.Errorf("first period count=%d first=%q", periods[0].MessageCount, periods[0].FirstMessage)
	}
	if !periods[1].Start.Equal(base.Add(40*time.Minute)) || !periods[1].End.Equal(base.Add(41*time.Minute)) {
		t.Errorf("second period = [%v, %v], want [t+40m, t+41m]", periods[1].Start, periods[1].End)
	}
}

func TestSegmentationSingleItem(t *testing.T) {
	base := time.Now()
	periods := segment([]evidence{{at: base, text: "only"}})
	if len(periods) != 1 || periods[0].MessageCount != 1 {
		t.Fatalf("segment() = %v, want one single-item period", periods)
	}
	if periods[0].Duration() != 0 {
		t.Errorf("single-item period duration = %v, want 0", periods[0].Duration())
	}
}

func TestTimelineAggregates(t *testing.T) {
	d1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 3, 22, 0, 0, 0, time.UTC)
	tl := &Timeline{
		Periods: []Period{
			{Start: d1, End: d1.Add(30 * time.Minute)},
			{Start: d2, End: d2.Add(time.Hour)},
		},
		FirstActivity: d1,
		LastActivity:  d2.Add(time.Hour),
	}

	// Gaps between periods are excluded from the total.
	if got := tl.TotalDuration(); got != 90*time.Minute {
		t.Errorf("TotalDuration() = %v, want 90m", got)
	}
	// June 1, June 3 and (via the second period's end) June 3 again.
	if got := tl.ActiveDays(); got != 2 {
		t.Errorf("ActiveDays() = %v, want 2", got)
	}
	if tl.Span() <= tl.TotalDuration() {
		t.Errorf("Span() = %v should exceed active duration", tl.Span())
	}
}

func TestReconstructFromHistory(t *testing.T) {
	claudeDir := t.TempDir()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	history := fmt.Sprintf(
		`{"sessionId":"s1","timestamp":%d,"display":"asked about vfio binding"}`+"\n"+
			`{"project":"/home/user/proj/","timestamp":%d,"display":"follow-up"}`+"\n"+
			`{"sessionId":"other","timestamp":%d,"display":"different session"}`+"\n",
		base.UnixMilli(),
		base.Add(10*time.Minute).UnixMilli(),
		base.Add(20*time.Minute).UnixMilli(),
	)
	if err := os.WriteFile(filepath.Join(claudeDir, "history.jsonl"), []byte(history), 0644); err != nil {
		t.Fatal(err)
	}

	session := &models.Session{ID: "s1", CWD: "/home/user/proj", ProjectPath: "home-user-proj"}
	tl := NewReconstructor(claudeDir).Reconstruct(session)

	// Both the id match and the trailing-slash-normalized project match
	// count; the unrelated session does not.
	if tl.TotalMessages != 2 {
		t.Fatalf("TotalMessages = %d, want 2", tl.TotalMessages)
	}
	if len(tl.Periods) != 1 {
		t.Fatalf("Periods = %d, want 1", len(tl.Periods))
	}
	if tl.Periods[0].FirstMessage != "asked about vfio binding" {
		t.Errorf("FirstMessage = %q", tl.Periods[0].FirstMessage)
	}
}

func TestReconstructDebugLogAndMtime(t *testing.T) {
	claudeDir := t.TempDir()
	debugDir := filepath.Join(claudeDir, "debug")
	if err := os.MkdirAll(debugDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(debugDir, "s1.txt"), []byte("log"), 0644); err != nil {
		t.Fatal(err)
	}

	projectDir := filepath.Join(claudeDir, "projects", "home-user-proj")
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, "s1.jsonl"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	// Push the record mtime well past the debug log evidence.
	future := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(filepath.Join(projectDir, "s1.jsonl"), future, future); err != nil {
		t.Fatal(err)
	}

	session := &models.Session{ID: "s1", CWD: "/home/user/proj", ProjectPath: "home-user-proj"}
	tl := NewReconstructor(claudeDir).Reconstruct(session)

	if tl.TotalMessages == 0 {
		t.Fatal("expected evidence from debug log")
	}

	last := tl.Periods[len(tl.Periods)-1]
	if last.FirstMessage != "[session file modified]" && tl.TotalMessages < 2 {
		t.Errorf("expected the record mtime to contribute as the latest evidence")
	}
	if !tl.LastActivity.After(time.Now().Add(time.Hour)) {
		t.Errorf("LastActivity = %v, want the future record mtime", tl.LastActivity)
	}
}

func TestReconstructNoEvidence(t *testing.T) {
	session := &models.Session{ID: "ghost", CWD: "/nowhere", ProjectPath: "nowhere"}
	tl := NewReconstructor(t.TempDir()).Reconstruct(session)

	if len(tl.Periods) != 0 || tl.TotalMessages != 0 {
		t.Errorf("Reconstruct() = %+v, want empty timeline", tl)
	}
	if !tl.FirstActivity.IsZero() {
		t.Errorf("FirstActivity should be zero for empty timeline")
	}
}
