package bridgestate

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDecision_TakeConsumesRecord(t *testing.T) {
	store := New(t.TempDir())

	if err := store.WriteDecision("ab12cd34", "allow"); err != nil {
		t.Fatalf("WriteDecision error: %v", err)
	}

	decision, ok := store.TakeDecision("ab12cd34")
	if !ok {
		t.Fatal("expected decision to be present")
	}
	if decision != "allow" {
		t.Fatalf("expected allow, got %q", decision)
	}

	if _, ok := store.TakeDecision("ab12cd34"); ok {
		t.Fatal("expected second take to observe absence")
	}
}

func TestDecision_DuplicatePressOverwrites(t *testing.T) {
	store := New(t.TempDir())

	if err := store.WriteDecision("req1", "allow"); err != nil {
		t.Fatalf("WriteDecision error: %v", err)
	}
	if err := store.WriteDecision("req1", "deny"); err != nil {
		t.Fatalf("WriteDecision overwrite error: %v", err)
	}

	decision, ok := store.TakeDecision("req1")
	if !ok || decision != "deny" {
		t.Fatalf("expected deny after overwrite, got %q ok=%v", decision, ok)
	}
	if store.PendingDecisions() != 0 {
		t.Fatalf("expected no pending decisions, got %d", store.PendingDecisions())
	}
}

func TestDecision_AbsentForUnknownRequest(t *testing.T) {
	store := New(t.TempDir())
	if _, ok := store.TakeDecision("nope"); ok {
		t.Fatal("expected absence for unknown request id")
	}
}

func TestRunningMarkerLifecycle(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "data"))

	if store.Running() {
		t.Fatal("expected bridge not running before marker")
	}
	if err := store.MarkRunning(); err != nil {
		t.Fatalf("MarkRunning error: %v", err)
	}
	if !store.Running() {
		t.Fatal("expected bridge running after marker")
	}

	store.ClearRunning()
	if store.Running() {
		t.Fatal("expected bridge stopped after clear")
	}

	// Clearing an already absent marker is fine.
	store.ClearRunning()
}

func TestPlanModeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if store.PlanMode() {
		t.Fatal("expected plan mode off by default")
	}
	if err := store.SetPlanMode(true); err != nil {
		t.Fatalf("SetPlanMode error: %v", err)
	}
	if !store.PlanMode() {
		t.Fatal("expected plan mode on")
	}

	// A fresh store over the same directory sees the persisted flag.
	if !New(dir).PlanMode() {
		t.Fatal("expected plan mode to persist across processes")
	}

	if err := store.SetPlanMode(false); err != nil {
		t.Fatalf("SetPlanMode error: %v", err)
	}
	if store.PlanMode() {
		t.Fatal("expected plan mode off again")
	}
}

func TestThinking_TakeRemovesIndicator(t *testing.T) {
	store := New(t.TempDir())

	if _, ok := store.TakeThinking(); ok {
		t.Fatal("expected no pending thinking notice")
	}

	if err := store.SetThinking(812); err != nil {
		t.Fatalf("SetThinking error: %v", err)
	}
	id, ok := store.TakeThinking()
	if !ok || id != 812 {
		t.Fatalf("expected message id 812, got %d ok=%v", id, ok)
	}
	if _, ok := store.TakeThinking(); ok {
		t.Fatal("expected thinking notice consumed")
	}
}

func TestLastSentKeyRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	if store.LastSentKey() != "" {
		t.Fatal("expected empty key before first publish")
	}
	if err := store.SetLastSentKey("hello world"); err != nil {
		t.Fatalf("SetLastSentKey error: %v", err)
	}
	if store.LastSentKey() != "hello world" {
		t.Fatalf("unexpected key: %q", store.LastSentKey())
	}
}

func TestResponseKey_PrefixAndTrim(t *testing.T) {
	long := strings.Repeat("a", 300)
	key := ResponseKey(long)
	if len(key) != 200 {
		t.Fatalf("expected 200-char prefix, got %d", len(key))
	}

	if got := ResponseKey("  short  "); got != "short" {
		t.Fatalf("expected trimmed key, got %q", got)
	}

	// Rune-safe: multi-byte text must not be cut mid-character.
	wide := strings.Repeat("字", 300)
	wideKey := ResponseKey(wide)
	if len([]rune(wideKey)) != 200 {
		t.Fatalf("expected 200 runes, got %d", len([]rune(wideKey)))
	}
}
