package session

import (
	"testing"
	"time"

	"github.com/dgallion1/mindmapd/internal/outline"
	"github.com/dgallion1/mindmapd/internal/provider"
)

func mustOutline(t *testing.T, rootLabel string) *outline.Outline {
	t.Helper()
	o, err := outline.Parse(`{"name": "` + rootLabel + `", "children": [{"name": "Child"}]}`)
	if err != nil {
		t.Fatalf("parse outline: %v", err)
	}
	return o
}

func newTestSession() *Session {
	store := NewStore(time.Hour)
	return store.Create(provider.Config{Name: "gemini", APIKey: "secret"}, "English")
}

func TestSession_DrillDownPushesAndBackPops(t *testing.T) {
	sess := newTestSession()

	first := mustOutline(t, "Biology")
	sess.SetOutline(first)

	second := mustOutline(t, "Cells")
	sess.DrillDown(second)

	path := sess.Path()
	if len(path) != 2 || path[0] != "Biology" || path[1] != "Cells" {
		t.Errorf("expected path [Biology Cells], got %v", path)
	}

	restored, ok := sess.Back()
	if !ok {
		t.Fatal("expected Back to succeed")
	}
	if restored.Root().Label != "Biology" {
		t.Errorf("expected restored root Biology, got %q", restored.Root().Label)
	}
	if len(sess.Path()) != 1 {
		t.Errorf("expected path length 1 after back, got %v", sess.Path())
	}
}

func TestSession_BackOnEmptyStack(t *testing.T) {
	sess := newTestSession()
	sess.SetOutline(mustOutline(t, "Biology"))

	if _, ok := sess.Back(); ok {
		t.Error("expected Back to fail with empty stack")
	}
	// Current outline must be untouched.
	if sess.Outline().Root().Label != "Biology" {
		t.Error("expected current outline unchanged after failed Back")
	}
}

func TestSession_SetOutlineClearsStackAndSelection(t *testing.T) {
	sess := newTestSession()
	sess.SetOutline(mustOutline(t, "Biology"))
	sess.DrillDown(mustOutline(t, "Cells"))
	sess.Select("node-1", "cells detail")

	sess.SetOutline(mustOutline(t, "History"))

	snap := sess.Snapshot()
	if len(snap.Path) != 1 || snap.Path[0] != "History" {
		t.Errorf("expected path [History], got %v", snap.Path)
	}
	if snap.SelectedNodeID != "" || snap.Detail != "" {
		t.Error("expected selection cleared by new generation")
	}
}

func TestSession_ResetClearsStateKeepsConfig(t *testing.T) {
	sess := newTestSession()
	sess.SetOutline(mustOutline(t, "Biology"))
	sess.DrillDown(mustOutline(t, "Cells"))
	sess.Select("node-1", "detail text")

	sess.Reset()

	snap := sess.Snapshot()
	if snap.HasOutline {
		t.Error("expected no outline after reset")
	}
	if len(snap.Path) != 0 {
		t.Errorf("expected empty path after reset, got %v", snap.Path)
	}
	if snap.SelectedNodeID != "" || snap.Detail != "" {
		t.Error("expected selection cleared after reset")
	}

	cfg, lang := sess.ProviderConfig()
	if cfg.APIKey != "secret" {
		t.Error("expected API key kept after reset")
	}
	if lang != "English" {
		t.Errorf("expected language kept after reset, got %q", lang)
	}
}

func TestSession_BusyFlag(t *testing.T) {
	sess := newTestSession()

	if err := sess.TryBegin(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.TryBegin(); err != ErrBusy {
		t.Errorf("expected ErrBusy while request in flight, got %v", err)
	}
	sess.End()
	if err := sess.TryBegin(); err != nil {
		t.Errorf("expected TryBegin to succeed after End, got %v", err)
	}
}

func TestSession_SnapshotOmitsAPIKey(t *testing.T) {
	sess := newTestSession()
	snap := sess.Snapshot()
	if snap.Provider != "gemini" {
		t.Errorf("expected provider gemini, got %q", snap.Provider)
	}
	// Snapshot has no key field at all; verify the config is separate.
	cfg, _ := sess.ProviderConfig()
	if cfg.APIKey == "" {
		t.Error("expected config to retain the key internally")
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore(time.Hour)
	sess := store.Create(provider.Config{Name: "openai", APIKey: "k"}, "English")

	if got := store.Get(sess.ID); got != sess {
		t.Error("expected Get to return the created session")
	}
	if store.Get("missing") != nil {
		t.Error("expected nil for unknown session")
	}

	store.Delete(sess.ID)
	if store.Get(sess.ID) != nil {
		t.Error("expected session gone after delete")
	}
}

func TestStore_CleanupEvictsIdleSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	sess := store.Create(provider.Config{Name: "openai", APIKey: "k"}, "English")

	time.Sleep(25 * time.Millisecond)
	store.Cleanup()

	if store.Get(sess.ID) != nil {
		t.Error("expected idle session evicted")
	}
}

func TestStore_CleanupSparesBusySessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	sess := store.Create(provider.Config{Name: "openai", APIKey: "k"}, "English")
	if err := sess.TryBegin(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(25 * time.Millisecond)
	store.Cleanup()

	if store.Get(sess.ID) == nil {
		t.Error("expected busy session spared from eviction")
	}
}

func TestStore_SessionIDsAreUnique(t *testing.T) {
	store := NewStore(time.Hour)
	seen := map[string]bool{}
	for range 100 {
		sess := store.Create(provider.Config{Name: "gemini", APIKey: "k"}, "")
		if seen[sess.ID] {
			t.Fatalf("duplicate session ID %q", sess.ID)
		}
		seen[sess.ID] = true
	}
	if store.Len() != 100 {
		t.Errorf("expected 100 sessions, got %d", store.Len())
	}
}
