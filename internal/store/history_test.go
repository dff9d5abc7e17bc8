package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	h, err := NewHistoryStore(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAddAndGetRecent(t *testing.T) {
	h := newTestStore(t)

	if err := h.AddMessage("1", "user", "first"); err != nil {
		t.Fatal(err)
	}
	if err := h.AddMessage("1", "assistant", "second"); err != nil {
		t.Fatal(err)
	}
	if err := h.AddMessage("2", "user", "other chat"); err != nil {
		t.Fatal(err)
	}

	recent, err := h.GetRecent("1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	// Chronological order
	if recent[0].Content != "first" || recent[1].Content != "second" {
		t.Errorf("entries out of order: %+v", recent)
	}
}

func TestTrimOnAppend(t *testing.T) {
	h := newTestStore(t)

	for i := 0; i < 30; i++ {
		if err := h.AddMessage("1", "user", fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := h.GetRecent("1", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != retainedMessages {
		t.Fatalf("expected %d retained entries, got %d", retainedMessages, len(recent))
	}
	// The oldest entries were trimmed, the newest kept.
	if recent[0].Content != "msg 10" {
		t.Errorf("unexpected oldest entry: %q", recent[0].Content)
	}
	if recent[len(recent)-1].Content != "msg 29" {
		t.Errorf("unexpected newest entry: %q", recent[len(recent)-1].Content)
	}
}

func TestClearIsScopedToChat(t *testing.T) {
	h := newTestStore(t)

	_ = h.AddMessage("1", "user", "mine")
	_ = h.AddMessage("2", "user", "theirs")

	if err := h.Clear("1"); err != nil {
		t.Fatal(err)
	}

	mine, _ := h.GetRecent("1", 10)
	theirs, _ := h.GetRecent("2", 10)
	if len(mine) != 0 {
		t.Errorf("chat 1 should be empty, got %d", len(mine))
	}
	if len(theirs) != 1 {
		t.Errorf("chat 2 should be untouched, got %d", len(theirs))
	}
}

func TestCountConversations(t *testing.T) {
	h := newTestStore(t)

	if n, _ := h.CountConversations(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}

	_ = h.AddMessage("1", "user", "a")
	_ = h.AddMessage("1", "assistant", "b")
	_ = h.AddMessage("2", "user", "c")

	n, err := h.CountConversations()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 conversations, got %d", n)
	}
}
