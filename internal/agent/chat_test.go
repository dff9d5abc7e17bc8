package agent

import (
	"context"
	"testing"
)

func TestChatStoresConversation(t *testing.T) {
	srv := fakeOllama(t, "hello back")
	ag, _ := newTestAgent(t, srv)

	response, err := ag.Chat(context.Background(), "42", "hello there")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if response != "hello back" {
		t.Errorf("unexpected response: %q", response)
	}

	recent, err := ag.History.GetRecent("42", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected user+assistant entries, got %d", len(recent))
	}
	if recent[0].Role != "user" || recent[0].Content != "hello there" {
		t.Errorf("unexpected first entry: %+v", recent[0])
	}
	if recent[1].Role != "assistant" || recent[1].Content != "hello back" {
		t.Errorf("unexpected second entry: %+v", recent[1])
	}
}

func TestClearMemory(t *testing.T) {
	srv := fakeOllama(t, "ok")
	ag, _ := newTestAgent(t, srv)

	if _, err := ag.Chat(context.Background(), "42", "remember me"); err != nil {
		t.Fatal(err)
	}
	if err := ag.ClearMemory("42"); err != nil {
		t.Fatal(err)
	}

	recent, err := ag.History.GetRecent("42", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty history, got %d entries", len(recent))
	}
}
