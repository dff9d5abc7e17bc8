package tools

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestShellSuccess(t *testing.T) {
	s := NewShellTool()
	res := s.Execute(context.Background(), map[string]string{"command": "echo hello"})
	if !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}
	if strings.TrimSpace(res.Output) != "hello" {
		t.Errorf("expected %q, got %q", "hello", res.Output)
	}
	if res.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", res.ExitCode)
	}
}

func TestShellNonZeroExit(t *testing.T) {
	s := NewShellTool()
	res := s.Execute(context.Background(), map[string]string{"command": "echo oops >&2; exit 3"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Error, "oops") {
		t.Errorf("expected stderr in error, got %q", res.Error)
	}
}

func TestShellTimeout(t *testing.T) {
	s := &ShellTool{Timeout: 100 * time.Millisecond}
	start := time.Now()
	res := s.Execute(context.Background(), map[string]string{"command": "sleep 5"})
	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(res.Error, "timed out") {
		t.Errorf("expected timeout error, got %q", res.Error)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("timeout did not bound the command")
	}
}

func TestShellCallerDeadlineWins(t *testing.T) {
	s := NewShellTool() // 30s default
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res := s.Execute(ctx, map[string]string{"command": "sleep 5"})
	if res.Success {
		t.Fatal("expected timeout failure")
	}
}

func TestShellMissingCommand(t *testing.T) {
	s := NewShellTool()
	res := s.Execute(context.Background(), map[string]string{})
	if res.Success {
		t.Fatal("expected failure for missing command")
	}
}
