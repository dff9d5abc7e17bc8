package agent

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikhil/clawbot/internal/observability"
	"github.com/nikhil/clawbot/internal/tools"
)

// memorySink records everything an execution reports.
type memorySink struct {
	messages []string
	reports  []FinalReport
}

func (m *memorySink) Send(text string) error {
	m.messages = append(m.messages, text)
	return nil
}

func (m *memorySink) SendReport(rep FinalReport) error {
	m.reports = append(m.reports, rep)
	return nil
}

func (m *memorySink) all() string {
	return strings.Join(m.messages, "\n")
}

func newTestRegistry(t *testing.T) (*tools.Registry, *tools.ScriptRoot) {
	t.Helper()
	root, err := tools.NewScriptRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	reg := tools.NewRegistry()
	reg.Register(tools.NewShellTool())
	reg.Register(tools.NewWriteFileTool(root))
	reg.Register(tools.NewReadFileTool(root))
	reg.Register(tools.NewListFilesTool(root))
	return reg, root
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	reg, _ := newTestRegistry(t)
	e := NewExecutor(reg, observability.NewLoggerAt(filepath.Join(t.TempDir(), "llm.jsonl")))
	e.StepPause = 0
	return e
}

func TestExecutorWriteThenRead(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	plan := &Plan{
		Steps: []Step{
			{Action: "write_file", Params: map[string]string{"filepath": "a.txt", "content": "hi"}, Reason: "create file"},
			{Action: "read_file", Params: map[string]string{"filepath": "a.txt"}, Reason: "read it back"},
		},
	}

	report := e.Run(context.Background(), "chat", "task", plan, DefaultMaxSteps, sink)
	if report.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", report.Status)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[1].Content != "hi" {
		t.Errorf("expected read back %q, got %q", "hi", report.Results[1].Content)
	}
}

func TestExecutorAbortsOnFailure(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	plan := &Plan{
		Steps: []Step{
			{Action: "bogus_tool", Params: map[string]string{}},
			{Action: "write_file", Params: map[string]string{"filepath": "never.txt", "content": "x"}},
		},
	}

	report := e.Run(context.Background(), "chat", "task", plan, DefaultMaxSteps, sink)
	if report.Status != "aborted-at-step-0" {
		t.Fatalf("expected aborted-at-step-0, got %q", report.Status)
	}
	if len(report.Results) != 1 {
		t.Fatalf("later steps must not run after a failure, got %d results", len(report.Results))
	}
	if report.Results[0].Error != "unknown tool: bogus_tool" {
		t.Errorf("unexpected error: %q", report.Results[0].Error)
	}
	if !strings.Contains(sink.all(), "Step 1 failed") {
		t.Errorf("failure was not reported: %s", sink.all())
	}
}

func TestExecutorAbortMidPlan(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	plan := &Plan{
		Steps: []Step{
			{Action: "execute_command", Params: map[string]string{"command": "true"}},
			{Action: "read_file", Params: map[string]string{"filepath": "missing.txt"}},
			{Action: "execute_command", Params: map[string]string{"command": "echo never"}},
		},
	}

	report := e.Run(context.Background(), "chat", "task", plan, DefaultMaxSteps, sink)
	if report.Status != "aborted-at-step-1" {
		t.Fatalf("expected aborted-at-step-1, got %q", report.Status)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if strings.Contains(sink.all(), "never") {
		t.Error("step after the failure was dispatched")
	}
}

func TestExecutorEmptyPlan(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	report := e.Run(context.Background(), "chat", "task", &Plan{}, DefaultMaxSteps, sink)
	if report.Status != StatusCompleted {
		t.Errorf("empty plan should complete, got %q", report.Status)
	}
	if len(report.Results) != 0 {
		t.Errorf("empty plan should produce no results")
	}
}

func TestExecutorMaxStepsCap(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	var steps []Step
	for i := 0; i < 5; i++ {
		steps = append(steps, Step{Action: "execute_command", Params: map[string]string{"command": "true"}})
	}

	report := e.Run(context.Background(), "chat", "task", &Plan{Steps: steps}, 3, sink)
	if report.Status != StatusCompleted {
		t.Fatalf("capped plan is not a failure, got %q", report.Status)
	}
	if len(report.Results) != 3 {
		t.Errorf("expected 3 executed steps, got %d", len(report.Results))
	}
}

func TestExecutorEmitsFinalAnswer(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	plan := &Plan{
		Steps:       []Step{{Action: "execute_command", Params: map[string]string{"command": "true"}}},
		FinalAnswer: "everything worked",
	}

	e.Run(context.Background(), "chat", "task", plan, DefaultMaxSteps, sink)
	if !strings.Contains(sink.all(), "everything worked") {
		t.Errorf("final answer not reported: %s", sink.all())
	}
}

func TestExecutorProgressOrdering(t *testing.T) {
	e := newTestExecutor(t)
	sink := &memorySink{}

	plan := &Plan{
		Steps: []Step{
			{Action: "execute_command", Params: map[string]string{"command": "echo one"}},
			{Action: "execute_command", Params: map[string]string{"command": "echo two"}},
		},
	}

	e.Run(context.Background(), "chat", "task", plan, DefaultMaxSteps, sink)

	joined := sink.all()
	if strings.Index(joined, "Step 1") > strings.Index(joined, "Step 2") {
		t.Error("progress events out of order")
	}
	if strings.Index(joined, "one") > strings.Index(joined, "two") {
		t.Error("result previews out of order")
	}
}
