package agent

import (
	"fmt"

	"github.com/nikhil/clawbot/internal/tools"
)

// ProgressSink receives human-readable progress messages while a task runs,
// and one structured report when a generated script finishes. Send failures
// are the sink's problem; execution never stops because a message was lost.
type ProgressSink interface {
	Send(text string) error
	SendReport(rep FinalReport) error
}

// FinalReport describes the outcome of an executed script artifact.
type FinalReport struct {
	ExitCode int
	Artifact string
	Output   string
	Errors   string
}

// Terminal statuses of an ExecutionReport.
const (
	StatusCompleted = "completed"
	StatusFallback  = "plan-unparseable-fallback-used"
)

// StatusAborted names the zero-based step a plan aborted at.
func StatusAborted(step int) string {
	return fmt.Sprintf("aborted-at-step-%d", step)
}

// ExecutionReport is the ordered record of one orchestrator invocation.
type ExecutionReport struct {
	Results []tools.Result
	Status  string
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
