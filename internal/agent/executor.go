package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhil/clawbot/internal/observability"
	"github.com/nikhil/clawbot/internal/tools"
)

const previewLimit = 500

// Executor runs the steps of a validated plan strictly in order, dispatching
// each through the tool registry and stopping at the first failure.
type Executor struct {
	Registry *tools.Registry
	Logger   *observability.Logger

	// StepPause rate-limits progress reporting between steps. Ordering is
	// the contract; the pause is not.
	StepPause time.Duration
}

func NewExecutor(registry *tools.Registry, logger *observability.Logger) *Executor {
	return &Executor{
		Registry:  registry,
		Logger:    logger,
		StepPause: 500 * time.Millisecond,
	}
}

// Run executes at most maxSteps steps of the plan. Steps beyond the cap are
// silently skipped; a step failure aborts everything after it. A plan with
// no steps completes with an empty report.
func (e *Executor) Run(ctx context.Context, chatID, taskID string, plan *Plan, maxSteps int, sink ProgressSink) ExecutionReport {
	report := ExecutionReport{Status: StatusCompleted}

	n := len(plan.Steps)
	if maxSteps >= 0 && n > maxSteps {
		n = maxSteps
	}

	if n == 0 {
		_ = sink.Send("⚠️ No executable steps found in plan")
	}

	for i := 0; i < n; i++ {
		step := plan.Steps[i]

		_ = sink.Send(fmt.Sprintf("**Step %d:** %s\n`%s(%v)`", i+1, step.Reason, step.Action, step.Params))
		e.Logger.LogToolCall(chatID, taskID, step.Action, step.Params)

		result := e.Registry.Dispatch(ctx, step.Action, step.Params)
		report.Results = append(report.Results, result)
		e.Logger.LogToolResult(chatID, taskID, step.Action, result.Success, result.Error)

		if !result.Success {
			errText := result.Error
			if errText == "" {
				errText = "Unknown error"
			}
			_ = sink.Send(fmt.Sprintf("❌ Step %d failed: %s", i+1, errText))
			report.Status = StatusAborted(i)
			break
		}

		_ = sink.Send(fmt.Sprintf("✅ Step %d completed\n```\n%s\n```", i+1, result.Preview(previewLimit)))

		if e.StepPause > 0 {
			time.Sleep(e.StepPause)
		}
	}

	if plan.FinalAnswer != "" {
		_ = sink.Send("🎯 **Final Result:**\n" + plan.FinalAnswer)
	}

	return report
}
