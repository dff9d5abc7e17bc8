package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikhil/clawbot/internal/llm"
	"github.com/nikhil/clawbot/internal/observability"
	"github.com/nikhil/clawbot/internal/store"
	"github.com/nikhil/clawbot/internal/tools"
)

// DefaultMaxSteps caps how many plan steps one task may consume.
const DefaultMaxSteps = 10

// Agent wires the reasoning client, the tool registry and both execution
// paths into one entry point per gateway command.
type Agent struct {
	LLM      *llm.Client
	Registry *tools.Registry
	History  *store.HistoryStore
	Prompts  *PromptManager
	Logger   *observability.Logger
	MaxSteps int

	executor *Executor
	direct   *DirectExecutor
}

func New(client *llm.Client, registry *tools.Registry, root *tools.ScriptRoot, shell *tools.ShellTool, history *store.HistoryStore, prompts *PromptManager, logger *observability.Logger) *Agent {
	return &Agent{
		LLM:      client,
		Registry: registry,
		History:  history,
		Prompts:  prompts,
		Logger:   logger,
		MaxSteps: DefaultMaxSteps,
		executor: NewExecutor(registry, logger),
		direct:   NewDirectExecutor(client, root, shell, prompts, logger),
	}
}

// Execute runs one task end to end: ask the model for a plan, then either
// execute the plan step by step or, when no plan can be parsed, fall back to
// direct code generation. Exactly one of the two paths runs. A reasoning
// failure is terminal and returns an error after notifying the sink.
func (a *Agent) Execute(ctx context.Context, chatID, task string, sink ProgressSink) (ExecutionReport, error) {
	taskID := uuid.NewString()
	observability.SetStage(observability.StagePlanning, task)
	defer observability.SetStage(observability.StageIdle, "")

	_ = sink.Send(fmt.Sprintf("🤖 **Starting agentic task execution...**\nTask: _%s_", task))

	systemPrompt := fmt.Sprintf("%s\n\nAvailable tools:\n%s", a.Prompts.GetPlannerPrompt(), a.Registry.Describe())
	prompt := fmt.Sprintf("Task: %s\n\nBreak this down into executable steps and provide them in JSON format.", task)

	response, err := a.LLM.Chat(ctx, prompt, systemPrompt)
	a.Logger.LogLLM(chatID, taskID, prompt, response)
	if err != nil || response == "" {
		if err == nil {
			err = errors.New("empty response from model")
		}
		_ = sink.Send(fmt.Sprintf("❌ Planning failed: %v", err))
		return ExecutionReport{}, fmt.Errorf("planning failed: %w", err)
	}

	plan, perr := ParsePlan(response)
	if perr != nil {
		_ = sink.Send("⚠️ Could not parse structured plan. Executing directly...")
		observability.SetStage(observability.StageFallback, task)
		return a.direct.Run(ctx, chatID, taskID, task, "", sink), nil
	}

	a.Logger.LogPlan(chatID, taskID, len(plan.Steps))
	if plan.Thinking != "" {
		_ = sink.Send("💭 **Thinking:** " + truncate(plan.Thinking, 500))
	}

	observability.SetStage(observability.StageExecuting, task)
	return a.executor.Run(ctx, chatID, taskID, plan, a.MaxSteps, sink), nil
}

// AutoExecute is the explicit-language variant of the direct path, exposed
// as its own gateway command.
func (a *Agent) AutoExecute(ctx context.Context, chatID, language, task string, sink ProgressSink) ExecutionReport {
	taskID := uuid.NewString()
	observability.SetStage(observability.StageFallback, task)
	defer observability.SetStage(observability.StageIdle, "")

	return a.direct.Run(ctx, chatID, taskID, task, language, sink)
}
