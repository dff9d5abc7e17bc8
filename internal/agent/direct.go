package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikhil/clawbot/internal/llm"
	"github.com/nikhil/clawbot/internal/observability"
	"github.com/nikhil/clawbot/internal/tools"
)

// DefaultDirectTimeout bounds a generated script run, which tends to be a
// whole program rather than a single plan step.
const DefaultDirectTimeout = 60 * time.Second

var pythonHints = []string{"python", "script", "calculate"}

// DetectLanguage picks a target language for code generation from the task
// text. Keyword matching is coarse on purpose; callers that know better pass
// the language explicitly.
func DetectLanguage(task string) string {
	lower := strings.ToLower(task)
	for _, hint := range pythonHints {
		if strings.Contains(lower, hint) {
			return "python"
		}
	}
	return "bash"
}

// DirectExecutor is the one-shot "generate code, save it, run it" path. The
// orchestrator falls back to it when no structured plan can be parsed; the
// auto_execute command invokes it directly with an explicit language.
type DirectExecutor struct {
	LLM     *llm.Client
	Root    *tools.ScriptRoot
	Shell   *tools.ShellTool
	Prompts *PromptManager
	Logger  *observability.Logger
	Timeout time.Duration
}

func NewDirectExecutor(client *llm.Client, root *tools.ScriptRoot, shell *tools.ShellTool, prompts *PromptManager, logger *observability.Logger) *DirectExecutor {
	return &DirectExecutor{
		LLM:     client,
		Root:    root,
		Shell:   shell,
		Prompts: prompts,
		Logger:  logger,
		Timeout: DefaultDirectTimeout,
	}
}

// Run generates code for the task, persists it under the script root and
// executes it. An empty language means detect from the task text.
func (d *DirectExecutor) Run(ctx context.Context, chatID, taskID, task, language string, sink ProgressSink) ExecutionReport {
	report := ExecutionReport{Status: StatusFallback}

	if language == "" {
		language = DetectLanguage(task)
	}
	d.Logger.LogFallback(chatID, taskID, language)

	systemPrompt := d.Prompts.GetCoderPrompt(language)
	prompt := fmt.Sprintf("Write %s code to: %s", language, task)

	response, err := d.LLM.Chat(ctx, prompt, systemPrompt)
	if err != nil || response == "" {
		_ = sink.Send(fmt.Sprintf("❌ Code generation failed: %v", err))
		report.Results = append(report.Results, tools.Fail("code generation failed: %v", err))
		return report
	}

	code := StripFences(response)

	artifact := artifactName(language)
	path, err := d.saveScript(artifact, code, language)
	if err != nil {
		_ = sink.Send(fmt.Sprintf("❌ Failed to save script: %v", err))
		report.Results = append(report.Results, tools.Fail("failed to save script: %v", err))
		return report
	}

	_ = sink.Send(fmt.Sprintf("📝 Generated code:\n```%s\n%s\n```", language, truncate(code, 1000)))
	_ = sink.Send("⚡ Executing script...")

	interpreter := "bash"
	if language == "python" {
		interpreter = "python3"
	}

	runCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	result := d.Shell.Execute(runCtx, map[string]string{
		"command": interpreter + " " + path,
	})
	report.Results = append(report.Results, result)

	_ = sink.SendReport(FinalReport{
		ExitCode: result.ExitCode,
		Artifact: artifact,
		Output:   truncate(strings.TrimSpace(result.Output), 1000),
		Errors:   truncate(strings.TrimSpace(result.Error), 500),
	})

	return report
}

// StripFences drops a single leading and trailing fenced-code delimiter
// line, tolerating models that wrap their output in a markdown block.
// Interior fences are left alone.
func StripFences(response string) string {
	code := strings.TrimSpace(response)
	if !strings.HasPrefix(code, "```") {
		return code
	}
	lines := strings.Split(code, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// artifactName derives a collision-resistant script name: timestamp for
// humans, a short random suffix so concurrent tasks never clash.
func artifactName(language string) string {
	ext := "sh"
	if language == "python" {
		ext = "py"
	}
	stamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("task_%s_%s.%s", stamp, uuid.NewString()[:8], ext)
}

func (d *DirectExecutor) saveScript(name, code, language string) (string, error) {
	path, err := d.Root.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	mode := os.FileMode(0644)
	if language == "bash" {
		mode = 0755
	}
	if err := os.WriteFile(path, []byte(code), mode); err != nil {
		return "", err
	}
	return path, nil
}
