package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds a plan-step command when the caller's context
// carries no deadline of its own.
const DefaultCommandTimeout = 30 * time.Second

// ShellTool executes arbitrary shell commands. Commands run unsandboxed
// through `bash -c` with the process environment; this is a deliberate
// capability, see README.
type ShellTool struct {
	Timeout time.Duration
}

func NewShellTool() *ShellTool {
	return &ShellTool{Timeout: DefaultCommandTimeout}
}

func (s *ShellTool) Name() string {
	return "execute_command"
}

func (s *ShellTool) Description() string {
	return "Run a shell command and capture its output. Use with caution. Access to full shell environment."
}

func (s *ShellTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The shell command to execute",
			},
		},
		"required": []string{"command"},
	}
}

func (s *ShellTool) Execute(ctx context.Context, params map[string]string) Result {
	command := params["command"]
	if command == "" {
		return Fail("missing required parameter: command")
	}

	if _, ok := ctx.Deadline(); !ok && s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Invalid bytes are dropped rather than failing the step.
	out := strings.ToValidUTF8(stdout.String(), "")
	errOut := strings.ToValidUTF8(stderr.String(), "")

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Success: false, Output: out, ExitCode: -1, Error: "command timed out"}
	}

	if err != nil {
		res := Result{Success: false, Output: out, ExitCode: -1, Error: errOut}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if res.Error == "" {
			res.Error = err.Error()
		}
		return res
	}

	return Result{Success: true, Output: out, ExitCode: 0, Error: errOut}
}
