package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Tool defines the interface for all agent capabilities.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema for the tool's inputs
	Execute(ctx context.Context, params map[string]string) Result
}

// Result is the outcome of one tool dispatch. Exactly one payload field is
// populated depending on the tool kind: Output for execute_command, Content
// for read_file, Path for write_file, Files for list_files. Results are
// never mutated after creation.
type Result struct {
	Success  bool     `json:"success"`
	Output   string   `json:"output,omitempty"`
	Content  string   `json:"content,omitempty"`
	Path     string   `json:"path,omitempty"`
	Files    []string `json:"files,omitempty"`
	ExitCode int      `json:"exit_code,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Preview returns a display form of the result payload, truncated to max bytes.
func (r Result) Preview(max int) string {
	var s string
	switch {
	case r.Output != "":
		s = r.Output
	case r.Content != "":
		s = r.Content
	case r.Files != nil:
		s = strings.Join(r.Files, "\n")
	case r.Path != "":
		s = r.Path
	default:
		s = "Success"
	}
	if max > 0 && len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

// Fail builds a failed result from an error message.
func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

// Dispatch routes an action name to its tool. Unknown actions fail without
// touching the filesystem or spawning anything.
func (r *Registry) Dispatch(ctx context.Context, action string, params map[string]string) Result {
	t := r.Get(action)
	if t == nil {
		return Fail("unknown tool: %s", action)
	}
	return t.Execute(ctx, params)
}

// Describe returns one line per registered tool, sorted by name, for
// building planner prompts.
func (r *Registry) Describe() string {
	names := make([]string, 0, len(r.Tools))
	for name := range r.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		t := r.Tools[name]
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(lines, "\n")
}
