package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScriptRoot confines every file tool to one directory. Any relative or
// absolute path argument is joined beneath the root; the joined path must
// stay a descendant of the root.
type ScriptRoot struct {
	Dir string
}

func NewScriptRoot(dir string) (*ScriptRoot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create script root: %w", err)
	}
	return &ScriptRoot{Dir: abs}, nil
}

// Resolve joins p under the root and rejects escapes.
func (sr *ScriptRoot) Resolve(p string) (string, error) {
	target := filepath.Join(sr.Dir, p)
	rel, err := filepath.Rel(sr.Dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe path attempt: %s", p)
	}
	return target, nil
}

// WriteFileTool creates or overwrites a file beneath the script root.
type WriteFileTool struct {
	Root *ScriptRoot
}

func NewWriteFileTool(root *ScriptRoot) *WriteFileTool {
	return &WriteFileTool{Root: root}
}

func (w *WriteFileTool) Name() string {
	return "write_file"
}

func (w *WriteFileTool) Description() string {
	return "Create or overwrite a file in the workspace with the given content."
}

func (w *WriteFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filepath": map[string]any{
				"type":        "string",
				"description": "Path of the file, relative to the workspace",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The content to write",
			},
		},
		"required": []string{"filepath", "content"},
	}
}

func (w *WriteFileTool) Execute(ctx context.Context, params map[string]string) Result {
	path := params["filepath"]
	if path == "" {
		return Fail("missing required parameter: filepath")
	}

	target, err := w.Root.Resolve(path)
	if err != nil {
		return Fail("%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Fail("failed to create directory: %v", err)
	}
	if err := os.WriteFile(target, []byte(params["content"]), 0644); err != nil {
		return Fail("failed to write file: %v", err)
	}
	return Result{Success: true, Path: target}
}

// ReadFileTool reads a file beneath the script root.
type ReadFileTool struct {
	Root *ScriptRoot
}

func NewReadFileTool(root *ScriptRoot) *ReadFileTool {
	return &ReadFileTool{Root: root}
}

func (r *ReadFileTool) Name() string {
	return "read_file"
}

func (r *ReadFileTool) Description() string {
	return "Read the full content of a file in the workspace."
}

func (r *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filepath": map[string]any{
				"type":        "string",
				"description": "Path of the file, relative to the workspace",
			},
		},
		"required": []string{"filepath"},
	}
}

func (r *ReadFileTool) Execute(ctx context.Context, params map[string]string) Result {
	path := params["filepath"]
	if path == "" {
		return Fail("missing required parameter: filepath")
	}

	target, err := r.Root.Resolve(path)
	if err != nil {
		return Fail("%v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return Fail("failed to read file: %v", err)
	}
	return Result{Success: true, Content: string(data)}
}

// ListFilesTool lists the direct children of a directory beneath the root.
type ListFilesTool struct {
	Root *ScriptRoot
}

func NewListFilesTool(root *ScriptRoot) *ListFilesTool {
	return &ListFilesTool{Root: root}
}

func (l *ListFilesTool) Name() string {
	return "list_files"
}

func (l *ListFilesTool) Description() string {
	return "List the files in a workspace directory (non-recursive)."
}

func (l *ListFilesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"directory": map[string]any{
				"type":        "string",
				"description": "Directory to list, relative to the workspace. Defaults to '.'",
			},
		},
	}
}

func (l *ListFilesTool) Execute(ctx context.Context, params map[string]string) Result {
	dir := params["directory"]
	if dir == "" {
		dir = "."
	}

	target, err := l.Root.Resolve(dir)
	if err != nil {
		return Fail("%v", err)
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		return Fail("failed to list directory: %v", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.Name())
	}
	return Result{Success: true, Files: files}
}
