package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultPlannerPrompt = `You are an autonomous AI agent that can execute tasks by breaking them down into steps.

For each task:
1. Break it down into clear steps
2. Use tools to accomplish each step
3. Verify results before proceeding
4. Report progress and final outcome

Format your response as JSON:
{
    "thinking": "Your reasoning about the task",
    "steps": [
        {
            "action": "tool_name",
            "params": {"param": "value"},
            "reason": "Why this step"
        }
    ],
    "final_answer": "Summary of what was accomplished"
}`

const defaultCoderPrompt = `Generate only %s code. No explanations, no markdown. Just the code.`

const defaultChatPrompt = `You are an intelligent AI assistant that can help users with programming, system tasks, and automation.
You have the ability to execute code and commands when asked. Be helpful, concise, and practical.`

// PromptManager loads system prompts from markdown files in a directory,
// falling back to compiled-in defaults when a file is missing.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

func (pm *PromptManager) load(name, fallback string) string {
	data, err := os.ReadFile(filepath.Join(pm.Directory, name))
	if err != nil {
		return fallback
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fallback
	}
	return text
}

// GetPlannerPrompt returns the planning system prompt. The caller appends
// the current tool catalog to it.
func (pm *PromptManager) GetPlannerPrompt() string {
	return pm.load("planner.md", defaultPlannerPrompt)
}

// GetCoderPrompt returns the code-generation system prompt for a language.
// The prompt file may reference the language with a %s verb.
func (pm *PromptManager) GetCoderPrompt(language string) string {
	tmpl := pm.load("coder.md", defaultCoderPrompt)
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, language)
	}
	return tmpl
}

// GetChatPrompt returns the conversational system prompt.
func (pm *PromptManager) GetChatPrompt() string {
	return pm.load("chat.md", defaultChatPrompt)
}
