package agent

import (
	"context"
	"fmt"
	"strings"
)

// historyWindow is how many recent messages are folded into a chat prompt.
const historyWindow = 6

// Chat answers a free-form message with recent conversation context. This is
// plain conversation; no tools run and no plan is made.
func (a *Agent) Chat(ctx context.Context, chatID, message string) (string, error) {
	if err := a.History.AddMessage(chatID, "user", message); err != nil {
		return "", fmt.Errorf("failed to record message: %w", err)
	}

	prompt := message
	recent, err := a.History.GetRecent(chatID, historyWindow)
	if err == nil && len(recent) > 1 {
		var b strings.Builder
		b.WriteString("Previous conversation:\n")
		for _, m := range recent[:len(recent)-1] {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\nCurrent message: ")
		b.WriteString(message)
		prompt = b.String()
	}

	response, err := a.LLM.Chat(ctx, prompt, a.Prompts.GetChatPrompt())
	if err != nil {
		return "", err
	}

	if err := a.History.AddMessage(chatID, "assistant", response); err != nil {
		return "", fmt.Errorf("failed to record response: %w", err)
	}
	return response, nil
}

// ClearMemory drops the stored conversation for one chat.
func (a *Agent) ClearMemory(chatID string) error {
	return a.History.Clear(chatID)
}
