package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikhil/clawbot/internal/agent"
)

type TelegramGateway struct {
	Bot   *tgbotapi.BotAPI
	Agent *agent.Agent
	Info  BotInfo
}

func NewTelegramGateway(token string, ag *agent.Agent, info BotInfo) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:   bot,
		Agent: ag,
		Info:  info,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		content := update.Message.Text
		if !strings.HasPrefix(content, "!") && !strings.HasPrefix(content, "/") {
			continue
		}

		chatID := fmt.Sprintf("%d", update.Message.Chat.ID)
		command, rest, _ := strings.Cut(content[1:], " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "task":
			go tg.handleTask(chatID, rest)
		case "auto_execute":
			go tg.handleAutoExecute(chatID, rest)
		case "chat":
			go tg.handleChat(chatID, rest)
		case "clear":
			tg.handleClear(chatID)
		case "status":
			go tg.handleStatus(chatID)
		}
	}
	return nil
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := int64(0)
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = "Markdown" // Enable markdown for nicer progress messages
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}

func (tg *TelegramGateway) handleTask(chatID, task string) {
	if task == "" {
		_ = tg.Send(chatID, "Usage: !task <description>")
		return
	}
	sink := &telegramSink{gateway: tg, chatID: chatID}
	if _, err := tg.Agent.Execute(context.Background(), chatID, task, sink); err != nil {
		log.Printf("Task execution failed: %v", err)
	}
}

func (tg *TelegramGateway) handleAutoExecute(chatID, rest string) {
	language, task, _ := strings.Cut(rest, " ")
	task = strings.Trim(strings.TrimSpace(task), `"`)
	if language == "" || task == "" {
		_ = tg.Send(chatID, "Usage: !auto_execute <language> \"<description>\"")
		return
	}
	_ = tg.Send(chatID, fmt.Sprintf("🤖 Generating %s script...", language))

	sink := &telegramSink{gateway: tg, chatID: chatID}
	tg.Agent.AutoExecute(context.Background(), chatID, language, task, sink)
}

func (tg *TelegramGateway) handleChat(chatID, message string) {
	if message == "" {
		_ = tg.Send(chatID, "Usage: !chat <message>")
		return
	}
	response, err := tg.Agent.Chat(context.Background(), chatID, message)
	if err != nil {
		_ = tg.Send(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	_ = tg.Send(chatID, response)
}

func (tg *TelegramGateway) handleClear(chatID string) {
	if err := tg.Agent.ClearMemory(chatID); err != nil {
		_ = tg.Send(chatID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	_ = tg.Send(chatID, "✅ Conversation memory cleared!")
}

func (tg *TelegramGateway) handleStatus(chatID string) {
	var b strings.Builder
	b.WriteString("🔍 *Bot Status*\n\n")

	models, err := tg.Agent.LLM.ListModels(context.Background())
	if err != nil {
		fmt.Fprintf(&b, "Ollama: ❌ Cannot connect: %v\n", err)
	} else {
		if len(models) > 5 {
			models = models[:5]
		}
		fmt.Fprintf(&b, "Ollama: ✅ Connected\nModel: %s\nAvailable: %s\n", tg.Info.Model, strings.Join(models, ", "))
	}

	conversations, _ := tg.Agent.History.CountConversations()
	fmt.Fprintf(&b, "Script Directory: %s\nActive Conversations: %d", tg.Info.ScriptRoot, conversations)

	_ = tg.Send(chatID, b.String())
}

// telegramSink delivers progress messages and the final execution report to
// one chat as markdown text.
type telegramSink struct {
	gateway *TelegramGateway
	chatID  string
}

func (k *telegramSink) Send(text string) error {
	return k.gateway.Send(k.chatID, text)
}

func (k *telegramSink) SendReport(rep agent.FinalReport) error {
	var b strings.Builder
	b.WriteString("📊 *Execution Result*\n\n")
	fmt.Fprintf(&b, "Return Code: %d\nScript: `%s`\n", rep.ExitCode, rep.Artifact)
	if rep.Output != "" {
		fmt.Fprintf(&b, "Output:\n```\n%s\n```\n", rep.Output)
	} else {
		b.WriteString("Output: (no output)\n")
	}
	if rep.Errors != "" {
		fmt.Fprintf(&b, "Errors:\n```\n%s\n```", rep.Errors)
	}
	return k.gateway.Send(k.chatID, b.String())
}
