package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/nikhil/clawbot/internal/agent"
)

// discordMessageLimit is Discord's hard cap per message; longer responses
// are chunked.
const discordMessageLimit = 2000

type DiscordGateway struct {
	Session *discordgo.Session
	Agent   *agent.Agent
	Info    BotInfo

	stop chan struct{}
}

func NewDiscordGateway(token string, ag *agent.Agent, info BotInfo) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	gw := &DiscordGateway{
		Session: session,
		Agent:   ag,
		Info:    info,
		stop:    make(chan struct{}),
	}
	session.AddHandler(gw.onMessage)
	return gw, nil
}

func (d *DiscordGateway) Start() error {
	if err := d.Session.Open(); err != nil {
		return err
	}
	log.Printf("Logged in as %s", d.Session.State.User.Username)

	<-d.stop
	return nil
}

func (d *DiscordGateway) Send(chatID string, text string) error {
	for _, chunk := range chunkMessage(text, discordMessageLimit) {
		if _, err := d.Session.ChannelMessageSend(chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiscordGateway) Stop() error {
	close(d.stop)
	return d.Session.Close()
}

func (d *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, "!") {
		return
	}

	command, rest, _ := strings.Cut(strings.TrimPrefix(m.Content, "!"), " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "task":
		go d.handleTask(m.ChannelID, rest)
	case "auto_execute":
		go d.handleAutoExecute(m.ChannelID, rest)
	case "chat":
		go d.handleChat(m.ChannelID, rest)
	case "clear":
		d.handleClear(m.ChannelID)
	case "status":
		go d.handleStatus(m.ChannelID)
	case "info":
		d.handleInfo(m.ChannelID)
	}
}

func (d *DiscordGateway) handleTask(channelID, task string) {
	if task == "" {
		_ = d.Send(channelID, "Usage: `!task <description>`")
		return
	}
	_ = d.Session.ChannelTyping(channelID)

	sink := &discordSink{gateway: d, channelID: channelID}
	if _, err := d.Agent.Execute(context.Background(), channelID, task, sink); err != nil {
		log.Printf("Task execution failed: %v", err)
	}
}

func (d *DiscordGateway) handleAutoExecute(channelID, rest string) {
	language, task, _ := strings.Cut(rest, " ")
	task = strings.Trim(strings.TrimSpace(task), `"`)
	if language == "" || task == "" {
		_ = d.Send(channelID, "Usage: `!auto_execute <language> \"<description>\"`")
		return
	}
	_ = d.Session.ChannelTyping(channelID)
	_ = d.Send(channelID, fmt.Sprintf("🤖 Generating %s script...", language))

	sink := &discordSink{gateway: d, channelID: channelID}
	d.Agent.AutoExecute(context.Background(), channelID, language, task, sink)
}

func (d *DiscordGateway) handleChat(channelID, message string) {
	if message == "" {
		_ = d.Send(channelID, "Usage: `!chat <message>`")
		return
	}
	_ = d.Session.ChannelTyping(channelID)

	response, err := d.Agent.Chat(context.Background(), channelID, message)
	if err != nil {
		_ = d.Send(channelID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	_ = d.Send(channelID, response)
}

func (d *DiscordGateway) handleClear(channelID string) {
	if err := d.Agent.ClearMemory(channelID); err != nil {
		_ = d.Send(channelID, fmt.Sprintf("❌ Error: %v", err))
		return
	}
	_ = d.Send(channelID, "✅ Conversation memory cleared!")
}

func (d *DiscordGateway) handleStatus(channelID string) {
	embed := &discordgo.MessageEmbed{
		Title: "🔍 Bot Status",
		Color: 0x3498db,
	}

	models, err := d.Agent.LLM.ListModels(context.Background())
	if err != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Ollama Status", Value: fmt.Sprintf("❌ Cannot connect: %v", err),
		})
	} else {
		if len(models) > 5 {
			models = models[:5]
		}
		available := strings.Join(models, ", ")
		if available == "" {
			available = "None"
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Ollama Status", Value: "✅ Connected"},
			&discordgo.MessageEmbedField{Name: "Current Model", Value: d.Info.Model},
			&discordgo.MessageEmbedField{Name: "Available Models", Value: available},
		)
	}

	conversations, _ := d.Agent.History.CountConversations()
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Script Directory", Value: d.Info.ScriptRoot},
		&discordgo.MessageEmbedField{Name: "Active Conversations", Value: fmt.Sprintf("%d", conversations)},
	)

	_, _ = d.Session.ChannelMessageSendEmbed(channelID, embed)
}

func (d *DiscordGateway) handleInfo(channelID string) {
	embed := &discordgo.MessageEmbed{
		Title:       "🤖 Clawbot",
		Description: "Autonomous AI agent with multi-step reasoning and tool use",
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🧠 Commands",
				Value: "`!task <description>` - Multi-step autonomous task execution\n" +
					"`!chat <message>` - Conversational AI with memory\n" +
					"`!auto_execute <lang> \"<desc>\"` - Direct code execution\n" +
					"`!clear` - Clear conversation memory\n" +
					"`!status` - Check bot and model status",
			},
			{
				Name: "🛠️ Available Tools",
				Value: "• Execute shell commands\n" +
					"• Read/write files\n" +
					"• List directories",
			},
			{
				Name: "📝 Examples",
				Value: "`!task Create a backup of all Python files in this directory`\n" +
					"`!chat What tasks can you help me automate?`\n" +
					"`!auto_execute python \"Calculate fibonacci numbers\"`",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Powered by Ollama"},
	}
	_, _ = d.Session.ChannelMessageSendEmbed(channelID, embed)
}

// discordSink delivers progress messages and the final execution report to
// one channel.
type discordSink struct {
	gateway   *DiscordGateway
	channelID string
}

func (k *discordSink) Send(text string) error {
	return k.gateway.Send(k.channelID, text)
}

func (k *discordSink) SendReport(rep agent.FinalReport) error {
	color := 0x2ecc71
	if rep.ExitCode != 0 {
		color = 0xe74c3c
	}

	output := rep.Output
	if output == "" {
		output = "*(no output)*"
	} else {
		output = fmt.Sprintf("```\n%s\n```", output)
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Execution Result",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Return Code", Value: fmt.Sprintf("%d", rep.ExitCode), Inline: true},
			{Name: "Script", Value: fmt.Sprintf("`%s`", rep.Artifact), Inline: true},
			{Name: "Output", Value: output},
		},
	}
	if rep.Errors != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Errors", Value: fmt.Sprintf("```\n%s\n```", rep.Errors),
		})
	}

	_, err := k.gateway.Session.ChannelMessageSendEmbed(k.channelID, embed)
	return err
}

func chunkMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		chunks = append(chunks, text[:limit])
		text = text[limit:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
