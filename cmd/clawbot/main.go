package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhil/clawbot/internal/agent"
	"github.com/nikhil/clawbot/internal/gateway"
	"github.com/nikhil/clawbot/internal/llm"
	"github.com/nikhil/clawbot/internal/observability"
	"github.com/nikhil/clawbot/internal/store"
	"github.com/nikhil/clawbot/internal/tools"
	"github.com/nikhil/clawbot/pkg/config"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg := config.LoadConfig("config.json")

	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}
	if pName != "ollama" {
		log.Fatalf("Provider %s not yet implemented", pName)
	}
	client := llm.NewClient(pCfg.BaseURL, pCfg.Model)

	root, err := tools.NewScriptRoot(cfg.App.ScriptRoot)
	if err != nil {
		log.Fatal(err)
	}

	registry := tools.NewRegistry()
	shellTool := tools.NewShellTool()
	registry.Register(shellTool)
	registry.Register(tools.NewWriteFileTool(root))
	registry.Register(tools.NewReadFileTool(root))
	registry.Register(tools.NewListFilesTool(root))

	history, err := store.NewHistoryStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer history.Close()

	prompts := agent.NewPromptManager("./prompts")
	logger := observability.NewLogger()

	ag := agent.New(client, registry, root, shellTool, history, prompts, logger)

	info := gateway.BotInfo{
		Model:      pCfg.Model,
		BaseURL:    pCfg.BaseURL,
		ScriptRoot: root.Dir,
	}

	var gw gateway.Messenger
	if dcCfg, ok := cfg.GetDiscordConfig(); ok {
		gw, err = gateway.NewDiscordGateway(dcCfg.Token, ag, info)
	} else if tgCfg, ok := cfg.GetTelegramConfig(); ok {
		gw, err = gateway.NewTelegramGateway(tgCfg.Token, ag, info)
	} else {
		log.Fatal("No gateway is enabled or token is missing")
	}
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Live Resource Dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	go func() {
		if err := gw.Start(); err != nil {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop() // stop caller if gateway dies
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	_ = gw.Stop()
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
