package config

import (
	"encoding/json"
	"log"
	"os"
)

type Config struct {
	App       AppConfig                 `json:"app"`
	Gateways  map[string]GatewayConfig  `json:"gateways"`
	Providers map[string]ProviderConfig `json:"providers"`
	Memory    MemoryConfig              `json:"memory"`
}

type AppConfig struct {
	Name       string `json:"name"`
	ScriptRoot string `json:"script_root"`
}

type GatewayConfig struct {
	Token   string `json:"token"`
	Enabled bool   `json:"enabled"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	Enabled bool   `json:"enabled"`
}

type MemoryConfig struct {
	Path string `json:"path"`
}

func LoadConfig(path string) *Config {
	var cfg Config

	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		// Running from environment variables alone is fine.
		log.Printf("config file %s not found, using environment", path)
	case err != nil:
		log.Fatalf("failed to open config file: %v", err)
	default:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			log.Fatalf("failed to decode config file: %v", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg
}

// applyEnv lets environment variables override the config file, so tokens
// never have to live on disk.
func (c *Config) applyEnv() {
	if c.Gateways == nil {
		c.Gateways = make(map[string]GatewayConfig)
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}

	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		gw := c.Gateways["discord"]
		gw.Token = token
		gw.Enabled = true
		c.Gateways["discord"] = gw
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		gw := c.Gateways["telegram"]
		gw.Token = token
		gw.Enabled = true
		c.Gateways["telegram"] = gw
	}

	ollama := c.Providers["ollama"]
	if url := os.Getenv("OLLAMA_API_URL"); url != "" {
		ollama.BaseURL = url
		ollama.Enabled = true
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		ollama.Model = model
		ollama.Enabled = true
	}
	if ollama != (ProviderConfig{}) {
		c.Providers["ollama"] = ollama
	}

	if dir := os.Getenv("SCRIPT_DIR"); dir != "" {
		c.App.ScriptRoot = dir
	}
}

func (c *Config) applyDefaults() {
	if c.App.ScriptRoot == "" {
		c.App.ScriptRoot = "./scripts"
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "./memory.db"
	}
	if p, ok := c.Providers["ollama"]; ok && p.BaseURL == "" {
		p.BaseURL = "http://localhost:11434"
		c.Providers["ollama"] = p
	}
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetDiscordConfig returns discord config if enabled
func (c *Config) GetDiscordConfig() (GatewayConfig, bool) {
	gw, ok := c.Gateways["discord"]
	if ok && gw.Enabled && gw.Token != "" {
		return gw, true
	}
	return GatewayConfig{}, false
}

// GetTelegramConfig returns telegram config if enabled
func (c *Config) GetTelegramConfig() (GatewayConfig, bool) {
	gw, ok := c.Gateways["telegram"]
	if ok && gw.Enabled && gw.Token != "" {
		return gw, true
	}
	return GatewayConfig{}, false
}
