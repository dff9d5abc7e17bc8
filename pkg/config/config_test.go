package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"app": {"name": "clawbot", "script_root": "/tmp/scripts"},
		"gateways": {"discord": {"token": "abc", "enabled": true}},
		"providers": {"ollama": {"base_url": "http://host:11434", "model": "llama3", "enabled": true}},
		"memory": {"path": "/tmp/mem.db"}
	}`)

	cfg := LoadConfig(path)

	if cfg.App.ScriptRoot != "/tmp/scripts" {
		t.Errorf("unexpected script root: %q", cfg.App.ScriptRoot)
	}

	gw, ok := cfg.GetDiscordConfig()
	if !ok || gw.Token != "abc" {
		t.Errorf("discord config not loaded: %+v", gw)
	}
	if _, ok := cfg.GetTelegramConfig(); ok {
		t.Error("telegram should not be enabled")
	}

	name, p := cfg.GetDefaultProvider()
	if name != "ollama" || p.Model != "llama3" {
		t.Errorf("unexpected provider: %s %+v", name, p)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("OLLAMA_API_URL", "http://env:11434")
	t.Setenv("OLLAMA_MODEL", "env-model")
	t.Setenv("SCRIPT_DIR", "/env/scripts")

	path := writeConfig(t, `{}`)
	cfg := LoadConfig(path)

	gw, ok := cfg.GetDiscordConfig()
	if !ok || gw.Token != "env-token" {
		t.Errorf("env token not applied: %+v", gw)
	}

	name, p := cfg.GetDefaultProvider()
	if name != "ollama" || p.BaseURL != "http://env:11434" || p.Model != "env-model" {
		t.Errorf("env provider not applied: %s %+v", name, p)
	}
	if cfg.App.ScriptRoot != "/env/scripts" {
		t.Errorf("env script dir not applied: %q", cfg.App.ScriptRoot)
	}
}

func TestMissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("OLLAMA_MODEL", "env-model")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	name, p := cfg.GetDefaultProvider()
	if name != "ollama" || p.Model != "env-model" {
		t.Errorf("expected env-only provider, got %s %+v", name, p)
	}
	if p.BaseURL != "http://localhost:11434" {
		t.Errorf("default base url missing: %q", p.BaseURL)
	}
}

func TestDefaults(t *testing.T) {
	path := writeConfig(t, `{"providers": {"ollama": {"model": "llama3", "enabled": true}}}`)
	cfg := LoadConfig(path)

	if cfg.App.ScriptRoot != "./scripts" {
		t.Errorf("default script root missing: %q", cfg.App.ScriptRoot)
	}
	if cfg.Memory.Path != "./memory.db" {
		t.Errorf("default memory path missing: %q", cfg.Memory.Path)
	}
	_, p := cfg.GetDefaultProvider()
	if p.BaseURL != "http://localhost:11434" {
		t.Errorf("default base url missing: %q", p.BaseURL)
	}
}
