package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TALK_SERVER_URL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("base_url = %q, want default", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 30 {
		t.Errorf("timeout = %d, want 30", cfg.Server.Timeout)
	}
	if cfg.Chat.Language != "english" {
		t.Errorf("language = %q, want english", cfg.Chat.Language)
	}
	if cfg.Watcher.Interval != 60 {
		t.Errorf("watcher interval = %d, want 60", cfg.Watcher.Interval)
	}
	if !cfg.UI.ColoredOutput {
		t.Error("colored_output should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	t.Setenv("TALK_SERVER_URL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `server:
  base_url: http://assistant.local:9000
watcher:
  interval: 120
  telegram:
    bot_token: "123:abc"
    chat_id: "42"
ui:
  colored_output: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "http://assistant.local:9000" {
		t.Errorf("base_url = %q, want file value", cfg.Server.BaseURL)
	}
	if cfg.Watcher.Interval != 120 {
		t.Errorf("watcher interval = %d, want 120", cfg.Watcher.Interval)
	}
	if cfg.Watcher.Telegram.BotToken != "123:abc" {
		t.Errorf("bot_token = %q, want file value", cfg.Watcher.Telegram.BotToken)
	}
	if cfg.UI.ColoredOutput {
		t.Error("colored_output should be overridden to false")
	}
	// Untouched sections keep defaults.
	if cfg.Chat.MaxHistory != 50 {
		t.Errorf("max_history = %d, want default 50", cfg.Chat.MaxHistory)
	}
}

func TestServerURLFromEnv(t *testing.T) {
	t.Setenv("TALK_SERVER_URL", "http://envhost:1234")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "http://envhost:1234" {
		t.Errorf("base_url = %q, want env value", cfg.Server.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base_url", func(c *Config) { c.Server.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero max_history", func(c *Config) { c.Chat.MaxHistory = 0 }},
		{"zero watcher interval", func(c *Config) { c.Watcher.Interval = 0 }},
	}

	t.Setenv("TALK_SERVER_URL", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got := expandPath("~/foo/bar")
	want := filepath.Join(home, "foo/bar")
	if got != want {
		t.Errorf("expandPath(~/foo/bar) = %q, want %q", got, want)
	}

	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path should pass through, got %q", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("empty path should pass through, got %q", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TALK_CHAT__MAX_HISTORY", "7")
	t.Setenv("TALK_LOG__LEVEL", "debug")
	t.Setenv("TALK_WATCHER__INTERVAL", "15")
	t.Setenv("TALK_SERVER_URL", "http://assistant.local:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chat.MaxHistory != 7 {
		t.Errorf("max_history = %d, want 7", cfg.Chat.MaxHistory)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Watcher.Interval != 15 {
		t.Errorf("watcher interval = %d, want 15", cfg.Watcher.Interval)
	}
	if cfg.Server.BaseURL != "http://assistant.local:9000" {
		t.Errorf("base_url = %q, want env override", cfg.Server.BaseURL)
	}
}
