package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Data    DataConfig    `koanf:"data"`
	Chat    ChatConfig    `koanf:"chat"`
	TTS     TTSConfig     `koanf:"tts"`
	Weather WeatherConfig `koanf:"weather"`
	Watcher WatcherConfig `koanf:"watcher"`
	UI      UIConfig      `koanf:"ui"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig points the client at the assistant backend.
type ServerConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout int    `koanf:"timeout"` // seconds
}

// DataConfig locates the local data directory (settings database,
// chat history, synthesized audio).
type DataConfig struct {
	Dir string `koanf:"dir"`
}

type ChatConfig struct {
	Language     string `koanf:"language"`
	MaxHistory   int    `koanf:"max_history"`
	SaveHistory  bool   `koanf:"save_history"`
	HistoryFile  string `koanf:"history_file"`
	SpeakReplies bool   `koanf:"speak_replies"`
}

type TTSConfig struct {
	Player string `koanf:"player"` // empty = auto-detect (afplay, mpg123, mpv)
}

type WeatherConfig struct {
	Location string `koanf:"location"`
}

type WatcherConfig struct {
	Enabled  bool           `koanf:"enabled"`
	Interval int            `koanf:"interval"` // seconds
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
	Markdown      bool `koanf:"markdown"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// TALK_ vars map onto config paths with a double underscore as the
	// section separator, so key names keep their own underscores:
	// TALK_CHAT__MAX_HISTORY sets chat.max_history.
	if err := k.Load(env.Provider("TALK_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "TALK_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Handle TALK_SERVER_URL environment variable
	if serverURL := os.Getenv("TALK_SERVER_URL"); serverURL != "" {
		k.Set("server.base_url", serverURL)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Data.Dir = expandPath(cfg.Data.Dir)
	cfg.Chat.HistoryFile = expandPath(cfg.Chat.HistoryFile)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required (set TALK_SERVER_URL or add to config file)")
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}

	if c.Chat.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive")
	}

	if c.Watcher.Interval <= 0 {
		return fmt.Errorf("watcher interval must be positive")
	}

	return nil
}

// LocalDBPath returns the path of the settings database inside the data dir.
func (c *Config) LocalDBPath() string {
	return filepath.Join(c.Data.Dir, "local.db")
}

// SpeechDir returns the directory used for synthesized audio files.
func (c *Config) SpeechDir() string {
	return filepath.Join(c.Data.Dir, "speech")
}

// EnsureDataDir creates the data directory if it does not exist yet.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.Data.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
