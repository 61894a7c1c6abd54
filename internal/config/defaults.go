package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"base_url": "http://localhost:8000",
			"timeout":  30,
		},
		"data": map[string]interface{}{
			"dir": "~/.talk-cli",
		},
		"chat": map[string]interface{}{
			"language":      "english",
			"max_history":   50,
			"save_history":  true,
			"history_file":  "~/.talk-cli/history.json",
			"speak_replies": false,
		},
		"tts": map[string]interface{}{
			"player": "",
		},
		"weather": map[string]interface{}{
			"location": "",
		},
		"watcher": map[string]interface{}{
			"enabled":  true,
			"interval": 60,
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"markdown":       true,
		},
		"log": map[string]interface{}{
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.talk-cli/config.yaml"
}
