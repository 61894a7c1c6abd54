package scheduler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chattalk/talk-cli/internal/reminder"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier pushes due-reminder digests through the Telegram Bot
// API so reminders reach the user even when the terminal is out of
// sight.
type TelegramNotifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegramNotifier creates a notifier for the configured bot and chat.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Notify sends one HTML digest covering all due reminders.
func (t *TelegramNotifier) Notify(due []reminder.Reminder) error {
	return t.send(formatDigest(due))
}

// formatDigest renders the due list as Telegram HTML. Titles and
// messages are user input and must be escaped.
func formatDigest(due []reminder.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>⏰ %d reminder(s) due</b>\n", len(due))
	for _, r := range due {
		fmt.Fprintf(&b, "\n• <b>%s</b>", html.EscapeString(r.Title))
		if r.Message != "" {
			fmt.Fprintf(&b, ": %s", html.EscapeString(r.Message))
		}
		if r.Priority == reminder.PriorityUrgent {
			b.WriteString(" ‼️")
		}
	}
	return b.String()
}

func (t *TelegramNotifier) send(text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)

	payload := telegramSendRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram request: %w", err)
	}

	resp, err := t.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read telegram response: %w", err)
	}

	var tgResp telegramResponse
	if err := json.Unmarshal(respBody, &tgResp); err != nil {
		return fmt.Errorf("failed to parse telegram response: %w", err)
	}

	if !tgResp.OK {
		return fmt.Errorf("telegram API error: %s", tgResp.Description)
	}

	return nil
}
