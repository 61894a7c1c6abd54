package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/chat"
	"github.com/chattalk/talk-cli/internal/config"
	"github.com/chattalk/talk-cli/internal/prefs"
	"github.com/chattalk/talk-cli/internal/reminder"
	"github.com/chattalk/talk-cli/internal/session"
	"github.com/chattalk/talk-cli/internal/tts"
	"github.com/chattalk/talk-cli/internal/ui"
	"github.com/chattalk/talk-cli/internal/weather"
)

// Components are the service objects the REPL drives. They are built in
// main and injected here, so nothing in this package ever constructs
// shared state of its own.
type Components struct {
	Config    *config.Config
	API       *api.Client
	Formatter *ui.Formatter
	Renderer  *chat.Renderer
	Chat      *chat.Session
	Auth      *session.Client
	Theme     *prefs.ThemeManager
	Voice     *prefs.VoiceManager
	Reminders *reminder.Client
	TTS       *tts.Client
	Player    *tts.Player
	Weather   *weather.Service
}

type REPL struct {
	config    *config.Config
	api       *api.Client
	formatter *ui.Formatter
	renderer  *chat.Renderer
	chat      *chat.Session
	auth      *session.Client
	theme     *prefs.ThemeManager
	voice     *prefs.VoiceManager
	reminders *reminder.Client
	tts       *tts.Client
	player    *tts.Player
	weather   *weather.Service

	rl      *readline.Instance
	status  *ui.StatusDisplay
	spinner *ui.Spinner
	prompt  string
}

func NewREPL(c Components) (*REPL, error) {
	r := &REPL{
		config:    c.Config,
		api:       c.API,
		formatter: c.Formatter,
		renderer:  c.Renderer,
		chat:      c.Chat,
		auth:      c.Auth,
		theme:     c.Theme,
		voice:     c.Voice,
		reminders: c.Reminders,
		tts:       c.TTS,
		player:    c.Player,
		weather:   c.Weather,
	}

	r.prompt = r.formatter.FormatPrompt(r.username())

	rl, err := setupReadline(r.prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}
	r.rl = rl
	r.status = ui.NewStatusDisplay(r.formatter, true)
	r.spinner = ui.NewSpinner(r.config.UI.ColoredOutput)

	// The auth listener only rewires presentation: the prompt shows
	// who is logged in.
	r.auth.OnChange(func(authenticated bool, user *api.User) {
		r.refreshPrompt()
	})

	return r, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if isCommand {
			if err := r.handleCommand(ctx, command, args); err != nil {
				r.displayError(err)
			}

			if command == "/quit" || command == "/exit" || command == "/q" {
				return nil
			}

			continue
		}

		if err := r.handleMessage(ctx, input); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		fmt.Print(r.formatter.FormatHelp())
		return nil

	case "/status":
		return r.handleStatus(ctx)

	case "/clear", "/c":
		r.chat.Clear()
		r.displaySystem("Conversation transcript cleared.")
		return nil

	case "/quit", "/exit", "/q":
		fmt.Println("\nGoodbye!")
		return nil

	case "/register":
		return r.handleRegister(ctx, args)

	case "/login":
		return r.handleLogin(ctx, args)

	case "/logout":
		return r.handleLogout(ctx)

	case "/whoami":
		ui.RenderProfile(r.rl.Stdout(), r.formatter, r.auth.User())
		return nil

	case "/theme":
		return r.handleTheme(ctx, args)

	case "/voice":
		return r.handleVoice(ctx, args)

	case "/voices":
		return r.handleVoices(ctx)

	case "/languages":
		return r.handleLanguages(ctx)

	case "/providers":
		return r.handleProviders(ctx)

	case "/language":
		return r.handleLanguage(ctx, args)

	case "/speed":
		return r.handleRate(ctx, "speed", args)

	case "/pitch":
		return r.handleRate(ctx, "pitch", args)

	case "/say":
		return r.handleSay(ctx, args)

	case "/stop":
		r.player.Stop()
		r.displaySystem("Playback stopped.")
		return nil

	case "/reminders", "/rem":
		return r.handleReminders(ctx, args)

	case "/weather":
		return r.handleWeather(ctx, args)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

// handleMessage sends plain input to the assistant and renders the
// reply, speaking it when configured and the backend marked it
// speakable.
func (r *REPL) handleMessage(ctx context.Context, message string) error {
	r.spinner.Start("Waiting for response...")

	reply, err := r.chat.Send(ctx, message)
	r.spinner.Stop()
	if err != nil {
		return err
	}

	if reply.Blocked {
		r.displayWarning(reply.Response)
		return nil
	}

	r.displayReply(reply)

	if r.config.Chat.SpeakReplies && reply.Speak != "" {
		r.speak(ctx, reply.Speak)
	}

	return nil
}

// speak synthesizes and plays text, best-effort: a TTS failure is shown
// but never fails the chat flow.
func (r *REPL) speak(ctx context.Context, text string) {
	audio, err := r.tts.Convert(ctx, text, r.voice.VoiceID(), r.voice.Language(), r.voice.Speed(), r.voice.Pitch())
	if err != nil {
		r.displaySystem("(speech unavailable: " + err.Error() + ")")
		return
	}
	if err := r.player.Play(audio); err != nil {
		r.displaySystem("(playback failed: " + err.Error() + ")")
	}
}

func (r *REPL) username() string {
	if u := r.auth.User(); u != nil && r.auth.IsAuthenticated() {
		return u.Username
	}
	return ""
}

func (r *REPL) refreshPrompt() {
	r.prompt = r.formatter.FormatPrompt(r.username())
	if r.rl != nil {
		r.rl.SetPrompt(r.prompt)
	}
}

// SaveHistory persists the transcript when enabled and non-empty.
func (r *REPL) SaveHistory() error {
	if !r.config.Chat.SaveHistory {
		return nil
	}

	if r.chat.IsEmpty() {
		return nil
	}

	return r.chat.Save(r.config.Chat.HistoryFile)
}

// splitArgs is Fields with a stable name for command parsing.
func splitArgs(args string) []string {
	return strings.Fields(args)
}
