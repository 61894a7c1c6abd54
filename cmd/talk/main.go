package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/chat"
	"github.com/chattalk/talk-cli/internal/config"
	"github.com/chattalk/talk-cli/internal/localstore"
	"github.com/chattalk/talk-cli/internal/logging"
	"github.com/chattalk/talk-cli/internal/prefs"
	"github.com/chattalk/talk-cli/internal/reminder"
	"github.com/chattalk/talk-cli/internal/repl"
	"github.com/chattalk/talk-cli/internal/scheduler"
	"github.com/chattalk/talk-cli/internal/session"
	"github.com/chattalk/talk-cli/internal/tts"
	"github.com/chattalk/talk-cli/internal/ui"
	"github.com/chattalk/talk-cli/internal/weather"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	serverURL := flag.String("server", "", "Backend base URL (overrides config)")
	location := flag.String("location", "", "Default weather location (overrides config)")
	language := flag.String("language", "", "Chat language (overrides config)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI flag overrides
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}
	if *location != "" {
		cfg.Weather.Location = *location
	}
	if *language != "" {
		cfg.Chat.Language = *language
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Tip: Set TALK_SERVER_URL or add server.base_url to the config file\n")
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing data directory: %v\n", err)
		os.Exit(1)
	}

	store, err := localstore.Open(cfg.LocalDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening local store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	apiClient := api.NewClient(cfg.Server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Presentation layer and the theme applier feeding it.
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)
	renderer := chat.NewRenderer(cfg.UI.Markdown)
	applyTheme := func(theme string) {
		formatter.SetTheme(theme)
		renderer.SetTheme(theme)
	}

	themeMgr := prefs.NewThemeManager(store, apiClient, lipgloss.HasDarkBackground(), applyTheme)
	voiceMgr := prefs.NewVoiceManager(store, apiClient)
	themeMgr.Init(ctx)
	voiceMgr.Init(ctx)

	auth := session.NewClient(store, apiClient)
	reminders := reminder.NewClient(apiClient)
	ttsClient := tts.NewClient(apiClient)
	player := tts.NewPlayer(cfg.TTS.Player, cfg.SpeechDir())
	if cfg.Chat.SpeakReplies && !player.Available() {
		slog.Warn("speak_replies is on but no audio player was found; set tts.player in the config")
	}
	weatherSvc := weather.NewService()

	chatSession := chat.NewSession(chat.NewClient(apiClient), cfg.Chat.Language, cfg.Chat.MaxHistory)
	if cfg.Chat.SaveHistory {
		if err := chatSession.Load(cfg.Chat.HistoryFile); err != nil {
			// Not an error if the file doesn't exist yet
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load history: %v\n", err)
			}
		} else if chatSession.MessageCount() > 0 {
			fmt.Printf("Loaded %d messages from history\n", chatSession.MessageCount())
		}
	}

	replInstance, err := repl.NewREPL(repl.Components{
		Config:    cfg,
		API:       apiClient,
		Formatter: formatter,
		Renderer:  renderer,
		Chat:      chatSession,
		Auth:      auth,
		Theme:     themeMgr,
		Voice:     voiceMgr,
		Reminders: reminders,
		TTS:       ttsClient,
		Player:    player,
		Weather:   weatherSvc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	// A restored session is only trusted after the backend confirms it.
	if auth.VerifyAuth(ctx) {
		if u := auth.User(); u != nil {
			reminders.SetUserID(u.UserID)
			fmt.Printf("Welcome back, %s\n", u.Username)
		}
	}

	if cfg.Watcher.Enabled {
		notifiers := []scheduler.Notifier{scheduler.NotifierFunc(replInstance.Notify)}
		if cfg.Watcher.Telegram.BotToken != "" && cfg.Watcher.Telegram.ChatID != "" {
			notifiers = append(notifiers, scheduler.NewTelegramNotifier(cfg.Watcher.Telegram.BotToken, cfg.Watcher.Telegram.ChatID))
		}
		watcher := scheduler.New(reminders, cfg.Watcher.Interval, notifiers...)
		go watcher.Run(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nInterrupted. Saving history...")
		cancel()
		player.Stop()

		if err := replInstance.SaveHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to save history: %v\n", err)
		}

		os.Exit(0)
	}()

	if err := replInstance.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	player.Stop()
	if err := replInstance.SaveHistory(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to save history: %v\n", err)
	}
}
