package repl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/ui"
)

// serverInfo fetches GET /api/config, nil when the backend is away.
func (r *REPL) serverInfo(ctx context.Context) *api.ServerInfo {
	var info api.ServerInfo
	if err := r.api.Get(ctx, "/api/config", nil, &info); err != nil {
		return nil
	}
	return &info
}

func (r *REPL) serverName() string {
	if info := r.serverInfo(context.Background()); info != nil {
		return info.Name
	}
	return ""
}

func (r *REPL) handleStatus(ctx context.Context) error {
	info := r.serverInfo(ctx)

	s := ui.StatusInfo{
		ServerURL:     r.api.BaseURL(),
		Online:        info != nil,
		Authenticated: r.auth.IsAuthenticated(),
		Username:      r.username(),
		Theme:         r.theme.Current(),
		VoiceID:       r.voice.VoiceID(),
		Language:      r.voice.Language(),
		Speed:         r.voice.Speed(),
		Pitch:         r.voice.Pitch(),
		WatcherOn:     r.config.Watcher.Enabled,
		ChatLanguage:  r.chat.Language(),
		Messages:      r.chat.MessageCount(),
	}
	if info != nil {
		s.ServerName = info.Name
		s.ServerVersion = info.Version
	}

	ui.RenderStatus(r.rl.Stdout(), r.formatter, s)
	return nil
}

func (r *REPL) handleRegister(ctx context.Context, args string) error {
	parts := splitArgs(args)
	if len(parts) != 2 {
		return fmt.Errorf("usage: /register <username> <email>")
	}
	username, email := parts[0], parts[1]

	password, err := r.askPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}
	confirm, err := r.askPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	r.status.Show("Registering...")
	res := r.auth.Register(ctx, username, email, password)
	r.status.Hide()

	if !res.Success {
		return fmt.Errorf("%s", resultMessage(res.Error, res.Message, "registration failed"))
	}

	r.displaySuccess("Registered and logged in as " + username)
	r.adoptProfile()
	return nil
}

func (r *REPL) handleLogin(ctx context.Context, args string) error {
	parts := splitArgs(args)
	if len(parts) != 1 {
		return fmt.Errorf("usage: /login <username>")
	}
	username := parts[0]

	password, err := r.askPassword("Password: ")
	if err != nil {
		return err
	}

	r.status.Show("Logging in...")
	res := r.auth.Login(ctx, username, password)
	r.status.Hide()

	if !res.Success {
		return fmt.Errorf("%s", resultMessage(res.Error, res.Message, "login failed"))
	}

	r.displaySuccess("Logged in as " + username)
	r.adoptProfile()
	return nil
}

func (r *REPL) handleLogout(ctx context.Context) error {
	r.auth.Logout(ctx)
	r.displaySystem("Logged out.")
	return nil
}

// adoptProfile points the reminder client at the logged-in user. This
// is an explicit handoff, not part of the auth change notification.
func (r *REPL) adoptProfile() {
	if u := r.auth.User(); u != nil {
		r.reminders.SetUserID(u.UserID)
	}
}

func (r *REPL) handleTheme(ctx context.Context, args string) error {
	if args == "" {
		next := r.theme.Toggle(ctx)
		r.displaySystem("Theme switched to " + next + ".")
		return nil
	}

	if err := r.theme.Set(ctx, args); err != nil {
		return err
	}
	r.displaySystem("Theme set to " + r.theme.Current() + ".")
	return nil
}

func (r *REPL) handleVoice(ctx context.Context, args string) error {
	if args != "" {
		if err := r.voice.SetVoice(ctx, args); err != nil {
			return err
		}
		r.displaySuccess("Voice set to " + args)
		return nil
	}

	r.status.Show("Fetching voices...")
	voices, err := r.tts.Voices(ctx)
	r.status.Hide()
	if err != nil {
		return err
	}
	if len(voices) == 0 {
		r.displayInfo("No voices available.")
		return nil
	}

	options := make([]ui.SelectorOption, 0, len(voices))
	for _, v := range voices {
		options = append(options, ui.SelectorOption{
			Value:       v.VoiceID,
			Label:       v.Name,
			Description: fmt.Sprintf("%s, %s", v.Provider, v.Language),
		})
	}

	picked, err := ui.NewSelector(r.formatter, "Pick a voice:", options, false).Run()
	if err != nil {
		return err
	}
	if err := r.voice.SetVoice(ctx, picked[0]); err != nil {
		return err
	}
	r.displaySuccess("Voice set to " + picked[0])
	return nil
}

func (r *REPL) handleVoices(ctx context.Context) error {
	r.status.Show("Fetching voices...")
	voices, err := r.tts.Voices(ctx)
	r.status.Hide()
	if err != nil {
		return err
	}
	ui.RenderVoices(r.rl.Stdout(), r.formatter, voices, r.voice.VoiceID())
	return nil
}

func (r *REPL) handleLanguages(ctx context.Context) error {
	languages, err := r.tts.Languages(ctx)
	if err != nil {
		return err
	}
	ui.RenderLanguages(r.rl.Stdout(), r.formatter, languages)
	return nil
}

func (r *REPL) handleProviders(ctx context.Context) error {
	providers, err := r.tts.Providers(ctx)
	if err != nil {
		return err
	}
	ui.RenderProviders(r.rl.Stdout(), r.formatter, providers)
	return nil
}

func (r *REPL) handleLanguage(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /language <code> (see /languages)")
	}
	if err := r.voice.SetLanguage(ctx, args); err != nil {
		return err
	}
	if err := r.chat.SetLanguage(args); err != nil {
		return err
	}
	r.displaySuccess("Language set to " + args)
	return nil
}

func (r *REPL) handleRate(ctx context.Context, which, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /%s <0.5-2.0>", which)
	}
	v, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q", which, args)
	}

	if which == "speed" {
		r.voice.SetSpeed(ctx, v)
		r.displaySuccess(fmt.Sprintf("Speed set to %.2g", r.voice.Speed()))
	} else {
		r.voice.SetPitch(ctx, v)
		r.displaySuccess(fmt.Sprintf("Pitch set to %.2g", r.voice.Pitch()))
	}
	return nil
}

func (r *REPL) handleSay(ctx context.Context, args string) error {
	if args == "" {
		return fmt.Errorf("usage: /say <text>")
	}

	r.status.Show("Synthesizing...")
	audio, err := r.tts.Convert(ctx, args, r.voice.VoiceID(), r.voice.Language(), r.voice.Speed(), r.voice.Pitch())
	r.status.Hide()
	if err != nil {
		return err
	}

	return r.player.Play(audio)
}

func (r *REPL) handleWeather(ctx context.Context, args string) error {
	location := args
	if location == "" {
		location = r.config.Weather.Location
	}
	if location == "" {
		return fmt.Errorf("usage: /weather <location> (or set weather.location in the config)")
	}

	r.status.Show("Fetching weather...")
	report, err := r.weather.Lookup(ctx, location)
	r.status.Hide()
	if err != nil {
		return err
	}

	ui.RenderWeather(r.rl.Stdout(), r.formatter, report)
	return nil
}

// resultMessage picks the first non-empty backend message, falling back
// to a generic string per the error handling policy.
func resultMessage(errMsg, msg, fallback string) string {
	if errMsg != "" {
		return errMsg
	}
	if msg != "" {
		return msg
	}
	return fallback
}
