package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/reminder"
	"github.com/chattalk/talk-cli/internal/tts"
	"github.com/chattalk/talk-cli/internal/weather"
)

// Render functions take the data and a target writer so the sync logic
// never touches presentation directly.

// RenderReminders writes the reminder list as a table in server order.
func RenderReminders(w io.Writer, f *Formatter, reminders []reminder.Reminder) {
	if len(reminders) == 0 {
		fmt.Fprintln(w, f.FormatDim("No reminders."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader(fmt.Sprintf("Reminders (%d)", len(reminders))))
	for _, r := range reminders {
		status := r.Status()
		line := fmt.Sprintf("  #%-4d %s  [%s, %s]", r.ID, r.Title, f.FormatPriority(r.Priority), status)
		if r.TriggerTime != "" {
			line += "  " + f.FormatDim("at "+r.TriggerTime)
		}
		fmt.Fprintln(w, line)
		if r.Message != "" {
			fmt.Fprintf(w, "        %s\n", f.FormatDim(r.Message))
		}
		if len(r.Categories) > 0 {
			fmt.Fprintf(w, "        %s\n", f.FormatDim("#"+strings.Join(r.Categories, " #")))
		}
	}
}

// RenderTemplates writes the server's reminder presets.
func RenderTemplates(w io.Writer, f *Formatter, templates []reminder.Template) {
	if len(templates) == 0 {
		fmt.Fprintln(w, f.FormatDim("No templates available."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader("Reminder templates"))
	for _, t := range templates {
		fmt.Fprintf(w, "  %-18s %s  [%s, %s]\n", t.ID, t.Name, f.FormatPriority(t.Priority), t.Category)
		if t.Message != "" {
			fmt.Fprintf(w, "  %-18s %s\n", "", f.FormatDim(t.Message))
		}
	}
}

// RenderVoices writes the synthesis catalog, marking the active voice.
func RenderVoices(w io.Writer, f *Formatter, voices []tts.Voice, activeID string) {
	if len(voices) == 0 {
		fmt.Fprintln(w, f.FormatDim("No voices available."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader(fmt.Sprintf("Voices (%d)", len(voices))))
	for _, v := range voices {
		marker := "  "
		if v.VoiceID == activeID {
			marker = f.FormatSuccess("")
		}
		line := fmt.Sprintf("%s%-24s %s (%s, %s)", marker, v.VoiceID, v.Name, v.Provider, v.Language)
		if v.Gender != "" {
			line += " " + f.FormatDim(v.Gender)
		}
		if v.IsPremium {
			line += " " + f.FormatInfo("premium")
		}
		fmt.Fprintln(w, line)
	}
}

// RenderLanguages writes the available speech languages.
func RenderLanguages(w io.Writer, f *Formatter, languages []tts.Language) {
	if len(languages) == 0 {
		fmt.Fprintln(w, f.FormatDim("No languages available."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader("Languages"))
	for _, l := range languages {
		fmt.Fprintf(w, "  %-8s %s\n", l.Code, l.Name)
	}
}

// RenderProviders writes the TTS engines behind the backend.
func RenderProviders(w io.Writer, f *Formatter, providers []tts.Provider) {
	if len(providers) == 0 {
		fmt.Fprintln(w, f.FormatDim("No providers available."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader("TTS providers"))
	for _, p := range providers {
		line := fmt.Sprintf("  %-12s %s", p.Name, p.DisplayName)
		if p.Quality != "" {
			line += "  " + f.FormatDim("quality: "+p.Quality)
		}
		fmt.Fprintln(w, line)
		if p.Description != "" {
			fmt.Fprintf(w, "  %-12s %s\n", "", f.FormatDim(p.Description))
		}
	}
}

// RenderWeather writes a conditions report for one place.
func RenderWeather(w io.Writer, f *Formatter, report *weather.Report) {
	name := report.DisplayName
	if name == "" {
		name = report.Location
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader(report.Icon+" "+name))
	fmt.Fprintf(w, "  %s, %.1f°C\n", report.Description, report.TempC)
	fmt.Fprintf(w, "  %s\n", f.FormatDim(fmt.Sprintf("wind %.1f km/h • %.4f, %.4f", report.WindKmh, report.Lat, report.Lon)))
	if report.Time != "" {
		fmt.Fprintf(w, "  %s\n", f.FormatDim("as of "+report.Time))
	}
}

// RenderProfile writes the active user profile, or an anonymous note.
func RenderProfile(w io.Writer, f *Formatter, user *api.User) {
	if user == nil {
		fmt.Fprintln(w, f.FormatDim("Not logged in. Use /login or /register."))
		return
	}

	fmt.Fprintf(w, "%s\n", f.FormatHeader(user.Username))
	fmt.Fprintf(w, "  %s\n", user.Email)
	if user.LastLogin != "" {
		fmt.Fprintf(w, "  %s\n", f.FormatDim("last login "+user.LastLogin))
	}
	if user.Preferences.Theme != "" || user.Preferences.Voice != "" {
		fmt.Fprintf(w, "  %s\n", f.FormatDim(fmt.Sprintf("server prefs: theme=%s voice=%s language=%s",
			user.Preferences.Theme, user.Preferences.Voice, user.Preferences.Language)))
	}
}

// StatusInfo collects everything the /status panel shows.
type StatusInfo struct {
	ServerURL     string
	ServerName    string
	ServerVersion string
	Online        bool
	Authenticated bool
	Username      string
	Theme         string
	VoiceID       string
	Language      string
	Speed         float64
	Pitch         float64
	WatcherOn     bool
	ChatLanguage  string
	Messages      int
}

// RenderStatus writes the session status panel.
func RenderStatus(w io.Writer, f *Formatter, s StatusInfo) {
	fmt.Fprintf(w, "%s\n", f.FormatHeader("Status"))

	server := s.ServerURL
	if s.ServerName != "" {
		server = fmt.Sprintf("%s (%s %s)", s.ServerURL, s.ServerName, s.ServerVersion)
	}
	if s.Online {
		fmt.Fprintf(w, "  Server:   %s %s\n", server, f.FormatSuccess("online"))
	} else {
		fmt.Fprintf(w, "  Server:   %s %s\n", server, f.FormatWarning("unreachable (local-only)"))
	}

	if s.Authenticated {
		fmt.Fprintf(w, "  Account:  %s\n", s.Username)
	} else {
		fmt.Fprintf(w, "  Account:  %s\n", f.FormatDim("anonymous"))
	}

	fmt.Fprintf(w, "  Theme:    %s\n", s.Theme)
	fmt.Fprintf(w, "  Voice:    %s (%s, speed %.2g, pitch %.2g)\n", s.VoiceID, s.Language, s.Speed, s.Pitch)

	watcher := "off"
	if s.WatcherOn {
		watcher = "on"
	}
	fmt.Fprintf(w, "  %s\n", f.FormatDim(fmt.Sprintf("due watcher %s • chatting in %s • %d messages this session", watcher, s.ChatLanguage, s.Messages)))
}
