package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chattalk/talk-cli/internal/reminder"
)

func TestPriorityColorMapping(t *testing.T) {
	f := NewFormatter(true)

	tests := []struct {
		priority string
		want     string
	}{
		{"low", string(DarkPalette.PriorityLow)},
		{"medium", string(DarkPalette.PriorityMedium)},
		{"high", string(DarkPalette.PriorityHigh)},
		{"urgent", string(DarkPalette.PriorityUrgent)},
		{"", string(DarkPalette.PriorityMedium)}, // unknown falls back to medium
	}
	for _, tt := range tests {
		if got := string(f.PriorityColor(tt.priority)); got != tt.want {
			t.Errorf("PriorityColor(%q) = %s, want %s", tt.priority, got, tt.want)
		}
	}
}

func TestSetThemeSwapsPalette(t *testing.T) {
	f := NewFormatter(true)
	if f.Theme() != "dark" {
		t.Fatalf("default theme = %q, want dark", f.Theme())
	}

	f.SetTheme("light")
	if got := string(f.PriorityColor("urgent")); got != string(LightPalette.PriorityUrgent) {
		t.Errorf("urgent color after light switch = %s, want %s", got, LightPalette.PriorityUrgent)
	}

	f.SetTheme("weird")
	if f.Theme() != "weird" {
		t.Errorf("Theme = %q", f.Theme())
	}
	if got := string(f.PriorityColor("low")); got != string(DarkPalette.PriorityLow) {
		t.Errorf("non-light theme should use the dark palette, got %s", got)
	}
}

func TestFormatPriorityUncolored(t *testing.T) {
	f := NewFormatter(false)
	if got := f.FormatPriority("urgent"); got != "urgent" {
		t.Errorf("FormatPriority = %q, want plain label without colors", got)
	}
}

func TestRenderRemindersShowsUrgentEntry(t *testing.T) {
	f := NewFormatter(false)
	var buf bytes.Buffer
	RenderReminders(&buf, f, []reminder.Reminder{
		{ID: 7, Title: "Pay rent", Priority: "urgent", Enabled: true, TriggerTime: "2026-09-01T09:00:00"},
	})

	out := buf.String()
	for _, want := range []string{"#7", "Pay rent", "urgent", "active", "2026-09-01T09:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRemindersEmpty(t *testing.T) {
	f := NewFormatter(false)
	var buf bytes.Buffer
	RenderReminders(&buf, f, nil)
	if !strings.Contains(buf.String(), "No reminders") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderProfileAnonymous(t *testing.T) {
	f := NewFormatter(false)
	var buf bytes.Buffer
	RenderProfile(&buf, f, nil)
	if !strings.Contains(buf.String(), "Not logged in") {
		t.Errorf("output = %q", buf.String())
	}
}

// The watcher formats notifications from its own goroutine while /theme
// swaps the palette on the prompt loop's goroutine.
func TestSetThemeConcurrentWithFormatting(t *testing.T) {
	f := NewFormatter(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			f.FormatNotification("Stand up", "stretch", "urgent")
			f.FormatPriority("high")
		}
	}()
	for i := 0; i < 100; i++ {
		f.SetTheme("light")
		f.SetTheme("dark")
	}
	<-done

	if f.Theme() != "dark" {
		t.Errorf("theme after switches = %q, want dark", f.Theme())
	}
}
