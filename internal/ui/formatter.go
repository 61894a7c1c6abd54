package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors for one theme. Styles are rebuilt from it
// whenever the theme switches.
type Palette struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	System    lipgloss.Color
	Status    lipgloss.Color
	Dim       lipgloss.Color
	Header    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color

	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
	PriorityUrgent lipgloss.Color
}

// DarkPalette targets dark terminal backgrounds.
var DarkPalette = Palette{
	User:      lipgloss.Color("81"),  // bright cyan
	Assistant: lipgloss.Color("114"), // soft green
	Error:     lipgloss.Color("203"), // coral red
	Info:      lipgloss.Color("222"), // warm yellow
	System:    lipgloss.Color("183"), // soft purple
	Status:    lipgloss.Color("245"), // medium gray
	Dim:       lipgloss.Color("240"),
	Header:    lipgloss.Color("81"),
	Success:   lipgloss.Color("114"),
	Warning:   lipgloss.Color("222"),
	Accent:    lipgloss.Color("147"), // light purple
	Border:    lipgloss.Color("62"),  // soft blue

	PriorityLow:    lipgloss.Color("114"),
	PriorityMedium: lipgloss.Color("222"),
	PriorityHigh:   lipgloss.Color("215"), // orange
	PriorityUrgent: lipgloss.Color("203"),
}

// LightPalette targets light terminal backgrounds.
var LightPalette = Palette{
	User:      lipgloss.Color("25"), // blue
	Assistant: lipgloss.Color("28"), // green
	Error:     lipgloss.Color("160"),
	Info:      lipgloss.Color("130"), // brown-orange
	System:    lipgloss.Color("90"),  // purple
	Status:    lipgloss.Color("240"),
	Dim:       lipgloss.Color("245"),
	Header:    lipgloss.Color("25"),
	Success:   lipgloss.Color("28"),
	Warning:   lipgloss.Color("130"),
	Accent:    lipgloss.Color("55"),
	Border:    lipgloss.Color("61"),

	PriorityLow:    lipgloss.Color("28"),
	PriorityMedium: lipgloss.Color("130"),
	PriorityHigh:   lipgloss.Color("166"),
	PriorityUrgent: lipgloss.Color("160"),
}

// Formatter styles terminal output for the active theme. It is the
// target of the theme manager's applier: SetTheme swaps the whole
// palette at once. The due-reminder watcher formats notifications from
// its own goroutine, so the palette sits behind a mutex and every
// format method works from a snapshot.
type Formatter struct {
	colored bool

	mu      sync.RWMutex
	theme   string
	palette Palette
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{
		colored: colored,
		theme:   "dark",
		palette: DarkPalette,
	}
}

// SetTheme switches the palette; anything but "light" means dark.
func (f *Formatter) SetTheme(theme string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.theme = theme
	if theme == "light" {
		f.palette = LightPalette
	} else {
		f.palette = DarkPalette
	}
}

func (f *Formatter) Theme() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.theme
}

func (f *Formatter) pal() Palette {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.palette
}

func (f *Formatter) style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func (f *Formatter) FormatAssistantMessage(msg string) string {
	prefix := "Assistant: "
	if f.colored {
		prefix = f.style(f.pal().Assistant).Render("Assistant: ")
	}
	return prefix + msg
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = f.style(f.pal().Error).Bold(true).Render("Error: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return f.style(f.pal().Info).Render(info)
	}
	return info
}

func (f *Formatter) FormatSystem(msg string) string {
	if f.colored {
		return f.style(f.pal().System).Italic(true).Render(msg)
	}
	return msg
}

func (f *Formatter) FormatStatus(msg string) string {
	if f.colored {
		return f.style(f.pal().Status).Italic(true).Render(msg)
	}
	return msg
}

func (f *Formatter) FormatSuccess(msg string) string {
	if f.colored {
		return f.style(f.pal().Success).Bold(true).Render("✓ ") + msg
	}
	return "✓ " + msg
}

func (f *Formatter) FormatWarning(msg string) string {
	if f.colored {
		return f.style(f.pal().Warning).Bold(true).Render("! ") + msg
	}
	return "! " + msg
}

func (f *Formatter) FormatDim(msg string) string {
	if f.colored {
		return f.style(f.pal().Dim).Render(msg)
	}
	return msg
}

func (f *Formatter) FormatHeader(msg string) string {
	if f.colored {
		return f.style(f.pal().Header).Bold(true).Render(msg)
	}
	return msg
}

// PriorityColor returns the color a priority renders with. Urgent maps
// to the palette's red.
func (f *Formatter) PriorityColor(priority string) lipgloss.Color {
	switch priority {
	case "low":
		return f.pal().PriorityLow
	case "high":
		return f.pal().PriorityHigh
	case "urgent":
		return f.pal().PriorityUrgent
	default:
		return f.pal().PriorityMedium
	}
}

// FormatPriority renders a priority label in its mapped color; urgent
// is additionally bold.
func (f *Formatter) FormatPriority(priority string) string {
	if !f.colored {
		return priority
	}
	s := f.style(f.PriorityColor(priority))
	if priority == "urgent" {
		s = s.Bold(true)
	}
	return s.Render(priority)
}

// FormatNotification styles a due-reminder line from the watcher. The
// leading \a rings the terminal bell.
func (f *Formatter) FormatNotification(title, message, priority string) string {
	line := "⏰ " + title
	if message != "" {
		line += ": " + message
	}
	if f.colored {
		line = f.style(f.pal().Warning).Bold(true).Render("⏰ "+title) + func() string {
			if message == "" {
				return ""
			}
			return f.style(f.pal().Status).Render(": " + message)
		}()
	}
	if priority == "urgent" {
		line += " " + f.FormatPriority(priority)
	}
	return "\a" + line
}

// FormatPrompt returns the input prompt, showing the username when a
// session is active.
func (f *Formatter) FormatPrompt(username string) string {
	name := "you"
	if username != "" {
		name = username
	}
	if f.colored {
		return f.style(f.pal().User).Render(name) +
			f.style(f.pal().Assistant).Bold(true).Render(" > ")
	}
	return name + " > "
}

func (f *Formatter) FormatWelcome(serverName, serverURL string) string {
	if serverName == "" {
		serverName = "Chat&Talk"
	}

	if f.colored {
		titleStyle := f.style(f.pal().Header).Bold(true)
		labelStyle := f.style(f.pal().Dim)
		valueStyle := f.style(f.pal().Assistant)
		subtitleStyle := f.style(f.pal().Status)
		borderStyle := f.style(f.pal().Border)

		topBorder := borderStyle.Render("╭─────────────────────────────────────────╮")
		bottomBorder := borderStyle.Render("╰─────────────────────────────────────────╯")
		sideBorder := borderStyle.Render("│")

		title := titleStyle.Render("talk • " + serverName)
		serverLine := labelStyle.Render("Server: ") + valueStyle.Render(serverURL)
		helpLine := subtitleStyle.Render("Type /help for commands")

		padLine := func(content string, width int) string {
			contentLen := lipgloss.Width(content)
			if contentLen < width {
				return content + strings.Repeat(" ", width-contentLen)
			}
			return content
		}

		boxWidth := 39
		lines := []string{
			"",
			topBorder,
			sideBorder + " " + padLine(title, boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine(serverLine, boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine("", boxWidth) + " " + sideBorder,
			sideBorder + " " + padLine(helpLine, boxWidth) + " " + sideBorder,
			bottomBorder,
			"",
		}

		return strings.Join(lines, "\n")
	}

	lines := []string{
		"",
		"talk • " + serverName,
		fmt.Sprintf("Server: %s", serverURL),
		"Type /help for commands",
		"",
	}

	return strings.Join(lines, "\n")
}

func (f *Formatter) FormatHelp() string {
	type cmd struct{ name, desc string }
	sections := []struct {
		title string
		cmds  []cmd
	}{
		{"General", []cmd{
			{"/help", "Show this help"},
			{"/status", "Server and session status"},
			{"/clear", "Clear conversation transcript"},
			{"/quit", "Exit"},
		}},
		{"Account", []cmd{
			{"/register <user> <email>", "Create an account"},
			{"/login <user>", "Log in (password prompted)"},
			{"/logout", "Log out"},
			{"/whoami", "Show the active profile"},
		}},
		{"Appearance & voice", []cmd{
			{"/theme [dark|light|system]", "Switch theme (bare = toggle)"},
			{"/voice [id]", "Pick a voice (bare = interactive)"},
			{"/voices, /languages, /providers", "Browse the voice catalog"},
			{"/language <code>", "Speech language"},
			{"/speed <0.5-2>, /pitch <0.5-2>", "Speech rate settings"},
			{"/say <text>", "Speak text aloud"},
			{"/stop", "Stop playback"},
		}},
		{"Reminders", []cmd{
			{"/reminders [due|all|upcoming|templates]", "List reminders"},
			{"/reminders add [title]", "Create a reminder"},
			{"/reminders from <template-id>", "Create from a template"},
			{"/reminders done|snooze|rm|trigger <id>", "Act on a reminder"},
			{"/reminders cat <c>, pri <p>", "Filtered views"},
		}},
		{"Other", []cmd{
			{"/weather [location]", "Current conditions"},
		}},
	}

	var sb strings.Builder
	sb.WriteString("\n")

	if f.colored {
		headerStyle := f.style(f.pal().Header).Bold(true)
		sectionStyle := f.style(f.pal().Accent).Bold(true)
		cmdStyle := f.style(f.pal().Assistant)
		dimStyle := f.style(f.pal().Status)

		sb.WriteString(headerStyle.Render("Commands"))
		sb.WriteString("\n")
		for _, sec := range sections {
			sb.WriteString("\n")
			sb.WriteString(sectionStyle.Render(sec.title))
			sb.WriteString("\n")
			for _, c := range sec.cmds {
				fmt.Fprintf(&sb, "  %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-36s", c.name)), c.desc)
			}
		}
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("  Anything else is sent to the assistant. Ctrl+C or Ctrl+D to exit."))
		sb.WriteString("\n\n")
		return sb.String()
	}

	sb.WriteString("Commands:\n")
	for _, sec := range sections {
		sb.WriteString("\n" + sec.title + ":\n")
		for _, c := range sec.cmds {
			fmt.Fprintf(&sb, "  %-36s %s\n", c.name, c.desc)
		}
	}
	sb.WriteString("\nAnything else is sent to the assistant.\n\n")
	return sb.String()
}
