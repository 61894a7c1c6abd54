package chat

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer turns the backend's markdown replies into styled terminal
// text. The glamour style follows the active UI theme; when markdown
// rendering is off the text passes through untouched.
type Renderer struct {
	mu       sync.Mutex
	enabled  bool
	theme    string
	renderer *glamour.TermRenderer
}

func NewRenderer(enabled bool) *Renderer {
	r := &Renderer{enabled: enabled, theme: "dark"}
	r.rebuild()
	return r
}

// SetTheme swaps the glamour style to match the UI theme. This is the
// renderer's half of the theme applier; a failed rebuild keeps the
// previous style.
func (r *Renderer) SetTheme(theme string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if theme != "dark" && theme != "light" {
		return
	}
	r.theme = theme
	r.rebuild()
}

func (r *Renderer) rebuild() {
	if !r.enabled {
		return
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.theme),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return
	}
	r.renderer = tr
}

// Render formats markdown for the terminal, falling back to the raw
// text on any rendering problem.
func (r *Renderer) Render(content string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled || r.renderer == nil {
		return content
	}

	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}
