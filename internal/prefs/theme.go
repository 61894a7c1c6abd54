package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/localstore"
)

// Theme values. "system" is accepted as input and resolves through the
// terminal background hint; only explicit dark/light choices are
// persisted locally.
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// ThemeManager keeps the UI theme consistent across three places: the
// in-memory value (authoritative for this session), the local store
// (survives restarts), and the backend record (advisory, for
// cross-device continuity). The backend is never required; every
// network failure degrades to local-only operation.
type ThemeManager struct {
	store      *localstore.Store
	api        *api.Client
	apply      func(theme string)
	current    string
	systemDark bool
}

// NewThemeManager creates a theme manager. systemDark is the terminal
// background hint sampled at startup (the prefers-color-scheme analog);
// apply pushes a resolved theme into the presentation layer.
func NewThemeManager(store *localstore.Store, apiClient *api.Client, systemDark bool, apply func(theme string)) *ThemeManager {
	return &ThemeManager{
		store:      store,
		api:        apiClient,
		apply:      apply,
		current:    ThemeDark,
		systemDark: systemDark,
	}
}

type themeEnvelope struct {
	Theme string `json:"theme"`
}

// Init populates the theme from the local store if present, otherwise
// from the system hint, applies it, then makes a one-shot backend fetch.
// A theme the backend explicitly supplies overrides the in-memory value
// but is not written to the local store, so a client that never chose
// explicitly keeps following the system hint.
func (m *ThemeManager) Init(ctx context.Context) {
	if v, err := m.store.Get(localstore.KeyTheme); err == nil {
		m.applyTheme(m.resolve(v))
	} else {
		m.applyTheme(m.systemTheme())
	}

	var resp themeEnvelope
	if err := m.api.Get(ctx, "/api/user/theme", nil, &resp); err != nil {
		slog.Debug("theme fetch failed, staying local", "error", err)
		return
	}
	if resp.Theme != "" {
		m.applyTheme(m.resolve(resp.Theme))
	}
}

// Set validates and applies a theme choice. The local store is updated
// synchronously; the backend push happens in the background and its
// failure is swallowed. Choosing "system" clears the explicit local
// choice and returns to following the terminal hint.
func (m *ThemeManager) Set(ctx context.Context, theme string) error {
	switch theme {
	case ThemeDark, ThemeLight:
		m.applyTheme(theme)
		if err := m.store.Set(localstore.KeyTheme, theme); err != nil {
			slog.Debug("theme persist failed", "error", err)
		}
	case ThemeSystem:
		m.applyTheme(m.systemTheme())
		if err := m.store.Delete(localstore.KeyTheme); err != nil {
			slog.Debug("theme key delete failed", "error", err)
		}
	default:
		return fmt.Errorf("unknown theme: %s (available: dark, light, system)", theme)
	}

	m.push(theme)
	return nil
}

// Toggle flips between dark and light.
func (m *ThemeManager) Toggle(ctx context.Context) string {
	next := ThemeDark
	if m.current == ThemeDark {
		next = ThemeLight
	}
	m.Set(ctx, next)
	return next
}

// HandleSystemChange re-applies the system hint. It only takes effect
// while no explicit theme was ever persisted; once the user chose, the
// hint never overrides that choice.
func (m *ThemeManager) HandleSystemChange(dark bool) {
	m.systemDark = dark

	has, err := m.store.Has(localstore.KeyTheme)
	if err != nil || has {
		return
	}
	m.applyTheme(m.systemTheme())
}

// Current returns the active theme (always dark or light).
func (m *ThemeManager) Current() string {
	return m.current
}

func (m *ThemeManager) applyTheme(theme string) {
	m.current = theme
	if m.apply != nil {
		m.apply(theme)
	}
}

func (m *ThemeManager) systemTheme() string {
	if m.systemDark {
		return ThemeDark
	}
	return ThemeLight
}

func (m *ThemeManager) resolve(theme string) string {
	if theme == ThemeSystem {
		return m.systemTheme()
	}
	return theme
}

// push sends the choice to the backend without blocking the caller.
// The caller never waits, so the push gets its own context.
func (m *ThemeManager) push(theme string) {
	go func() {
		body := themeEnvelope{Theme: theme}
		if err := m.api.Post(context.Background(), "/api/user/theme", nil, body, nil); err != nil {
			slog.Debug("theme push failed", "error", err)
		}
	}()
}
