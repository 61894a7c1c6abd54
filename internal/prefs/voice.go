package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/localstore"
)

const (
	DefaultVoiceID  = "edge_en_us_guy"
	DefaultLanguage = "en"

	// Speed and pitch bounds, mirrored from the backend so a value is
	// never persisted that the server would clamp differently.
	MinRate = 0.5
	MaxRate = 2.0
)

// VoiceManager holds the speech preferences (voice id, language code,
// speed, pitch) with the same sync model as the theme: memory is
// authoritative, the local store persists, the backend is advisory.
type VoiceManager struct {
	store *localstore.Store
	api   *api.Client

	voiceID  string
	language string
	speed    float64
	pitch    float64
}

func NewVoiceManager(store *localstore.Store, apiClient *api.Client) *VoiceManager {
	return &VoiceManager{
		store:    store,
		api:      apiClient,
		voiceID:  DefaultVoiceID,
		language: DefaultLanguage,
		speed:    1.0,
		pitch:    1.0,
	}
}

type defaultVoiceEnvelope struct {
	VoiceID string `json:"voice_id"`
}

type settingsEnvelope struct {
	Speed float64 `json:"speed"`
	Pitch float64 `json:"pitch"`
}

// Init loads each field from its local key when present, then makes
// one-shot backend fetches for the default voice and saved settings.
// Values the backend explicitly supplies override memory; nothing the
// backend sends is written to the local keys.
func (m *VoiceManager) Init(ctx context.Context) {
	if v, err := m.store.Get(localstore.KeyPreferredVoice); err == nil {
		m.voiceID = v
	}
	if v, err := m.store.Get(localstore.KeyPreferredLanguage); err == nil {
		m.language = v
	}
	if v, err := m.store.Get(localstore.KeyVoiceSpeed); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m.speed = clampRate(f)
		}
	}
	if v, err := m.store.Get(localstore.KeyVoicePitch); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m.pitch = clampRate(f)
		}
	}

	var dv defaultVoiceEnvelope
	if err := m.api.Get(ctx, "/api/tts/voices/default", nil, &dv); err != nil {
		slog.Debug("default voice fetch failed, staying local", "error", err)
	} else if dv.VoiceID != "" {
		m.voiceID = dv.VoiceID
	}

	var st settingsEnvelope
	if err := m.api.Get(ctx, "/api/tts/settings", nil, &st); err != nil {
		slog.Debug("voice settings fetch failed, staying local", "error", err)
	} else {
		if st.Speed > 0 {
			m.speed = clampRate(st.Speed)
		}
		if st.Pitch > 0 {
			m.pitch = clampRate(st.Pitch)
		}
	}
}

// SetVoice stores the preferred voice id and pushes it to the backend
// as the account default, best-effort.
func (m *VoiceManager) SetVoice(ctx context.Context, voiceID string) error {
	if voiceID == "" {
		return fmt.Errorf("voice id is required")
	}

	m.voiceID = voiceID
	if err := m.store.Set(localstore.KeyPreferredVoice, voiceID); err != nil {
		slog.Debug("voice persist failed", "error", err)
	}

	go func() {
		body := defaultVoiceEnvelope{VoiceID: voiceID}
		if err := m.api.Post(context.Background(), "/api/tts/voices/default", nil, body, nil); err != nil {
			slog.Debug("default voice push failed", "error", err)
		}
	}()
	return nil
}

// SetLanguage stores the speech language code. The backend keeps no
// per-user language record, so this preference is local-only.
func (m *VoiceManager) SetLanguage(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("language code is required")
	}

	m.language = code
	if err := m.store.Set(localstore.KeyPreferredLanguage, code); err != nil {
		slog.Debug("language persist failed", "error", err)
	}
	return nil
}

// SetSpeed clamps and stores the speech speed, then pushes both rate
// settings to the backend best-effort.
func (m *VoiceManager) SetSpeed(ctx context.Context, speed float64) {
	m.speed = clampRate(speed)
	if err := m.store.Set(localstore.KeyVoiceSpeed, formatRate(m.speed)); err != nil {
		slog.Debug("speed persist failed", "error", err)
	}
	m.pushSettings()
}

// SetPitch clamps and stores the speech pitch, then pushes both rate
// settings to the backend best-effort.
func (m *VoiceManager) SetPitch(ctx context.Context, pitch float64) {
	m.pitch = clampRate(pitch)
	if err := m.store.Set(localstore.KeyVoicePitch, formatRate(m.pitch)); err != nil {
		slog.Debug("pitch persist failed", "error", err)
	}
	m.pushSettings()
}

func (m *VoiceManager) VoiceID() string  { return m.voiceID }
func (m *VoiceManager) Language() string { return m.language }
func (m *VoiceManager) Speed() float64   { return m.speed }
func (m *VoiceManager) Pitch() float64   { return m.pitch }

// pushSettings sends speed and pitch together; the backend takes them
// as query parameters on POST.
func (m *VoiceManager) pushSettings() {
	speed, pitch := m.speed, m.pitch
	go func() {
		q := url.Values{}
		q.Set("speed", formatRate(speed))
		q.Set("pitch", formatRate(pitch))
		if err := m.api.Post(context.Background(), "/api/tts/settings", q, nil, nil); err != nil {
			slog.Debug("voice settings push failed", "error", err)
		}
	}()
}

func clampRate(v float64) float64 {
	if v < MinRate {
		return MinRate
	}
	if v > MaxRate {
		return MaxRate
	}
	return v
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
