package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"

	"github.com/chattalk/talk-cli/internal/api"
)

// Speech rate bounds enforced by the backend.
const (
	minRate = 0.5
	maxRate = 2.0
)

// Client wraps the backend's voice endpoints. Unlike the auth and
// reminder surfaces these answer real HTTP error codes, so failures
// arrive as *api.APIError.
type Client struct {
	api *api.Client
}

// Voice is one entry from the synthesis catalog.
type Voice struct {
	VoiceID       string   `json:"voice_id"`
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	Language      string   `json:"language"`
	Accent        string   `json:"accent,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	QualityRating int      `json:"quality_rating,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Description   string   `json:"description,omitempty"`
	IsPremium     bool     `json:"is_premium,omitempty"`
}

// Language is a synthesis language option.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Provider describes one TTS engine behind the backend.
type Provider struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Quality     string `json:"quality,omitempty"`
}

type voicesEnvelope struct {
	Voices []Voice `json:"voices"`
	Count  int     `json:"count"`
}

type languagesEnvelope struct {
	Languages []Language `json:"languages"`
	Count     int        `json:"count"`
}

type providersEnvelope struct {
	Providers []Provider `json:"providers"`
}

type setDefaultRequest struct {
	VoiceID string `json:"voice_id"`
}

type settingsEnvelope struct {
	Speed float64 `json:"speed"`
	Pitch float64 `json:"pitch"`
}

type convertRequest struct {
	Text     string  `json:"text"`
	VoiceID  string  `json:"voice_id,omitempty"`
	Language string  `json:"language,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Pitch    float64 `json:"pitch,omitempty"`
}

type convertResponse struct {
	Audio    string  `json:"audio"`
	VoiceID  string  `json:"voice_id"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
}

// NewClient creates a TTS client on the shared transport.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Voices lists the full synthesis catalog.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	var env voicesEnvelope
	if err := c.api.Get(ctx, "/api/tts/voices", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to fetch voices: %w", err)
	}
	return env.Voices, nil
}

// Languages lists the languages voices are available in.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var env languagesEnvelope
	if err := c.api.Get(ctx, "/api/tts/voices/languages", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}
	return env.Languages, nil
}

// Providers lists the TTS engines the backend can synthesize with.
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	var env providersEnvelope
	if err := c.api.Get(ctx, "/api/tts/voices/providers", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	return env.Providers, nil
}

// DefaultVoice returns the account-wide default voice. The backend
// falls back to its built-in default when none is set.
func (c *Client) DefaultVoice(ctx context.Context) (*Voice, error) {
	var v Voice
	if err := c.api.Get(ctx, "/api/tts/voices/default", nil, &v); err != nil {
		return nil, fmt.Errorf("failed to fetch default voice: %w", err)
	}
	return &v, nil
}

// SetDefaultVoice stores voiceID as the account default. An unknown id
// comes back as a 400.
func (c *Client) SetDefaultVoice(ctx context.Context, voiceID string) error {
	if voiceID == "" {
		return fmt.Errorf("voice id is required")
	}
	if err := c.api.Post(ctx, "/api/tts/voices/default", nil, setDefaultRequest{VoiceID: voiceID}, nil); err != nil {
		return fmt.Errorf("failed to set default voice: %w", err)
	}
	return nil
}

// Settings fetches the stored speed and pitch.
func (c *Client) Settings(ctx context.Context) (speed, pitch float64, err error) {
	var env settingsEnvelope
	if err := c.api.Get(ctx, "/api/tts/settings", nil, &env); err != nil {
		return 0, 0, fmt.Errorf("failed to fetch voice settings: %w", err)
	}
	return env.Speed, env.Pitch, nil
}

// SaveSettings stores speed and pitch, clamped to the backend's range.
// The endpoint takes both as query parameters on POST.
func (c *Client) SaveSettings(ctx context.Context, speed, pitch float64) error {
	q := url.Values{}
	q.Set("speed", strconv.FormatFloat(clampRate(speed), 'g', -1, 64))
	q.Set("pitch", strconv.FormatFloat(clampRate(pitch), 'g', -1, 64))
	if err := c.api.Post(ctx, "/api/tts/settings", q, nil, nil); err != nil {
		return fmt.Errorf("failed to save voice settings: %w", err)
	}
	return nil
}

// Convert synthesizes text and returns the decoded audio bytes.
func (c *Client) Convert(ctx context.Context, text, voiceID, language string, speed, pitch float64) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	req := convertRequest{
		Text:     text,
		VoiceID:  voiceID,
		Language: language,
		Speed:    clampRate(speed),
		Pitch:    clampRate(pitch),
	}
	var resp convertResponse
	if err := c.api.Post(ctx, "/api/tts/convert", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}
	if resp.Audio == "" {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	return audio, nil
}

func clampRate(v float64) float64 {
	if v < minRate {
		return minRate
	}
	if v > maxRate {
		return maxRate
	}
	return v
}
