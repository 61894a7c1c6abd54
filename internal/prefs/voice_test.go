package prefs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/chattalk/talk-cli/internal/localstore"
)

func TestVoiceInitDefaults(t *testing.T) {
	m := NewVoiceManager(testStore(t), deadServer(t))
	m.Init(context.Background())

	if m.VoiceID() != DefaultVoiceID {
		t.Errorf("VoiceID = %q, want %q", m.VoiceID(), DefaultVoiceID)
	}
	if m.Language() != DefaultLanguage {
		t.Errorf("Language = %q, want %q", m.Language(), DefaultLanguage)
	}
	if m.Speed() != 1.0 || m.Pitch() != 1.0 {
		t.Errorf("Speed/Pitch = %v/%v, want 1/1", m.Speed(), m.Pitch())
	}
}

func TestVoiceInitLoadsLocalKeys(t *testing.T) {
	store := testStore(t)
	store.Set(localstore.KeyPreferredVoice, "edge_ru_dmitry")
	store.Set(localstore.KeyPreferredLanguage, "ru")
	store.Set(localstore.KeyVoiceSpeed, "1.5")
	store.Set(localstore.KeyVoicePitch, "0.8")

	m := NewVoiceManager(store, deadServer(t))
	m.Init(context.Background())

	if m.VoiceID() != "edge_ru_dmitry" {
		t.Errorf("VoiceID = %q, want edge_ru_dmitry", m.VoiceID())
	}
	if m.Language() != "ru" {
		t.Errorf("Language = %q, want ru", m.Language())
	}
	if m.Speed() != 1.5 {
		t.Errorf("Speed = %v, want 1.5", m.Speed())
	}
	if m.Pitch() != 0.8 {
		t.Errorf("Pitch = %v, want 0.8", m.Pitch())
	}
}

func TestVoiceInitIgnoresCorruptRates(t *testing.T) {
	store := testStore(t)
	store.Set(localstore.KeyVoiceSpeed, "fast")
	store.Set(localstore.KeyVoicePitch, "9000")

	m := NewVoiceManager(store, deadServer(t))
	m.Init(context.Background())

	if m.Speed() != 1.0 {
		t.Errorf("Speed = %v, want 1.0 for unparseable value", m.Speed())
	}
	if m.Pitch() != MaxRate {
		t.Errorf("Pitch = %v, want clamp to %v", m.Pitch(), MaxRate)
	}
}

func TestVoiceInitRemoteEnrichment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tts/voices/default":
			json.NewEncoder(w).Encode(map[string]string{"voice_id": "edge_en_jenny"})
		case "/api/tts/settings":
			json.NewEncoder(w).Encode(map[string]float64{"speed": 1.25, "pitch": 0.75})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := testStore(t)
	store.Set(localstore.KeyVoiceSpeed, "1.5")

	m := NewVoiceManager(store, apiClient(srv.URL))
	m.Init(context.Background())

	if m.VoiceID() != "edge_en_jenny" {
		t.Errorf("VoiceID = %q, want backend default", m.VoiceID())
	}
	if m.Speed() != 1.25 || m.Pitch() != 0.75 {
		t.Errorf("Speed/Pitch = %v/%v, want backend 1.25/0.75", m.Speed(), m.Pitch())
	}

	// Session-only enrichment: the stored value keeps the user's choice.
	v, err := store.Get(localstore.KeyVoiceSpeed)
	if err != nil || v != "1.5" {
		t.Errorf("stored speed = %q (%v), want untouched 1.5", v, err)
	}
}

func TestVoiceSetSurvivesRestart(t *testing.T) {
	store := testStore(t)

	m := NewVoiceManager(store, deadServer(t))
	m.Init(context.Background())
	if err := m.SetVoice(context.Background(), "edge_de_katja"); err != nil {
		t.Fatalf("SetVoice failed: %v", err)
	}
	m.SetSpeed(context.Background(), 1.75)

	m2 := NewVoiceManager(store, deadServer(t))
	m2.Init(context.Background())
	if m2.VoiceID() != "edge_de_katja" {
		t.Errorf("VoiceID after restart = %q, want edge_de_katja", m2.VoiceID())
	}
	if m2.Speed() != 1.75 {
		t.Errorf("Speed after restart = %v, want 1.75", m2.Speed())
	}
}

func TestVoiceSetVoiceRejectsEmpty(t *testing.T) {
	m := NewVoiceManager(testStore(t), deadServer(t))
	if err := m.SetVoice(context.Background(), ""); err == nil {
		t.Error("expected error for empty voice id")
	}
}

func TestVoiceRateClamping(t *testing.T) {
	m := NewVoiceManager(testStore(t), deadServer(t))

	m.SetSpeed(context.Background(), 5.0)
	if m.Speed() != MaxRate {
		t.Errorf("Speed = %v, want clamp to %v", m.Speed(), MaxRate)
	}
	m.SetSpeed(context.Background(), 0.1)
	if m.Speed() != MinRate {
		t.Errorf("Speed = %v, want clamp to %v", m.Speed(), MinRate)
	}
	m.SetPitch(context.Background(), -1)
	if m.Pitch() != MinRate {
		t.Errorf("Pitch = %v, want clamp to %v", m.Pitch(), MinRate)
	}
}

func TestVoiceSettingsPushedAsQueryParams(t *testing.T) {
	pushed := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/tts/settings" {
			pushed <- r.URL.Query()
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	m := NewVoiceManager(testStore(t), apiClient(srv.URL))
	m.Init(context.Background())
	m.SetSpeed(context.Background(), 1.5)

	select {
	case q := <-pushed:
		if q.Get("speed") != "1.5" {
			t.Errorf("speed param = %q, want 1.5", q.Get("speed"))
		}
		if q.Get("pitch") != "1" {
			t.Errorf("pitch param = %q, want 1", q.Get("pitch"))
		}
	case <-time.After(2 * time.Second):
		t.Error("backend never saw the settings push")
	}
}

func TestSetLanguageIsLocalOnly(t *testing.T) {
	store := testStore(t)
	m := NewVoiceManager(store, deadServer(t))
	m.Init(context.Background())

	if err := m.SetLanguage(context.Background(), "ru"); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if m.Language() != "ru" {
		t.Errorf("Language = %q, want ru", m.Language())
	}
	v, err := store.Get(localstore.KeyPreferredLanguage)
	if err != nil || v != "ru" {
		t.Errorf("stored language = %q (%v), want ru", v, err)
	}
}
