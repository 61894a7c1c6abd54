package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Entry is one line of the conversation transcript.
type Entry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type History struct {
	entries []Entry
	maxSize int
}

type historyFile struct {
	Entries []Entry   `json:"entries"`
	SavedAt time.Time `json:"saved_at"`
}

func NewHistory(maxSize int) *History {
	return &History{
		entries: make([]Entry, 0),
		maxSize: maxSize,
	}
}

// Add appends an entry, dropping the oldest ones past maxSize.
func (h *History) Add(role, content string) {
	h.entries = append(h.entries, Entry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})

	for len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}
}

func (h *History) All() []Entry {
	return h.entries
}

func (h *History) Clear() {
	h.entries = make([]Entry, 0)
}

func (h *History) Size() int {
	return len(h.entries)
}

func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

// Save writes the transcript as indented JSON, readable only by the
// owner since conversations may contain personal content.
func (h *History) Save(path string) error {
	data := historyFile{
		Entries: h.entries,
		SavedAt: time.Now(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// Load replaces the transcript with the saved one, re-applying the
// size limit in case the config shrank since the last save.
func (h *History) Load(path string) error {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}

	var data historyFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	h.entries = data.Entries
	for len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}

	return nil
}
