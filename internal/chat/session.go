package chat

import (
	"context"
	"fmt"
)

// Session pairs the chat client with a rolling transcript. The backend
// keeps its own server-side history; this transcript only exists so the
// user can scroll back and so a restarted client shows where the last
// conversation left off.
type Session struct {
	client   *Client
	history  *History
	language string
}

func NewSession(client *Client, language string, maxHistory int) *Session {
	return &Session{
		client:   client,
		history:  NewHistory(maxHistory),
		language: language,
	}
}

// Send records the user message, asks the backend, and records the
// reply. A failed request leaves the user message in the transcript so
// the user can see what went unanswered.
func (s *Session) Send(ctx context.Context, message string) (*Reply, error) {
	s.history.Add("user", message)

	reply, err := s.client.Send(ctx, message, s.language)
	if err != nil {
		return nil, err
	}

	s.history.Add("assistant", reply.Response)
	return reply, nil
}

// SetLanguage switches the conversation language for subsequent sends.
func (s *Session) SetLanguage(code string) error {
	if code == "" {
		return fmt.Errorf("language code is required")
	}
	s.language = code
	return nil
}

func (s *Session) Language() string {
	return s.language
}

func (s *Session) Clear() {
	s.history.Clear()
}

func (s *Session) IsEmpty() bool {
	return s.history.IsEmpty()
}

func (s *Session) MessageCount() int {
	return s.history.Size()
}

func (s *Session) Save(path string) error {
	return s.history.Save(path)
}

func (s *Session) Load(path string) error {
	return s.history.Load(path)
}
