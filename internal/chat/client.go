package chat

import (
	"context"
	"fmt"

	"github.com/chattalk/talk-cli/internal/api"
)

// Client sends chat messages to the assistant backend. The backend owns
// model selection and aggregation; this client only speaks its JSON
// surface.
type Client struct {
	api *api.Client
}

// Reply is the backend's answer to one chat message. Speak carries a
// markdown-stripped variant of the response meant for synthesis; it is
// empty when the backend decided the reply should not be spoken.
// Blocked replies carry an explanation in Response and nothing else.
type Reply struct {
	Response  string `json:"response"`
	Speak     string `json:"speak,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Blocked   bool   `json:"blocked,omitempty"`
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

// NewClient creates a chat client on the shared transport.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Send posts one message and returns the backend's reply.
func (c *Client) Send(ctx context.Context, message, language string) (*Reply, error) {
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	var reply Reply
	if err := c.api.Post(ctx, "/api/chat", nil, chatRequest{Message: message, Language: language}, &reply); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	if reply.Response == "" {
		return nil, fmt.Errorf("backend returned an empty reply")
	}
	return &reply, nil
}
