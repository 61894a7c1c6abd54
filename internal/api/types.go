package api

// User is the backend's profile record. Timestamps stay strings: the
// backend emits bare ISO-8601 without a zone, which time.Time would
// reject.
type User struct {
	UserID      int             `json:"user_id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	CreatedAt   string          `json:"created_at,omitempty"`
	LastLogin   string          `json:"last_login,omitempty"`
	IsActive    bool            `json:"is_active"`
	Preferences UserPreferences `json:"preferences,omitempty"`
}

// UserPreferences are the server-side defaults attached to a profile.
type UserPreferences struct {
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

// ServerInfo describes the assistant backend (GET /api/config).
type ServerInfo struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Features map[string]bool `json:"features"`
}
