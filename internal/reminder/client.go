package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/chattalk/talk-cli/internal/api"
)

const basePath = "/api/reminders"

// Client keeps a local mirror of the backend's reminder list. The server
// owns ids and ordering; every mutation reconciles the mirror from the
// object the server returns, never from client-side guesses. Errors stop
// here: a failed call logs at debug level and hands back nil, an empty
// list or false, leaving the mirror as it was.
//
// The due watcher polls the same client the prompt loop mutates, so
// userID and mirror sit behind a mutex.
type Client struct {
	api *api.Client

	mu     sync.Mutex
	userID int
	mirror []Reminder
}

// The backend answers HTTP 200 with success=false for declared failures,
// message carrying the reason.
type reminderEnvelope struct {
	Success  bool      `json:"success"`
	Reminder *Reminder `json:"reminder,omitempty"`
	Message  string    `json:"message,omitempty"`
}

type listEnvelope struct {
	Success   bool       `json:"success"`
	Reminders []Reminder `json:"reminders"`
	Count     int        `json:"count"`
	Message   string     `json:"message,omitempty"`
}

type templatesEnvelope struct {
	Success   bool       `json:"success"`
	Templates []Template `json:"templates"`
	Message   string     `json:"message,omitempty"`
}

type snoozeRequest struct {
	Duration      string `json:"duration"`
	CustomMinutes int    `json:"custom_minutes,omitempty"`
}

type fromTemplateRequest struct {
	TemplateID    string `json:"template_id"`
	TriggerTime   string `json:"trigger_time"`
	CustomMessage string `json:"custom_message,omitempty"`
}

// Filters narrow a List call. The backend only drops completed
// reminders when asked, so callers wanting the usual view pass
// IncludeCompleted true.
type Filters struct {
	EnabledOnly      bool
	Upcoming         bool
	IncludeCompleted bool
}

// NewClient starts with an empty mirror for the default user.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient, userID: 1}
}

// SetUserID switches whose reminders are fetched; the session profile
// drives this after login.
func (c *Client) SetUserID(id int) {
	if id > 0 {
		c.mu.Lock()
		c.userID = id
		c.mu.Unlock()
	}
}

// List refreshes the mirror. On success the mirror is replaced wholesale
// with the server's list; on failure the previous mirror survives and a
// copy of it is returned.
func (c *Client) List(ctx context.Context, f Filters) []Reminder {
	q := c.userQuery()
	q.Set("enabled_only", strconv.FormatBool(f.EnabledOnly))
	q.Set("upcoming", strconv.FormatBool(f.Upcoming))
	q.Set("include_completed", strconv.FormatBool(f.IncludeCompleted))

	var env listEnvelope
	if err := c.api.Get(ctx, basePath, q, &env); err != nil {
		slog.Debug("reminder list failed", "error", err)
		return c.Mirror()
	}
	if !env.Success {
		slog.Debug("reminder list rejected", "message", env.Message)
		return c.Mirror()
	}

	c.mu.Lock()
	c.mirror = env.Reminders
	c.mu.Unlock()
	return c.Mirror()
}

// Create posts the draft and appends the server's object to the mirror.
// Nothing is inserted before the server confirms; nil means the reminder
// was not made.
func (c *Client) Create(ctx context.Context, draft Draft) *Reminder {
	var env reminderEnvelope
	if err := c.api.Post(ctx, basePath, c.userQuery(), draft, &env); err != nil {
		slog.Debug("reminder create failed", "error", err)
		return nil
	}
	if !env.Success || env.Reminder == nil {
		slog.Debug("reminder create rejected", "message", env.Message)
		return nil
	}

	c.mu.Lock()
	c.mirror = append(c.mirror, *env.Reminder)
	c.mu.Unlock()
	return env.Reminder
}

// CreateFromTemplate instantiates a server-side template at the given
// trigger time, optionally overriding its message.
func (c *Client) CreateFromTemplate(ctx context.Context, templateID, triggerTime, customMessage string) *Reminder {
	body := fromTemplateRequest{TemplateID: templateID, TriggerTime: triggerTime, CustomMessage: customMessage}
	var env reminderEnvelope
	if err := c.api.Post(ctx, basePath+"/from-template", c.userQuery(), body, &env); err != nil {
		slog.Debug("reminder from template failed", "error", err)
		return nil
	}
	if !env.Success || env.Reminder == nil {
		slog.Debug("reminder from template rejected", "message", env.Message)
		return nil
	}

	c.mu.Lock()
	c.mirror = append(c.mirror, *env.Reminder)
	c.mu.Unlock()
	return env.Reminder
}

// Update sends the patch and swaps the mirror entry for exactly what the
// server sent back. A failed update leaves the mirror untouched.
func (c *Client) Update(ctx context.Context, id int64, patch Patch) *Reminder {
	var env reminderEnvelope
	if err := c.api.Put(ctx, itemPath(id), nil, patch, &env); err != nil {
		slog.Debug("reminder update failed", "id", id, "error", err)
		return nil
	}
	if !env.Success || env.Reminder == nil {
		slog.Debug("reminder update rejected", "id", id, "message", env.Message)
		return nil
	}

	c.replace(*env.Reminder)
	return env.Reminder
}

// Snooze pushes the trigger time back. duration is one of the Snooze
// constants; customMinutes only matters with SnoozeCustom.
func (c *Client) Snooze(ctx context.Context, id int64, duration string, customMinutes int) *Reminder {
	if duration == "" {
		duration = Snooze15Min
	}
	body := snoozeRequest{Duration: duration, CustomMinutes: customMinutes}
	var env reminderEnvelope
	if err := c.api.Post(ctx, itemPath(id)+"/snooze", nil, body, &env); err != nil {
		slog.Debug("reminder snooze failed", "id", id, "error", err)
		return nil
	}
	if !env.Success || env.Reminder == nil {
		slog.Debug("reminder snooze rejected", "id", id, "message", env.Message)
		return nil
	}

	c.replace(*env.Reminder)
	return env.Reminder
}

// Complete marks the reminder done.
func (c *Client) Complete(ctx context.Context, id int64) *Reminder {
	return c.lifecycle(ctx, id, "complete")
}

// Trigger fires the reminder by hand, bumping its trigger count.
func (c *Client) Trigger(ctx context.Context, id int64) *Reminder {
	return c.lifecycle(ctx, id, "trigger")
}

func (c *Client) lifecycle(ctx context.Context, id int64, action string) *Reminder {
	var env reminderEnvelope
	if err := c.api.Post(ctx, itemPath(id)+"/"+action, nil, nil, &env); err != nil {
		slog.Debug("reminder "+action+" failed", "id", id, "error", err)
		return nil
	}
	if !env.Success || env.Reminder == nil {
		slog.Debug("reminder "+action+" rejected", "id", id, "message", env.Message)
		return nil
	}

	c.replace(*env.Reminder)
	return env.Reminder
}

// Delete removes the reminder on the server first; the mirror entry only
// goes away after the server confirms, so a failed delete stays visible.
func (c *Client) Delete(ctx context.Context, id int64) bool {
	var env reminderEnvelope
	if err := c.api.Delete(ctx, itemPath(id), nil, &env); err != nil {
		slog.Debug("reminder delete failed", "id", id, "error", err)
		return false
	}
	if !env.Success {
		slog.Debug("reminder delete rejected", "id", id, "message", env.Message)
		return false
	}

	c.mu.Lock()
	for i := range c.mirror {
		if c.mirror[i].ID == id {
			c.mirror = append(c.mirror[:i], c.mirror[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return true
}

// Due fetches reminders whose trigger time has passed. Read-through: the
// mirror is left alone, the watcher polls this on its own cadence.
func (c *Client) Due(ctx context.Context) []Reminder {
	return c.readThrough(ctx, basePath+"/due", c.userQuery())
}

// ByCategory is a read-through filtered fetch.
func (c *Client) ByCategory(ctx context.Context, category string) []Reminder {
	return c.readThrough(ctx, basePath+"/category/"+url.PathEscape(category), c.userQuery())
}

// ByPriority is a read-through filtered fetch.
func (c *Client) ByPriority(ctx context.Context, priority string) []Reminder {
	return c.readThrough(ctx, basePath+"/priority/"+url.PathEscape(priority), c.userQuery())
}

func (c *Client) readThrough(ctx context.Context, path string, q url.Values) []Reminder {
	var env listEnvelope
	if err := c.api.Get(ctx, path, q, &env); err != nil {
		slog.Debug("reminder fetch failed", "path", path, "error", err)
		return nil
	}
	if !env.Success {
		slog.Debug("reminder fetch rejected", "path", path, "message", env.Message)
		return nil
	}
	return env.Reminders
}

// Templates lists the server's reminder presets.
func (c *Client) Templates(ctx context.Context) []Template {
	var env templatesEnvelope
	if err := c.api.Get(ctx, basePath+"/templates", nil, &env); err != nil {
		slog.Debug("template list failed", "error", err)
		return nil
	}
	if !env.Success {
		slog.Debug("template list rejected", "message", env.Message)
		return nil
	}
	return env.Templates
}

// Mirror returns a copy of the cached list in server order.
func (c *Client) Mirror() []Reminder {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Reminder, len(c.mirror))
	copy(out, c.mirror)
	return out
}

func (c *Client) userQuery() url.Values {
	c.mu.Lock()
	id := c.userID
	c.mu.Unlock()

	q := url.Values{}
	q.Set("user_id", strconv.Itoa(id))
	return q
}

func (c *Client) replace(r Reminder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mirror {
		if c.mirror[i].ID == r.ID {
			c.mirror[i] = r
			return
		}
	}
}

func itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", basePath, id)
}
