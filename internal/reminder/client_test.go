package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/config"
)

// fakeBackend serves the reminder surface the way the real server does:
// HTTP 200 always, success flag in the envelope, the authoritative
// object echoed back on every mutation.
type fakeBackend struct {
	reminders []Reminder
	nextID    int64
	rejectAll bool
	lastQuery map[string]string
}

func newFakeBackend(seed ...Reminder) *fakeBackend {
	b := &fakeBackend{nextID: 100}
	for _, r := range seed {
		if r.ID >= b.nextID {
			b.nextID = r.ID + 1
		}
		b.reminders = append(b.reminders, r)
	}
	return b
}

func (b *fakeBackend) find(id int64) *Reminder {
	for i := range b.reminders {
		if b.reminders[i].ID == id {
			return &b.reminders[i]
		}
	}
	return nil
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.lastQuery = map[string]string{}
	for k := range r.URL.Query() {
		b.lastQuery[k] = r.URL.Query().Get(k)
	}
	if b.rejectAll {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "database unavailable"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/reminders")
	switch {
	case path == "" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminders": b.reminders, "count": len(b.reminders)})
	case path == "" && r.Method == http.MethodPost:
		var draft Draft
		json.NewDecoder(r.Body).Decode(&draft)
		created := Reminder{
			ID:       b.nextID,
			UserID:   1,
			Title:    draft.Title,
			Message:  draft.Message,
			Type:     draft.ReminderType,
			Priority: draft.Priority,
			Enabled:  true,
			// The server always stamps its own timestamps.
			CreatedAt: "2026-03-01T09:00:00",
			UpdatedAt: "2026-03-01T09:00:00",
		}
		if created.Type == "" {
			created.Type = TypeTimeBased
		}
		if created.Priority == "" {
			created.Priority = PriorityMedium
		}
		b.nextID++
		b.reminders = append(b.reminders, created)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminder": created})
	case strings.HasSuffix(path, "/snooze"):
		id := pathID(path, "/snooze")
		rem := b.find(id)
		if rem == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Reminder not found"})
			return
		}
		rem.Snoozed = true
		rem.SnoozeUntil = "2026-03-01T09:15:00"
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminder": rem})
	case strings.HasSuffix(path, "/complete"):
		id := pathID(path, "/complete")
		rem := b.find(id)
		if rem == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Reminder not found"})
			return
		}
		rem.Completed = true
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminder": rem})
	case r.Method == http.MethodPut:
		id := pathID(path, "")
		rem := b.find(id)
		if rem == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Reminder not found"})
			return
		}
		var patch Patch
		json.NewDecoder(r.Body).Decode(&patch)
		if patch.Title != nil {
			rem.Title = *patch.Title
		}
		if patch.Priority != nil {
			rem.Priority = *patch.Priority
		}
		rem.UpdatedAt = "2026-03-01T10:00:00"
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminder": rem})
	case r.Method == http.MethodDelete:
		id := pathID(path, "")
		for i := range b.reminders {
			if b.reminders[i].ID == id {
				b.reminders = append(b.reminders[:i], b.reminders[i+1:]...)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Reminder deleted"})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Reminder not found"})
	case path == "/due":
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "reminders": b.reminders, "count": len(b.reminders)})
	case path == "/templates":
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "templates": []Template{
			{ID: "water_reminder", Name: "Drink Water", Title: "Hydration Reminder", Priority: PriorityLow, Category: "health"},
		}})
	default:
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Reminder not found"})
	}
}

func pathID(path, suffix string) int64 {
	s := strings.TrimSuffix(strings.TrimPrefix(path, "/"), suffix)
	s = strings.TrimSuffix(s, "/")
	var id int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

func testClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return NewClient(api.NewClient(config.ServerConfig{BaseURL: srv.URL, Timeout: 5}))
}

func seedReminder(id int64, title string) Reminder {
	return Reminder{
		ID:       id,
		UserID:   1,
		Title:    title,
		Message:  "msg " + title,
		Type:     TypeTimeBased,
		Priority: PriorityMedium,
		Enabled:  true,
	}
}

func TestListReplacesMirrorWholesale(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "one"), seedReminder(2, "two"))
	c := testClient(t, backend)

	got := c.List(context.Background(), Filters{IncludeCompleted: true})
	if len(got) != 2 {
		t.Fatalf("List returned %d, want 2", len(got))
	}

	// Server-side state changed; the next List must not merge.
	backend.reminders = backend.reminders[:1]
	got = c.List(context.Background(), Filters{IncludeCompleted: true})
	if len(got) != 1 || len(c.Mirror()) != 1 {
		t.Errorf("mirror = %d entries, want full replace to 1", len(c.Mirror()))
	}
}

func TestListFailureKeepsMirror(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "one"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	backend.rejectAll = true
	got := c.List(context.Background(), Filters{IncludeCompleted: true})
	if len(got) != 1 {
		t.Errorf("failed List returned %d entries, want the surviving mirror", len(got))
	}
}

func TestCreateAppendsServerObject(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "existing"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	created := c.Create(context.Background(), Draft{Title: "Call dentist", Message: "ask about friday", Priority: PriorityUrgent})
	if created == nil {
		t.Fatal("Create returned nil")
	}
	if created.ID == 0 {
		t.Error("id must come from the server")
	}
	if created.Priority != PriorityUrgent {
		t.Errorf("priority = %q, want urgent", created.Priority)
	}

	mirror := c.Mirror()
	if len(mirror) != 2 {
		t.Fatalf("mirror = %d entries, want 2 after create", len(mirror))
	}
	if mirror[1].CreatedAt == "" {
		t.Error("mirror entry must be the server object, timestamps included")
	}
}

func TestCreateFailureLeavesMirror(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "existing"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	backend.rejectAll = true
	if created := c.Create(context.Background(), Draft{Title: "nope", Message: "nope"}); created != nil {
		t.Fatal("expected nil on declared failure")
	}
	if len(c.Mirror()) != 1 {
		t.Error("failed create must not grow the mirror")
	}
}

func TestUpdateReplacesEntryFieldForField(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "old title"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	title := "new title"
	updated := c.Update(context.Background(), 1, Patch{Title: &title})
	if updated == nil {
		t.Fatal("Update returned nil")
	}

	mirror := c.Mirror()
	if !reflect.DeepEqual(mirror[0], *updated) {
		t.Errorf("mirror entry %+v differs from server object %+v", mirror[0], *updated)
	}
	if mirror[0].UpdatedAt != "2026-03-01T10:00:00" {
		t.Error("server-stamped fields must land in the mirror, not a client merge")
	}
}

func TestUpdateFailureLeavesEntry(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "old title"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	title := "new title"
	if updated := c.Update(context.Background(), 99, Patch{Title: &title}); updated != nil {
		t.Fatal("expected nil for unknown id")
	}
	if c.Mirror()[0].Title != "old title" {
		t.Error("failed update must not touch the mirror")
	}
}

func TestDeleteWaitsForConfirmation(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "keep me"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	backend.rejectAll = true
	if c.Delete(context.Background(), 1) {
		t.Fatal("rejected delete must report false")
	}
	if len(c.Mirror()) != 1 {
		t.Error("entry must stay visible until the server confirms")
	}

	backend.rejectAll = false
	if !c.Delete(context.Background(), 1) {
		t.Fatal("confirmed delete must report true")
	}
	if len(c.Mirror()) != 0 {
		t.Error("confirmed delete must drop the mirror entry")
	}
}

func TestSnoozeReconcilesFromServer(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "standup"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	snoozed := c.Snooze(context.Background(), 1, Snooze15Min, 0)
	if snoozed == nil {
		t.Fatal("Snooze returned nil")
	}
	entry := c.Mirror()[0]
	if !entry.Snoozed || entry.SnoozeUntil == "" {
		t.Errorf("mirror entry = %+v, want server snooze state", entry)
	}
	if entry.Status() != "snoozed" {
		t.Errorf("Status = %q, want snoozed", entry.Status())
	}
}

func TestCompleteOverridesSnooze(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "standup"))
	c := testClient(t, backend)
	c.List(context.Background(), Filters{IncludeCompleted: true})

	c.Snooze(context.Background(), 1, Snooze5Min, 0)
	completed := c.Complete(context.Background(), 1)
	if completed == nil {
		t.Fatal("Complete returned nil")
	}
	if got := c.Mirror()[0].Status(); got != "completed" {
		t.Errorf("Status = %q, completed must win over snoozed", got)
	}
}

func TestDueIsReadThrough(t *testing.T) {
	backend := newFakeBackend(seedReminder(1, "due now"))
	c := testClient(t, backend)

	due := c.Due(context.Background())
	if len(due) != 1 {
		t.Fatalf("Due returned %d, want 1", len(due))
	}
	if len(c.Mirror()) != 0 {
		t.Error("Due must not populate the mirror")
	}
}

func TestUserIDQueryParam(t *testing.T) {
	backend := newFakeBackend()
	c := testClient(t, backend)

	c.List(context.Background(), Filters{})
	if backend.lastQuery["user_id"] != "1" {
		t.Errorf("user_id = %q, want default 1", backend.lastQuery["user_id"])
	}

	c.SetUserID(7)
	c.List(context.Background(), Filters{})
	if backend.lastQuery["user_id"] != "7" {
		t.Errorf("user_id = %q, want 7 after SetUserID", backend.lastQuery["user_id"])
	}
}

func TestTemplatesFetch(t *testing.T) {
	c := testClient(t, newFakeBackend())
	templates := c.Templates(context.Background())
	if len(templates) != 1 || templates[0].ID != "water_reminder" {
		t.Errorf("templates = %+v, want the water_reminder preset", templates)
	}
}

func TestStatusPrecedence(t *testing.T) {
	tests := []struct {
		name string
		r    Reminder
		want string
	}{
		{"completed wins over everything", Reminder{Completed: true, Snoozed: true, Enabled: true}, "completed"},
		{"snoozed wins over enabled", Reminder{Snoozed: true, Enabled: true}, "snoozed"},
		{"enabled alone is active", Reminder{Enabled: true}, "active"},
		{"nothing set is disabled", Reminder{}, "disabled"},
	}

	for _, tt := range tests {
		if got := tt.r.Status(); got != tt.want {
			t.Errorf("%s: Status() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// The due watcher polls from its own goroutine while login switches the
// active user on the prompt loop's goroutine.
func TestConcurrentDueAndUserSwitch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"reminders": []Reminder{seedReminder(1, "due")},
			"count":     1,
		})
	}))
	t.Cleanup(srv.Close)
	c := NewClient(api.NewClient(config.ServerConfig{BaseURL: srv.URL, Timeout: 5}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			c.Due(context.Background())
			c.List(context.Background(), Filters{IncludeCompleted: true})
		}
	}()
	for i := 2; i < 52; i++ {
		c.SetUserID(i)
		c.Mirror()
	}
	<-done

	if got := c.userQuery().Get("user_id"); got != "51" {
		t.Errorf("user_id after switches = %s, want 51", got)
	}
}
