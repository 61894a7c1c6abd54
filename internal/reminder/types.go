package reminder

// Reminder types understood by the backend.
const (
	TypeTimeBased     = "time_based"
	TypeRecurring     = "recurring"
	TypeLocationBased = "location_based"
	TypeCustom        = "custom"
)

// Priority levels for reminders.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Snooze durations the backend accepts.
const (
	Snooze5Min   = "5min"
	Snooze15Min  = "15min"
	Snooze30Min  = "30min"
	Snooze1Hr    = "1hr"
	Snooze2Hr    = "2hr"
	SnoozeCustom = "custom"
)

// Reminder is the server's representation of a reminder. Timestamps stay
// strings; the backend emits bare ISO-8601 without a zone.
type Reminder struct {
	ID                int64                  `json:"id"`
	UserID            int                    `json:"user_id"`
	Title             string                 `json:"title"`
	Message           string                 `json:"message"`
	Type              string                 `json:"type"`
	ScheduledTime     string                 `json:"scheduled_time,omitempty"`
	TriggerTime       string                 `json:"trigger_time,omitempty"`
	RecurrencePattern string                 `json:"recurrence_pattern,omitempty"`
	RecurrenceDays    []string               `json:"recurrence_days,omitempty"`
	Priority          string                 `json:"priority"`
	Categories        []string               `json:"categories,omitempty"`
	LinkedItemID      *int64                 `json:"linked_item_id,omitempty"`
	LinkedItemType    string                 `json:"linked_item_type,omitempty"`
	TriggerConditions map[string]interface{} `json:"trigger_conditions,omitempty"`
	Enabled           bool                   `json:"enabled"`
	Completed         bool                   `json:"completed"`
	Snoozed           bool                   `json:"snoozed"`
	SnoozeUntil       string                 `json:"snooze_until,omitempty"`
	CreatedAt         string                 `json:"created_at,omitempty"`
	UpdatedAt         string                 `json:"updated_at,omitempty"`
	LastTriggeredAt   string                 `json:"last_triggered_at,omitempty"`
	TriggerCount      int                    `json:"trigger_count"`
}

// Status folds the flag set into one word for display. Completed beats
// snoozed beats disabled.
func (r *Reminder) Status() string {
	switch {
	case r.Completed:
		return "completed"
	case r.Snoozed:
		return "snoozed"
	case r.Enabled:
		return "active"
	default:
		return "disabled"
	}
}

// Template is a server-defined reminder preset.
type Template struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	ReminderType string `json:"reminder_type"`
	Priority     string `json:"priority"`
	Category     string `json:"category"`
}

// Draft carries the fields for creating a reminder. Optional fields are
// omitted so the backend applies its own defaults. Note the asymmetry:
// requests say reminder_type, responses say type.
type Draft struct {
	Title             string                 `json:"title"`
	Message           string                 `json:"message"`
	ReminderType      string                 `json:"reminder_type,omitempty"`
	TriggerTime       string                 `json:"trigger_time,omitempty"`
	RecurrencePattern string                 `json:"recurrence_pattern,omitempty"`
	RecurrenceDays    []string               `json:"recurrence_days,omitempty"`
	Priority          string                 `json:"priority,omitempty"`
	Categories        []string               `json:"categories,omitempty"`
	LinkedItemID      *int64                 `json:"linked_item_id,omitempty"`
	LinkedItemType    string                 `json:"linked_item_type,omitempty"`
	TriggerConditions map[string]interface{} `json:"trigger_conditions,omitempty"`
	Enabled           *bool                  `json:"enabled,omitempty"`
}

// Patch holds optional updates for an existing reminder; nil fields are
// left unchanged by the server.
type Patch struct {
	Title             *string   `json:"title,omitempty"`
	Message           *string   `json:"message,omitempty"`
	ReminderType      *string   `json:"reminder_type,omitempty"`
	TriggerTime       *string   `json:"trigger_time,omitempty"`
	RecurrencePattern *string   `json:"recurrence_pattern,omitempty"`
	RecurrenceDays    *[]string `json:"recurrence_days,omitempty"`
	Priority          *string   `json:"priority,omitempty"`
	Categories        *[]string `json:"categories,omitempty"`
	Enabled           *bool     `json:"enabled,omitempty"`
	Completed         *bool     `json:"completed,omitempty"`
	Snoozed           *bool     `json:"snoozed,omitempty"`
}
