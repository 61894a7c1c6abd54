package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chattalk/talk-cli/internal/reminder"
	"github.com/chattalk/talk-cli/internal/ui"
)

func (r *REPL) handleReminders(ctx context.Context, args string) error {
	parts := splitArgs(args)
	sub := ""
	if len(parts) > 0 {
		sub = strings.ToLower(parts[0])
	}

	switch sub {
	case "", "all":
		return r.listReminders(ctx, reminder.Filters{IncludeCompleted: true})

	case "upcoming":
		return r.listReminders(ctx, reminder.Filters{Upcoming: true, EnabledOnly: true})

	case "due":
		due := r.reminders.Due(ctx)
		ui.RenderReminders(r.rl.Stdout(), r.formatter, due)
		return nil

	case "templates":
		templates := r.reminders.Templates(ctx)
		ui.RenderTemplates(r.rl.Stdout(), r.formatter, templates)
		return nil

	case "add":
		title := strings.TrimSpace(strings.TrimPrefix(args, parts[0]))
		return r.addReminder(ctx, title)

	case "from":
		if len(parts) < 2 {
			return fmt.Errorf("usage: /reminders from <template-id> (see /reminders templates)")
		}
		return r.addFromTemplate(ctx, parts[1])

	case "done":
		id, err := reminderID(parts)
		if err != nil {
			return err
		}
		if done := r.reminders.Complete(ctx, id); done == nil {
			return fmt.Errorf("could not complete reminder %d", id)
		}
		r.displaySuccess(fmt.Sprintf("Reminder %d completed.", id))
		return nil

	case "snooze":
		id, err := reminderID(parts)
		if err != nil {
			return err
		}
		duration := ""
		if len(parts) > 2 {
			duration = parts[2]
		}
		snoozed := r.reminders.Snooze(ctx, id, duration, 0)
		if snoozed == nil {
			return fmt.Errorf("could not snooze reminder %d", id)
		}
		r.displaySuccess(fmt.Sprintf("Reminder %d snoozed until %s.", id, snoozed.SnoozeUntil))
		return nil

	case "rm", "delete":
		id, err := reminderID(parts)
		if err != nil {
			return err
		}
		if !r.reminders.Delete(ctx, id) {
			return fmt.Errorf("could not delete reminder %d (it is still in the list)", id)
		}
		r.displaySuccess(fmt.Sprintf("Reminder %d deleted.", id))
		return nil

	case "trigger":
		id, err := reminderID(parts)
		if err != nil {
			return err
		}
		if fired := r.reminders.Trigger(ctx, id); fired == nil {
			return fmt.Errorf("could not trigger reminder %d", id)
		}
		r.displaySuccess(fmt.Sprintf("Reminder %d triggered.", id))
		return nil

	case "cat", "category":
		if len(parts) < 2 {
			return fmt.Errorf("usage: /reminders cat <category>")
		}
		found := r.reminders.ByCategory(ctx, parts[1])
		ui.RenderReminders(r.rl.Stdout(), r.formatter, found)
		return nil

	case "pri", "priority":
		if len(parts) < 2 {
			return fmt.Errorf("usage: /reminders pri <low|medium|high|urgent>")
		}
		found := r.reminders.ByPriority(ctx, parts[1])
		ui.RenderReminders(r.rl.Stdout(), r.formatter, found)
		return nil

	default:
		return fmt.Errorf("unknown reminders subcommand: %s (type /help)", sub)
	}
}

func (r *REPL) listReminders(ctx context.Context, f reminder.Filters) error {
	r.status.Show("Fetching reminders...")
	list := r.reminders.List(ctx, f)
	r.status.Hide()
	ui.RenderReminders(r.rl.Stdout(), r.formatter, list)
	return nil
}

// addReminder walks the interactive form. Only the title is required;
// everything else falls back to the server's defaults.
func (r *REPL) addReminder(ctx context.Context, title string) error {
	var err error
	if title == "" {
		title, err = r.ask("Title: ")
		if err != nil {
			return err
		}
		if title == "" {
			return fmt.Errorf("a reminder needs a title")
		}
	}

	message, err := r.ask("Message (optional): ")
	if err != nil {
		return err
	}

	triggerTime, err := r.askTriggerTime("When (RFC3339 or +<minutes>m, empty for none): ")
	if err != nil {
		return err
	}

	priorities := []ui.SelectorOption{
		{Value: reminder.PriorityLow, Label: "low"},
		{Value: reminder.PriorityMedium, Label: "medium"},
		{Value: reminder.PriorityHigh, Label: "high"},
		{Value: reminder.PriorityUrgent, Label: "urgent"},
	}
	picked, err := ui.NewSelector(r.formatter, "Priority:", priorities, false).Run()
	if err != nil {
		return err
	}

	categories, err := r.ask("Categories (comma-separated, optional): ")
	if err != nil {
		return err
	}

	draft := reminder.Draft{
		Title:       title,
		Message:     message,
		TriggerTime: triggerTime,
		Priority:    picked[0],
	}
	for _, c := range strings.Split(categories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			draft.Categories = append(draft.Categories, c)
		}
	}

	r.status.Show("Creating reminder...")
	created := r.reminders.Create(ctx, draft)
	r.status.Hide()
	if created == nil {
		return fmt.Errorf("the reminder was not created")
	}

	r.displaySuccess(fmt.Sprintf("Reminder #%d created (%s).", created.ID, r.formatter.FormatPriority(created.Priority)))
	return nil
}

func (r *REPL) addFromTemplate(ctx context.Context, templateID string) error {
	triggerTime, err := r.askTriggerTime("When (RFC3339 or +<minutes>m): ")
	if err != nil {
		return err
	}
	if triggerTime == "" {
		return fmt.Errorf("a templated reminder needs a trigger time")
	}

	customMessage, err := r.ask("Custom message (optional): ")
	if err != nil {
		return err
	}

	r.status.Show("Creating reminder...")
	created := r.reminders.CreateFromTemplate(ctx, templateID, triggerTime, customMessage)
	r.status.Hide()
	if created == nil {
		return fmt.Errorf("the reminder was not created (check the template id)")
	}

	r.displaySuccess(fmt.Sprintf("Reminder #%d created from template %s.", created.ID, templateID))
	return nil
}

// askTriggerTime accepts an RFC3339 stamp or a relative "+30m" style
// offset, normalizing to RFC3339 for the backend.
func (r *REPL) askTriggerTime(prompt string) (string, error) {
	raw, err := r.ask(prompt)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil
	}

	if strings.HasPrefix(raw, "+") {
		minutes, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(raw, "+"), "m"))
		if err != nil || minutes <= 0 {
			return "", fmt.Errorf("invalid offset %q (use e.g. +30m)", raw)
		}
		return time.Now().Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339), nil
	}

	if _, err := time.Parse(time.RFC3339, raw); err != nil {
		return "", fmt.Errorf("invalid time %q (use RFC3339, e.g. 2026-09-01T09:00:00Z)", raw)
	}
	return raw, nil
}

func reminderID(parts []string) (int64, error) {
	if len(parts) < 2 {
		return 0, fmt.Errorf("a reminder id is required")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reminder id %q", parts[1])
	}
	return id, nil
}
