package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"
)

// Server exposes the backend reminder API as MCP tools, so an agent can
// manage the same reminders the REPL shows. It sits on the Client and
// inherits its mirror semantics.
type Server struct {
	mcpServer *server.MCPServer
	client    *Client
}

// NewServer creates the MCP server bridging the given reminder client.
func NewServer(client *Client) *Server {
	s := &Server{
		client: client,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder with a title, optional message, trigger time, priority and categories"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("message", mcp.Description("Reminder message body")),
			mcp.WithString("trigger_time", mcp.Description("Trigger time in RFC3339 format (e.g. 2026-09-01T09:00:00Z)")),
			mcp.WithString("priority", mcp.Description("Priority: low, medium, high, urgent (default: medium)")),
			mcp.WithString("categories", mcp.Description("Comma-separated category tags")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders, optionally narrowed to enabled or upcoming ones"),
			mcp.WithBoolean("enabled_only", mcp.Description("Only enabled reminders")),
			mcp.WithBoolean("upcoming", mcp.Description("Only reminders with a future trigger time")),
			mcp.WithBoolean("include_completed", mcp.Description("Include completed reminders (default true)")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get reminders whose trigger time has passed"),
		),
		s.handleGetDueReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("snooze_reminder",
			mcp.WithDescription("Push a reminder's trigger time back"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("duration", mcp.Description("Snooze duration: 5min, 15min, 30min, 1hr, 2hr, custom (default: 15min)")),
			mcp.WithNumber("custom_minutes", mcp.Description("Minutes to snooze when duration is custom")),
		),
		s.handleSnoozeReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields (title, message, trigger_time, priority)"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("message", mcp.Description("New message")),
			mcp.WithString("trigger_time", mcp.Description("New trigger time in RFC3339 format")),
			mcp.WithString("priority", mcp.Description("New priority: low, medium, high, urgent")),
		),
		s.handleUpdateReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_templates",
			mcp.WithDescription("List the server-defined reminder templates"),
		),
		s.handleListTemplates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_from_template",
			mcp.WithDescription("Create a reminder from a template"),
			mcp.WithString("template_id", mcp.Required(), mcp.Description("Template ID (see list_templates)")),
			mcp.WithString("trigger_time", mcp.Required(), mcp.Description("Trigger time in RFC3339 format")),
			mcp.WithString("custom_message", mcp.Description("Override the template's message")),
		),
		s.handleAddFromTemplate,
	)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	priority := req.GetString("priority", "")
	switch priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid priority %q (use low, medium, high or urgent)", priority)), nil
	}

	draft := Draft{
		Title:       title,
		Message:     req.GetString("message", ""),
		TriggerTime: req.GetString("trigger_time", ""),
		Priority:    priority,
	}
	if cats := req.GetString("categories", ""); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				draft.Categories = append(draft.Categories, c)
			}
		}
	}

	created := s.client.Create(ctx, draft)
	if created == nil {
		return mcp.NewToolResultError("failed to create reminder (server rejected or unreachable)"), nil
	}

	output, _ := json.MarshalIndent(created, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := Filters{
		EnabledOnly:      req.GetBool("enabled_only", false),
		Upcoming:         req.GetBool("upcoming", false),
		IncludeCompleted: req.GetBool("include_completed", true),
	}

	reminders := s.client.List(ctx, filters)
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders := s.client.Due(ctx)
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	completed := s.client.Complete(ctx, id)
	if completed == nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder %d", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d marked as completed.", id)), nil
}

func (s *Server) handleSnoozeReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	duration := req.GetString("duration", "")
	customMinutes := int(req.GetFloat("custom_minutes", 0))

	snoozed := s.client.Snooze(ctx, id, duration, customMinutes)
	if snoozed == nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to snooze reminder %d", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d snoozed until %s.", id, snoozed.SnoozeUntil)), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	if !s.client.Delete(ctx, id) {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder %d", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	var patch Patch
	if v := req.GetString("title", ""); v != "" {
		patch.Title = &v
	}
	if v := req.GetString("message", ""); v != "" {
		patch.Message = &v
	}
	if v := req.GetString("trigger_time", ""); v != "" {
		patch.TriggerTime = &v
	}
	if v := req.GetString("priority", ""); v != "" {
		patch.Priority = &v
	}

	updated := s.client.Update(ctx, id, patch)
	if updated == nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder %d", id)), nil
	}

	output, _ := json.MarshalIndent(updated, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates := s.client.Templates(ctx)
	if len(templates) == 0 {
		return mcp.NewToolResultText("No templates available."), nil
	}

	output, _ := json.MarshalIndent(templates, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleAddFromTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID := req.GetString("template_id", "")
	triggerTime := req.GetString("trigger_time", "")
	if templateID == "" {
		return mcp.NewToolResultError("template_id is required"), nil
	}
	if triggerTime == "" {
		return mcp.NewToolResultError("trigger_time is required"), nil
	}

	created := s.client.CreateFromTemplate(ctx, templateID, triggerTime, req.GetString("custom_message", ""))
	if created == nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create reminder from template %q", templateID)), nil
	}

	output, _ := json.MarshalIndent(created, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func toolID(req mcp.CallToolRequest) (int64, bool) {
	idFloat := req.GetFloat("id", -1)
	if idFloat <= 0 {
		return 0, false
	}
	return int64(idFloat), true
}
