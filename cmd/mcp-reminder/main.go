// Command mcp-reminder provides an MCP server for reminder management.
//
// The server bridges the assistant backend's reminder API as MCP tools,
// so an agent can create, list, snooze, complete and delete the same
// reminders the talk REPL shows.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	TALK_SERVER_URL  Backend base URL (default: http://localhost:8000)
//	TALK_USER_ID     Backend user id (default: 1)
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mark3labs/mcp-go/server"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/config"
	"github.com/chattalk/talk-cli/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	baseURL := os.Getenv("TALK_SERVER_URL")
	apiClient := api.NewClient(config.ServerConfig{BaseURL: baseURL, Timeout: 30})

	client := reminder.NewClient(apiClient)
	if raw := os.Getenv("TALK_USER_ID"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid TALK_USER_ID %q\n", raw)
			os.Exit(1)
		}
		client.SetUserID(id)
	}

	s := reminder.NewServer(client)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - backend reminder management via MCP

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    TALK_SERVER_URL  Backend base URL
                     Default: http://localhost:8000
    TALK_USER_ID     Backend user id whose reminders are managed
                     Default: 1

TOOLS:
    add_reminder       Add a reminder (title, message, trigger_time, priority, categories)
    list_reminders     List reminders (enabled_only, upcoming, include_completed)
    get_due_reminders  Get reminders whose trigger time has passed
    complete_reminder  Mark a reminder as completed
    snooze_reminder    Push a reminder's trigger time back
    delete_reminder    Delete a reminder permanently
    update_reminder    Update reminder fields (title, message, trigger_time, priority)
    list_templates     List server-defined reminder templates
    add_from_template  Create a reminder from a template

CONFIGURATION:
    Add to your MCP client config:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
