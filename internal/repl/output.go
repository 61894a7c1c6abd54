package repl

import (
	"fmt"
	"os"

	"github.com/chattalk/talk-cli/internal/chat"
	"github.com/chattalk/talk-cli/internal/reminder"
)

func (r *REPL) displayReply(reply *chat.Reply) {
	fmt.Println()
	fmt.Println(r.formatter.FormatAssistantMessage(""))
	fmt.Println(r.renderer.Render(reply.Response))
	fmt.Println()
	os.Stdout.Sync()
}

func (r *REPL) displayError(err error) {
	r.status.Hide()
	fmt.Println(r.formatter.FormatError(err))
	fmt.Println()
}

func (r *REPL) displayWelcome() {
	fmt.Print(r.formatter.FormatWelcome(r.serverName(), r.api.BaseURL()))
}

func (r *REPL) displayInfo(msg string) {
	fmt.Println(r.formatter.FormatInfo(msg))
	fmt.Println()
}

func (r *REPL) displaySystem(msg string) {
	fmt.Println(r.formatter.FormatSystem(msg))
	fmt.Println()
}

func (r *REPL) displaySuccess(msg string) {
	fmt.Println(r.formatter.FormatSuccess(msg))
	fmt.Println()
}

func (r *REPL) displayWarning(msg string) {
	fmt.Println(r.formatter.FormatWarning(msg))
	fmt.Println()
}

// Notify is the due watcher's terminal sink. It prints over the prompt
// line and asks readline to redraw, so a mid-typing notification does
// not eat the user's input.
func (r *REPL) Notify(due []reminder.Reminder) error {
	fmt.Print("\r\033[K")
	for _, d := range due {
		fmt.Println(r.formatter.FormatNotification(d.Title, d.Message, d.Priority))
	}
	r.rl.Refresh()
	return nil
}
