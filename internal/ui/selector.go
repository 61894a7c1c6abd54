package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// SelectorOption is one entry in an interactive menu. Value is what the
// caller gets back; Label and Description are what the user sees.
type SelectorOption struct {
	Value       string
	Label       string
	Description string
}

// Selector is an arrow-key navigable menu used by the voice and
// template pickers and the reminder form. Falls back to numbered input
// when stdin is not a terminal.
type Selector struct {
	question    string
	options     []SelectorOption
	selected    int
	multiSelect bool
	selections  map[int]bool
	colored     bool
	palette     Palette
}

// NewSelector builds a menu themed by the formatter's active palette.
func NewSelector(f *Formatter, question string, options []SelectorOption, multiSelect bool) *Selector {
	return &Selector{
		question:    question,
		options:     options,
		selected:    0,
		multiSelect: multiSelect,
		selections:  make(map[int]bool),
		colored:     f.colored,
		palette:     f.palette,
	}
}

// Run displays the menu and returns the chosen option values.
func (s *Selector) Run() ([]string, error) {
	if len(s.options) == 0 {
		return nil, fmt.Errorf("no options to choose from")
	}

	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return s.runSimple()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple()
	}

	cleanup := func() {
		term.Restore(fd, oldState)
		fmt.Print("\033[?25h") // show cursor
	}
	defer cleanup()

	fmt.Print("\033[?25l") // hide cursor

	totalLines := len(s.options) + 3

	s.printMenu()

	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}

		action := ""

		switch b {
		case 13, 10: // Enter
			action = "select"
		case 3: // Ctrl+C
			s.clearMenu(totalLines)
			return nil, fmt.Errorf("cancelled")
		case 'j':
			s.moveDown()
		case 'k':
			s.moveUp()
		case ' ':
			if s.multiSelect {
				s.toggleSelection()
			} else {
				action = "select"
			}
		case 27: // escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A':
					s.moveUp()
				case 'B':
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				idx := int(b - '1')
				if idx < len(s.options) {
					s.selected = idx
					if !s.multiSelect {
						action = "select"
					} else {
						s.toggleSelection()
					}
				}
			}
		}

		if action == "select" {
			s.clearMenu(totalLines)
			return s.getSelected(), nil
		}

		s.clearMenu(totalLines)
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	questionStyle := lipgloss.NewStyle().Foreground(s.palette.Header).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(s.palette.Status).Italic(true)
	cursorStyle := lipgloss.NewStyle().Foreground(s.palette.Success).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(s.palette.Assistant).Bold(true)
	optionStyle := lipgloss.NewStyle().Foreground(s.palette.Info)
	dimStyle := lipgloss.NewStyle().Foreground(s.palette.Dim)

	if s.colored {
		sb.WriteString(questionStyle.Render(s.question))
	} else {
		sb.WriteString(s.question)
	}
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select"
	if s.multiSelect {
		hint = "[j/k or arrows] move  [space] toggle  [enter] confirm"
	}
	if s.colored {
		sb.WriteString(hintStyle.Render(hint))
	} else {
		sb.WriteString(hint)
	}
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		checkbox := ""
		if s.multiSelect {
			if s.selections[i] {
				checkbox = "[x] "
			} else {
				checkbox = "[ ] "
			}
		}

		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}

		if s.colored {
			if i == s.selected {
				sb.WriteString(cursorStyle.Render(cursor))
				sb.WriteString(checkbox)
				sb.WriteString(selectedStyle.Render(label))
			} else {
				sb.WriteString(dimStyle.Render(cursor))
				sb.WriteString(checkbox)
				sb.WriteString(optionStyle.Render(label))
			}
		} else {
			sb.WriteString(cursor + checkbox + label)
		}
		sb.WriteString("\r\n")
	}

	fmt.Print(sb.String())
	os.Stdout.Sync()
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Print("\033[A\033[2K\r")
	}
	os.Stdout.Sync()
}

// runSimple is the numbered-input fallback for non-terminal stdin.
func (s *Selector) runSimple() ([]string, error) {
	fmt.Println(s.question)
	for i, opt := range s.options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		fmt.Printf("  [%d] %s\n", i+1, label)
	}
	fmt.Print("Enter number: ")

	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if len(input) >= 1 && input[0] >= '1' && input[0] <= '9' {
		idx := int(input[0] - '1')
		if idx < len(s.options) {
			return []string{s.options[idx].Value}, nil
		}
	}

	return []string{s.options[0].Value}, nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}

func (s *Selector) toggleSelection() {
	s.selections[s.selected] = !s.selections[s.selected]
}

func (s *Selector) getSelected() []string {
	if s.multiSelect {
		var result []string
		for i, opt := range s.options {
			if s.selections[i] {
				result = append(result, opt.Value)
			}
		}
		if len(result) == 0 {
			return []string{s.options[s.selected].Value}
		}
		return result
	}
	return []string{s.options[s.selected].Value}
}
