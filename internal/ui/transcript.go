package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Transcript represents a box for displaying raw integration protocol
// traffic. Used in verbose mode to show the lines sent to and received
// from the controller.
type Transcript struct {
	Title    string   // e.g., "Protocol Transcript"
	Content  string   // The raw protocol text
	Lines    []string // Parsed lines (for filtering)
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
}

// NewTranscript creates a new protocol transcript box
func NewTranscript(content string) *Transcript {
	return &Transcript{
		Title:    "Protocol Transcript",
		Content:  content,
		Lines:    strings.Split(content, "\n"),
		Width:    GetTerminalWidth(),
		MaxLines: 0,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *Transcript) SetWidth(width int) *Transcript {
	t.Width = width
	return t
}

// SetTitle sets a custom title for the box
func (t *Transcript) SetTitle(title string) *Transcript {
	t.Title = title
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *Transcript) SetMaxLines(max int) *Transcript {
	t.MaxLines = max
	return t
}

// FilterPrefix filters to only lines starting with given prefixes.
// Useful for extracting one side of the conversation (e.g., "~OUTPUT").
func (t *Transcript) FilterPrefix(prefixes ...string) *Transcript {
	var filtered []string
	for _, line := range t.Lines {
		for _, prefix := range prefixes {
			if strings.HasPrefix(strings.TrimSpace(line), prefix) {
				filtered = append(filtered, line)
				break
			}
		}
	}
	t.Lines = filtered
	t.Content = strings.Join(filtered, "\n")
	return t
}

// Render returns the styled transcript box as a string
func (t *Transcript) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = lines[:t.MaxLines]
		lines = append(lines, "... (output truncated)")
	}

	titleStyled := TranscriptTitleStyle.Render(t.Title)
	contentStyled := TranscriptContentStyle.Render(strings.Join(lines, "\n"))

	inner := lipgloss.JoinVertical(lipgloss.Left, titleStyled, "", contentStyled)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (t *Transcript) String() string {
	return t.Render()
}

// RenderTranscript renders a transcript box with the given content
func RenderTranscript(content string) string {
	return NewTranscript(content).Render()
}
