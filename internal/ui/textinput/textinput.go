// Package textinput provides the single-line prompt used to add files by
// path.
package textinput

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/deck/internal/keymap"
	"github.com/llehouerou/deck/internal/ui"
	"github.com/llehouerou/deck/internal/ui/styles"
)

// ResultMsg is sent when the prompt is confirmed or canceled.
type ResultMsg struct {
	Text     string
	Canceled bool // true if the user pressed Escape
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Accent)
}

// Model is the path prompt. The zero value is inactive; call New.
type Model struct {
	ui.Base
	title  string
	input  textinput.Model
	keys   *keymap.Resolver
	active bool
}

// New creates an inactive prompt.
func New() Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "path to a file or folder"
	in.PromptStyle = styles.T().S().Muted
	in.PlaceholderStyle = styles.T().S().Subtle
	return Model{
		input: in,
		keys:  keymap.ForContexts("prompt"),
	}
}

// Start activates the prompt with a title and optional initial text.
func (m *Model) Start(title, initialText string, width int) tea.Cmd {
	m.title = title
	m.active = true
	m.SetSize(width, 1)
	m.input.Width = max(width-len(m.input.Prompt)-len(title)-2, 10)
	m.input.SetValue(initialText)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Active reports whether the prompt is taking input.
func (m *Model) Active() bool {
	return m.active
}

// Value returns the current text.
func (m *Model) Value() string {
	return m.input.Value()
}

// Reset clears and deactivates the prompt.
func (m *Model) Reset() {
	m.title = ""
	m.active = false
	m.input.Reset()
	m.input.Blur()
}

// Update handles a message while the prompt is active. Confirm and cancel
// deactivate the prompt and report a ResultMsg.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && !key.Paste {
		switch m.keys.Resolve(key.String()) {
		case keymap.ActionConfirm:
			text := strings.TrimSpace(m.input.Value())
			m.Reset()
			return func() tea.Msg { return ResultMsg{Text: text} }
		case keymap.ActionCancel:
			m.Reset()
			return func() tea.Msg { return ResultMsg{Canceled: true} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the prompt line, or nothing while inactive.
func (m *Model) View() string {
	if !m.active {
		return ""
	}
	return titleStyle().Render(m.title) + " " + m.input.View()
}
