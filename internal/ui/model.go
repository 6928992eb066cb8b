// Package ui holds the notification line shown under the player screen.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

// Level sets the color of a notification.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

// Notification is a message for the user. Its zero value means nothing to show.
type Notification struct {
	Text  string
	Level Level
}

// Notify returns a command that shows text at the given level.
func Notify(text string, level Level) tea.Cmd {
	return func() tea.Msg {
		return Notification{Text: text, Level: level}
	}
}

// ClearNotificationMsg hides the notification it was scheduled for.
type ClearNotificationMsg struct {
	id int
}

// Lifetime is how long a notification stays on screen.
var Lifetime = 4 * time.Second

// Model keeps the current notification.
type Model struct {
	current Notification
	id      int
}

func clearAfter(id int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{id: id}
	})
}

// Update handles Notification and ClearNotificationMsg messages.
// A clear message only hides the notification it was scheduled for.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case Notification:
		return m.Set(msg)
	case ClearNotificationMsg:
		if msg.id == m.id {
			m.current = Notification{}
		}
	}
	return nil
}

// Set shows n immediately and returns the command that later clears it.
func (m *Model) Set(n Notification) tea.Cmd {
	m.id++
	m.current = n
	return clearAfter(m.id)
}

// Current returns the notification on screen.
func (m *Model) Current() Notification {
	return m.current
}

var levelColors = map[Level]lipgloss.Color{
	Info:  lipgloss.Color("8"),
	Warn:  lipgloss.Color("3"),
	Error: lipgloss.Color("9"),
}

// View renders the notification wrapped to width. It is empty when there is nothing to show.
func (m *Model) View(width int) string {
	if m.current.Text == "" {
		return ""
	}

	text := m.current.Text
	if width > 0 {
		text = wrap.String(text, width)
	}
	return lipgloss.NewStyle().Foreground(levelColors[m.current.Level]).Render(text)
}
