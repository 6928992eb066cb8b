package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	if b.options.InitialErr != nil {
		b.notify(b.options.InitialErr)
	}

	// Start reports its own failures through the notifier.
	_ = b.sync.Start()

	return tea.Batch(textinput.Blink, b.waitForEvent(), b.waitForEngineExit(), b.flush())
}
