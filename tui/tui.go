// Package tui is the terminal front end of the clip viewer.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
)

// eventBuffer is how many engine events may queue between two updates.
const eventBuffer = 64

// Options configures the initial widget state.
type Options struct {
	// Initial is the state the widget starts with, usually decoded from a link.
	Initial option.State
	// InitialErr is a decode error to show once the screen is up.
	InitialErr error
	// EngineDone, when set, is closed once the engine has gone away, e.g. the mpv window was closed.
	EngineDone <-chan struct{}
}

// Run shows the player screen for engine until the user quits.
// The engine is closed on return.
func Run(engine player.Engine, options *Options) error {
	relay := player.NewRelay(engine, eventBuffer)
	defer func() {
		if err := relay.Close(); err != nil {
			log.Warn(err)
		}
	}()

	bubble := newBubble(relay, options)
	defer bubble.sync.Close()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

