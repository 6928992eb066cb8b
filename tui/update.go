package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipview/clipview/history"
	"github.com/clipview/clipview/key"
	"github.com/spf13/viper"
)

const (
	minSpeed = 0.25
	maxSpeed = 4
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.update(msg)
	return b, tea.Batch(cmd, b.flush())
}

func (b *statefulBubble) update(msg tea.Msg) tea.Cmd {
	if cmd := b.notifier.Update(msg); cmd != nil {
		return cmd
	}

	switch msg := msg.(type) {
	case eventMsg:
		b.relay.Deliver(msg.event)
		return b.waitForEvent()
	case engineExitedMsg:
		return tea.Quit
	case error:
		b.raiseError(msg)
		return nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		if matches(msg, b.keymap.forceQuit) {
			return tea.Quit
		}
	}

	switch b.state {
	case controlState:
		return b.updateControl(msg)
	case inputState:
		return b.updateInput(msg)
	case historyState:
		return b.updateHistory(msg)
	case qrState, errorState:
		return b.updateDismissable(msg)
	}

	return nil
}

func (b *statefulBubble) updateControl(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	case matches(keyMsg, b.keymap.playPause):
		b.handle(b.sync.UserTogglePlay())
	case matches(keyMsg, b.keymap.toggleLoop):
		b.handle(b.sync.UserToggleLoop())
	case matches(keyMsg, b.keymap.markStart):
		b.markLoop(true)
	case matches(keyMsg, b.keymap.markEnd):
		b.markLoop(false)
	case matches(keyMsg, b.keymap.seekBack):
		b.seekBy(-viper.GetFloat64(key.TUISeekStep))
	case matches(keyMsg, b.keymap.seekForward):
		b.seekBy(viper.GetFloat64(key.TUISeekStep))
	case matches(keyMsg, b.keymap.slower):
		b.changeSpeed(-viper.GetFloat64(key.TUISpeedStep))
	case matches(keyMsg, b.keymap.faster):
		b.changeSpeed(viper.GetFloat64(key.TUISpeedStep))
	case matches(keyMsg, b.keymap.cycleDelivery):
		b.cycleDelivery()
	case matches(keyMsg, b.keymap.copyLink):
		b.copyLink()
	case matches(keyMsg, b.keymap.showQR):
		b.showQR()
	case matches(keyMsg, b.keymap.showHistory):
		return b.loadHistory()
	case matches(keyMsg, b.keymap.editSource):
		return b.startInput(sourceField)
	case matches(keyMsg, b.keymap.editLoop):
		return b.startInput(loopField)
	case matches(keyMsg, b.keymap.editSpeed):
		return b.startInput(speedField)
	case matches(keyMsg, b.keymap.editSeek):
		return b.startInput(seekField)
	case matches(keyMsg, b.keymap.editWidth):
		return b.startInput(widthField)
	case matches(keyMsg, b.keymap.openLink):
		return b.startInput(linkField)
	}

	return nil
}

func (b *statefulBubble) updateInput(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case matches(keyMsg, b.keymap.back):
			b.inputC.Blur()
			b.previousState()
			return nil
		case matches(keyMsg, b.keymap.confirm):
			if b.submitInput(b.inputC.Value()) {
				b.inputC.Blur()
				b.previousState()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		switch {
		case matches(keyMsg, b.keymap.back) && b.historyC.FilterState() == list.Unfiltered:
			b.previousState()
			return nil
		case matches(keyMsg, b.keymap.confirm):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			b.previousState()
			b.openLink(item.entry.Link)
			return nil
		case matches(keyMsg, b.keymap.remove):
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			if err := history.Remove(item.entry.Link); err != nil {
				b.notify(err)
				return nil
			}
			b.historyC.RemoveItem(b.historyC.Index())
			return b.historyC.NewStatusMessage("Removed")
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateDismissable(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case matches(keyMsg, b.keymap.back):
		b.previousState()
	}
	return nil
}
