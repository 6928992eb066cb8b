package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/clipview/clipview/color"
	"github.com/clipview/clipview/style"
	"github.com/samber/lo"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause,
	toggleLoop, markStart, markEnd, editLoop,
	seekBack, seekForward, editSeek,
	slower, faster, editSpeed,
	editSource, cycleDelivery, editWidth,
	copyLink, showQR, openLink, showHistory,
	confirm, remove, back,
	up, down, top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		toggleLoop: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "loop on/off"),
		),
		markStart: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "loop start here"),
		),
		markEnd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "loop end here"),
		),
		editLoop: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "edit loop range"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "rewind"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward"),
		),
		editSeek: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to time"),
		),
		slower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		editSpeed: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "set speed"),
		),
		editSource: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "change source"),
		),
		cycleDelivery: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delivery"),
		),
		editWidth: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "width"),
		),
		copyLink: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy share link"),
		),
		showQR: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "qr code"),
		),
		openLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		showHistory: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "link history"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "bottom"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case controlState:
		return h(k.playPause, k.toggleLoop, k.copyLink, k.editSource, k.showHelp, k.quit),
			h(
				k.playPause, k.seekBack, k.seekForward, k.editSeek,
				k.toggleLoop, k.markStart, k.markEnd, k.editLoop,
				k.slower, k.faster, k.editSpeed,
				k.editSource, k.cycleDelivery, k.editWidth,
				k.copyLink, k.showQR, k.openLink, k.showHistory,
				k.quit,
			)
	case inputState:
		return to2(h(k.confirm, k.back))
	case historyState:
		return to2(h(k.confirm, k.remove, k.back))
	case qrState:
		return to2(h(k.back))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return lo.Chunk(full, 5)
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
