package tui

type state int

const (
	controlState state = iota
	inputState
	historyState
	qrState
	errorState
)

// field is what the text input currently edits.
type field int

const (
	sourceField field = iota
	loopField
	speedField
	seekField
	widthField
	linkField
)

func (f field) title() string {
	switch f {
	case sourceField:
		return "Source"
	case loopField:
		return "Loop range"
	case speedField:
		return "Playback speed"
	case seekField:
		return "Seek to"
	case widthField:
		return "Video width"
	case linkField:
		return "Open share link"
	default:
		return ""
	}
}

func (f field) placeholder() string {
	switch f {
	case sourceField:
		return "https://www.youtube.com/watch?v=..."
	case loopField:
		return "start-end, e.g. 12.5-20"
	case speedField:
		return "1"
	case seekField:
		return "seconds or m:ss"
	case widthField:
		return "640"
	case linkField:
		return "https://..."
	default:
		return ""
	}
}
