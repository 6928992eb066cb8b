package history

import (
	"fmt"
	"time"

	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/resolve"
)

// Entry is a remembered share link.
type Entry struct {
	Link    string          `json:"link"`
	Source  string          `json:"source"`
	Variant resolve.Variant `json:"variant"`
	Loop    string          `json:"loop"`
	Rank    int             `json:"rank"`
	UsedAt  time.Time       `json:"used_at"`
}

func (e *Entry) String() string {
	source := e.Source
	if source == "" {
		source = "(no source)"
	}
	return fmt.Sprintf("%s [%s, %s] x%d", source, e.Variant, e.Loop, e.Rank)
}

func newEntry(link string, state option.State) *Entry {
	return &Entry{
		Link:    link,
		Source:  state.SourceURL,
		Variant: state.MP4Source,
		Loop:    state.Loop.String(),
	}
}

