// Package history keeps the share links the user generated or opened,
// ranked by how often they were used.
package history

import (
	"strings"
	"time"

	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.Links(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every remembered link keyed by the link itself.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Remember records a link together with the state it encodes.
// A link seen before has its rank raised by weight.
func Remember(link string, state option.State, weight int) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	link = strings.TrimSpace(link)
	entry, ok := saved[link]
	if !ok {
		entry = newEntry(link, state)
		saved[link] = entry
	}
	entry.Rank += weight
	entry.UsedAt = time.Now()
	log.Debugf("remembered %s", entry)

	return cacher.Set(saved)
}

// Search returns the entries whose link or source fuzzily match query,
// highest rank first. An empty query matches everything.
func Search(query string) ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	entries := lo.Filter(lo.Values(saved), func(e *Entry, _ int) bool {
		return query == "" ||
			fuzzy.MatchFold(query, e.Source) ||
			fuzzy.MatchFold(query, e.Link)
	})

	slices.SortFunc(entries, func(a, b *Entry) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.UsedAt.Compare(a.UsedAt)
	})

	return entries, nil
}

// Remove forgets a single link.
func Remove(link string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, strings.TrimSpace(link))
	return cacher.Set(saved)
}

// Clear forgets every link.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
