// Package share encodes the widget state into a URL and back.
package share

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/clipview/clipview/option"
)

// ErrInvalidLink is returned when a link or base URL cannot be parsed at all.
var ErrInvalidLink = errors.New("invalid share link")

// ToLink writes every option of state into the query of base.
// Query parameters that are not options are kept. Keys come out sorted.
func ToLink(base string, state option.State) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	for key, value := range option.Encode(state) {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String(), nil
}

// FromLink decodes the state carried by link.
//
// Options missing from the link take their defaults. When some options are
// malformed the state is still returned, with those options defaulted, together
// with the joined decode errors.
func FromLink(link string) (option.State, error) {
	u, err := url.Parse(link)
	if err != nil {
		return option.Default(), fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return option.Default(), fmt.Errorf("%w: %w", ErrInvalidLink, err)
	}

	raw := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	return option.Decode(raw)
}
