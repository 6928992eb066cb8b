// Package resolve maps a source descriptor and a delivery variant to a directly playable URL.
//
// Resolution is a pure function: it performs no I/O and never fetches media.
// The same (descriptor, variant) pair always yields the same URL or the same failure.
package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Variant identifies a delivery method for the same logical clip.
type Variant string

// Built-in delivery variants.
const (
	// RemoteRedirect extracts a video id from a hosting page URL and embeds it into a redirect endpoint.
	RemoteRedirect Variant = "youtube-redirect"
	// LocalFile ignores the descriptor and plays a fixed local resource.
	LocalFile Variant = "local-file"
)

// Defaults applied before configuration is loaded.
const (
	DefaultRedirectEndpoint = "http://127.0.0.1:8765/redirect"
	DefaultRedirectParam    = "v"
	DefaultLocalFile        = "media/clip.mp4"
)

var (
	// ErrInvalidSourceURL is matched by every InvalidSourceError.
	ErrInvalidSourceURL = errors.New("invalid source url")
	// ErrUnknownVariant is returned when no resolver is registered for a variant.
	ErrUnknownVariant = errors.New("unknown delivery variant")
)

// InvalidSourceError reports a descriptor that a resolver could not turn into a URL.
type InvalidSourceError struct {
	Descriptor string
	Variant    Variant
	Reason     string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source url %q (%s): %s", e.Descriptor, e.Variant, e.Reason)
}

func (e *InvalidSourceError) Unwrap() error {
	return ErrInvalidSourceURL
}

// Resolver is a single resolution strategy.
type Resolver interface {
	Resolve(descriptor string) (string, error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(descriptor string) (string, error)

// Resolve calls f.
func (f Func) Resolve(descriptor string) (string, error) {
	return f(descriptor)
}

// registry is populated during startup and read-only afterwards.
var registry = map[Variant]Resolver{}

func init() {
	Use(RemoteRedirect, lo.Must(NewRedirectResolver(DefaultRedirectEndpoint, DefaultRedirectParam)))
	Use(LocalFile, &FileResolver{Path: DefaultLocalFile})
}

// Use installs r for the variant, replacing any previous resolver.
func Use(v Variant, r Resolver) {
	registry[v] = r
}

// Register adds a resolver for a new variant. Existing variants cannot be shadowed.
func Register(v Variant, r Resolver) error {
	if v == "" {
		return errors.New("variant name is empty")
	}
	if _, exists := registry[v]; exists {
		return fmt.Errorf("variant %q is already registered", v)
	}
	registry[v] = r
	return nil
}

// Known reports whether a resolver is registered for the variant.
func Known(v Variant) bool {
	_, ok := registry[v]
	return ok
}

// Variants returns all registered variants in lexical order.
func Variants() []Variant {
	variants := lo.Keys(registry)
	sort.Slice(variants, func(i, j int) bool {
		return variants[i] < variants[j]
	})
	return variants
}

// Resolve dispatches to the resolver registered for the variant.
func Resolve(descriptor string, v Variant) (string, error) {
	r, ok := registry[v]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
	return r.Resolve(descriptor)
}
