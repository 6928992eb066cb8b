package resolve

import (
	"fmt"
	"net/url"
	"strings"
)

// RedirectResolver implements the RemoteRedirect variant.
type RedirectResolver struct {
	endpoint *url.URL
	param    string
}

// NewRedirectResolver validates the endpoint once so Resolve can only fail on the descriptor.
func NewRedirectResolver(endpoint, param string) (*RedirectResolver, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("redirect endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("redirect endpoint %q must be an absolute URL", endpoint)
	}
	if param == "" {
		return nil, fmt.Errorf("redirect parameter name is empty")
	}
	return &RedirectResolver{endpoint: u, param: param}, nil
}

// Resolve reads the id parameter from the descriptor and embeds it into the endpoint.
func (r *RedirectResolver) Resolve(descriptor string) (string, error) {
	invalid := func(reason string) error {
		return &InvalidSourceError{Descriptor: descriptor, Variant: RemoteRedirect, Reason: reason}
	}

	u, err := url.Parse(strings.TrimSpace(descriptor))
	if err != nil {
		return "", invalid(err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return "", invalid("not a well-formed URL")
	}

	id := u.Query().Get(r.param)
	if id == "" {
		return "", invalid(fmt.Sprintf("missing %q parameter", r.param))
	}

	target := *r.endpoint
	query := target.Query()
	query.Set(r.param, id)
	target.RawQuery = query.Encode()

	return target.String(), nil
}

// FileResolver implements the LocalFile variant.
type FileResolver struct {
	Path string
}

// Resolve returns the fixed path.
func (r *FileResolver) Resolve(string) (string, error) {
	return r.Path, nil
}
