package fetcher

import (
	"net/url"
	"strings"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
)

var ErrInvalidURL = ierrors.New("invalid url")

// Normalize trims raw, defaults the scheme to https and checks that the
// result is an absolute http(s) URL with a host.
func Normalize(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ierrors.Wrap(ErrInvalidURL, "empty url")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, ierrors.Wrapf(ErrInvalidURL, "%s: %v", raw, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Hostname() == "" {
		return nil, ierrors.Wrapf(ErrInvalidURL, "%s: missing host", raw)
	}
	return u, nil
}
