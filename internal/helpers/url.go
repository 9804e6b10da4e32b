package helpers

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// JoinURL appends escaped path segments to the path of baseURL. A trailing
// slash in baseURL is not doubled.
func JoinURL(baseURL string, segments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "couldn't parse base URL")
	}

	if u.Scheme == "" || u.Host == "" {
		return "", errors.Errorf("base URL must be absolute: %q", baseURL)
	}

	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	joined := u.String()
	if len(escaped) > 0 {
		joined += "/" + strings.Join(escaped, "/")
	}

	return joined, nil
}
