package wp

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractSlug returns the first path segment of an absolute URL, which
// is where WordPress permalinks carry the slug. The URL must be
// absolute with a host; anything else wraps ErrMalformedURL. A URL
// without a path yields an empty slug and no error.
func ExtractSlug(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, link, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, link)
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	return segment, nil
}
