package enrich

import "errors"

// ErrMediaFetch is returned by ImageLink when media metadata cannot be
// retrieved or the item carries no full-size rendition.
var ErrMediaFetch = errors.New("media fetch failed")
