package models

// Media is a WordPress media item. The gateway only consumes the
// full-size rendition URL from media_details.
type Media struct {
	ID           int          `json:"id"`
	SourceURL    string       `json:"source_url"`
	MediaDetails MediaDetails `json:"media_details"`
}

// MediaDetails holds the per-size renditions WordPress registers for an
// uploaded file, keyed by size name ("thumbnail", "medium", "full", ...).
type MediaDetails struct {
	Sizes map[string]MediaSize `json:"sizes"`
}

// MediaSize describes a single registered rendition.
type MediaSize struct {
	SourceURL string `json:"source_url"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

// FullSizeURL returns the source URL of the full-size rendition, or the
// empty string when the size is not registered.
func (m Media) FullSizeURL() string {
	return m.MediaDetails.Sizes["full"].SourceURL
}
