package models

// RenderedText wraps the rendered representation WordPress uses for
// title, excerpt and content fields.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// Post represents a post or page record from the WordPress REST API.
// Image is not part of the upstream response; it is attached by the
// image enricher once the featured media has been resolved.
type Post struct {
	ID              int          `json:"id,omitempty"`
	Date            string       `json:"date,omitempty"`
	Slug            string       `json:"slug"`
	Link            string       `json:"link"`
	Title           RenderedText `json:"title"`
	Excerpt         RenderedText `json:"excerpt"`
	Categories      []int        `json:"categories,omitempty"`
	FeaturedMediaID int          `json:"featured_media"`
	Image           string       `json:"image,omitempty"`
}

// NeedsImage reports whether the post still needs its featured image
// resolved. A zero featured_media means the post has no media attached.
func (p Post) NeedsImage() bool {
	return p.Image == "" && p.FeaturedMediaID != 0
}
