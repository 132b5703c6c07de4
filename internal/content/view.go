package content

// ViewKind identifies what kind of page view is being rendered.
type ViewKind string

const (
	// ViewSingular is a single post, page or product view.
	ViewSingular ViewKind = "singular"
	// ViewFront is the site front page. No breadcrumb trail is emitted.
	ViewFront ViewKind = "front"
	// ViewCategory, ViewTag, ViewDate, ViewAuthor and ViewSearch are
	// archive views; each produces its own fixed breadcrumb prefix.
	ViewCategory ViewKind = "category"
	ViewTag      ViewKind = "tag"
	ViewDate     ViewKind = "date"
	ViewAuthor   ViewKind = "author"
	ViewSearch   ViewKind = "search"
)

// View is the render context for one request.
type View struct {
	Kind ViewKind `json:"kind"`
	// Term is the taxonomy term, author name, date label or search query
	// for archive views.
	Term string `json:"term,omitempty"`
	// URL is the canonical URL of the view, when it differs from the
	// item's own URL (archive views).
	URL string `json:"url,omitempty"`
}

// Singular reports whether the view renders exactly one item.
func (v View) Singular() bool {
	return v.Kind == ViewSingular
}
