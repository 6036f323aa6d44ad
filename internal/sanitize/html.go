package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML tags and attributes.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy allows safe user-generated formatting (<p>, <b>, <a>, lists).
	// Used for event descriptions and meeting minutes.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML and returns plain text. bluemonday entity-encodes its
// output, so entities are decoded again to keep "Food & drinks" intact; the
// result is only ever emitted through JSON.
func Text(input string) string {
	return html.UnescapeString(StrictPolicy.Sanitize(input))
}

// HTML sanitizes markup, keeping safe formatting tags.
func HTML(input string) string {
	return UGCPolicy.Sanitize(input)
}
