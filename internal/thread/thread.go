// Package thread splits a raw email body into its quoted reply layers.
package thread

import (
	"regexp"
	"strings"
)

// Reply indicator patterns, applied in fixed order. Each splits the body
// wherever a common mail client marks the start of a quoted message.
var indicators = []*regexp.Regexp{
	regexp.MustCompile(`On .* wrote:`),
	regexp.MustCompile(`(?m)^From:`),
	regexp.MustCompile(`-{3,}\s*Original Message\s*-{3,}`),
}

// Parse splits body into an ordered sequence of message segments, most
// recent first when the source body quotes oldest-last. The parser only
// splits; it never reorders. A body without indicators yields a single
// segment, and a whitespace-only body yields an empty slice.
func Parse(body string) []string {
	fragments := []string{body}

	for _, indicator := range indicators {
		var next []string
		for _, fragment := range fragments {
			next = append(next, indicator.Split(fragment, -1)...)
		}
		fragments = next
	}

	segments := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	return segments
}

// Latest returns the first segment of body, or the trimmed body itself
// when no reply indicators are present. It is a convenience for snippet
// rendering.
func Latest(body string) string {
	segments := Parse(body)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}
