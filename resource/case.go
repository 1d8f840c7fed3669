package resource

import (
	"strings"
	"unicode"
)

// attributeName converts a patch path segment to the JSON attribute the
// backend expects in the body, e.g. "service-type" to "serviceType".
// Separators are '-', '_' and whitespace; any other punctuation is dropped.
func attributeName(field string) string {
	if field == "" {
		return ""
	}

	runes := []rune(field)
	var b strings.Builder
	b.Grow(len(runes))

	upperNext := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if b.Len() > 0 {
				upperNext = true
			}

		case unicode.IsLetter(r):
			switch {
			case b.Len() == 0:
				b.WriteRune(unicode.ToLower(r))
			case upperNext:
				b.WriteRune(unicode.ToUpper(r))
			default:
				b.WriteRune(r)
			}
			upperNext = false

		case unicode.IsDigit(r):
			b.WriteRune(r)
			upperNext = false
		}
	}

	return b.String()
}
