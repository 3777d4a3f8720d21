package template

import "strings"

// PartSeparator is the literal token an author places inside a message's
// text to expand it into several sequential display messages.
const PartSeparator = "|||"

// SplitParts divides resolved text on the multi-part separator. Each segment
// is trimmed and empty segments are dropped. Text without the separator
// yields a single segment (or none, if blank).
func SplitParts(text string) []string {
	raw := strings.Split(text, PartSeparator)
	parts := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg = strings.TrimSpace(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}
