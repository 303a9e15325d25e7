// Package summary renders a feature's tags into the bounded diagnostic string stored with each defect
package summary

import (
	"strings"

	"taglint/internal/core/feature"
)

const (
	// MaxFieldLength bounds the whole summary; output destinations size their tags field with it
	MaxFieldLength = 254
	// MaxEntryLength bounds a single "key=value|" entry; longer tags are left out
	MaxEntryLength = 50
	// Separator joins entries
	Separator = '|'
)

// Tags renders tags as key=value entries joined by Separator, skipping the tag keyed exclude.
// It is best effort: an entry that is too long, or would push the result to max, is dropped
func Tags(tags feature.Tags, exclude string, max int) string {
	var b strings.Builder
	for _, t := range tags {
		if t.Key == exclude {
			continue
		}
		// +2 for '=' and the separator
		add := len(t.Key) + len(t.Value) + 2
		if add >= MaxEntryLength || b.Len()+add >= max {
			continue
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
		b.WriteByte(Separator)
	}
	if b.Len() == 0 {
		return ""
	}
	out := b.String()
	return out[:len(out)-1]
}
