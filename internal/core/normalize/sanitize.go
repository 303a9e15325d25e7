// Package normalize cleans defect text before it reaches a sink
package normalize

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// dropped reports runes that must not reach a database or file:
// NUL and ASCII controls except '\n', '\r', '\t', DEL, C1 controls U+0080..U+009F,
// and utf8.RuneError, which is also what invalid bytes decode to
func dropped(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return r == utf8.RuneError
}

var removerPool = sync.Pool{
	New: func() any { return runes.Remove(runes.Predicate(dropped)) },
}

// Sanitize removes dropped runes and invalid UTF-8 bytes from s
// returns s unchanged when there is nothing to clean
func Sanitize(s string) string {
	if strings.IndexFunc(s, dropped) < 0 {
		return s
	}
	tr := removerPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	removerPool.Put(tr)
	if err != nil {
		// Remove does not fail on complete input; walk runes if it ever does
		return strings.Map(func(r rune) rune {
			if dropped(r) {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// SanitizePtr sanitizes *p, keeping nil as nil
func SanitizePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := Sanitize(*p)
	return &v
}
