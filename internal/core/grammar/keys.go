package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
)

// NameFamilies are the canonical bases whose variants carry free text and get the wider character set
var NameFamilies = []string{"name", "description", "note", "comment", "fixme", "inscription"}

// IsAXKeyKey reports whether key belongs to the canonical family of base,
// e.g. name, name:ru, official_name and short_name all belong to "name" but username does not.
// base must sit at the start or after ':'/'_' and at the end or before ':'/'_'.
// Only the first occurrence of base is inspected, so keys repeating base (named_name) may be misjudged
func IsAXKeyKey(key, base string) bool {
	if key == base {
		return true
	}
	if base == "" {
		return false
	}
	i := strings.Index(key, base)
	if i < 0 {
		return false
	}
	if i > 0 && !isKeySeparator(key[i-1]) {
		return false
	}
	end := i + len(base)
	return end == len(key) || isKeySeparator(key[end])
}

// InNameFamily reports whether key is a variant of any of NameFamilies
func InNameFamily(key string) bool {
	for _, base := range NameFamilies {
		if IsAXKeyKey(key, base) {
			return true
		}
	}
	return false
}

func isKeySeparator(b byte) bool { return b == ':' || b == '_' }

// genericPunct is the punctuation allowed in values of ordinary keys (space included)
const genericPunct = " _:;.,-+/()'&#@%=*"

// freeTextPunct is the extra punctuation allowed in name family values
const freeTextPunct = "!?\"[]–—‘’‚“”„·"

var (
	genericSet = runes.Predicate(func(r rune) bool {
		if r >= utf8.RuneSelf {
			return false
		}
		return isASCIIAlnum(r) || strings.ContainsRune(genericPunct, r)
	})

	freeTextSet = union(
		genericSet,
		runes.In(unicode.L),
		runes.In(unicode.M),
		runes.In(unicode.N),
		runes.Predicate(func(r rune) bool { return strings.ContainsRune(freeTextPunct, r) }),
	)
)

// CharactersOK reports whether every rune of value is allowed for key.
// Name family keys permit any Unicode letter, mark or digit; other keys are limited to ASCII
func CharactersOK(key, value string) bool {
	set := genericSet
	if InNameFamily(key) {
		set = freeTextSet
	}
	for _, r := range value {
		if r == utf8.RuneError || !set.Contains(r) {
			return false
		}
	}
	return true
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func union(sets ...runes.Set) runes.Set {
	return runes.Predicate(func(r rune) bool {
		for _, s := range sets {
			if s.Contains(r) {
				return true
			}
		}
		return false
	})
}
