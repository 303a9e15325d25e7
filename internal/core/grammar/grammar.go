// Package grammar implements the value grammars for domain attributes
// Every validator treats an absent attribute as conformant; missing attributes are a separate check
package grammar

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Limits for numeric grammars
const (
	MinLanes        = 1
	MaxLanes        = 16
	MaxSpeedKmh     = 150
	MaxSpeedMph     = 112
	mphSuffix       = " mph"
	inchesDelimiter = '"'
	feetDelimiter   = '\''
)

// speedConstants is the closed set of national speed zone tokens accepted verbatim
var speedConstants = map[string]struct{}{
	"AT:motorway":      {},
	"AT:rural":         {},
	"AT:urban":         {},
	"CZ:urban":         {},
	"DE:living_street": {},
	"DE:rural":         {},
	"DE:urban":         {},
	"DE:walk":          {},
	"IT:rural":         {},
	"IT:urban":         {},
	"RO:motorway":      {},
	"RO:rural":         {},
	"RO:trunk":         {},
	"RO:urban":         {},
	"RU:living_street": {},
	"RU:motorway":      {},
	"RU:rural":         {},
	"RU:urban":         {},
	"UA:rural":         {},
	"UA:urban":         {},
	"walk":             {},
}

// IsSpeedConstant reports whether v is one of the whitelisted speed zone tokens
func IsSpeedConstant(v string) bool {
	_, ok := speedConstants[v]
	return ok
}

// SpeedConstants returns the whitelist sorted
func SpeedConstants() []string { return slices.Sorted(maps.Keys(speedConstants)) }

// LanesOK accepts a plain base-10 integer in [MinLanes, MaxLanes]
func LanesOK(v string, present bool) bool {
	if !present {
		return true
	}
	n, rest, ok := leadingInt(v)
	if !ok || rest != "" {
		return false
	}
	return n >= MinLanes && n <= MaxLanes
}

// MaxspeedOK accepts km/h integers, mph integers with the " mph" suffix,
// the literals none and signals, and the national speed constants
func MaxspeedOK(v string, present bool) bool {
	if !present {
		return true
	}
	if n, rest, ok := leadingInt(v); ok {
		switch rest {
		case "":
			return n > 0 && n <= MaxSpeedKmh
		case mphSuffix:
			return n > 0 && n <= MaxSpeedMph
		}
		return false
	}
	if v == "none" || v == "signals" {
		return true
	}
	return IsSpeedConstant(v)
}

// MaxheightOK accepts metric decimals, imperial feet with optional inches
// (12' or 12'6") and the literals none and physical
func MaxheightOK(v string, present bool) bool {
	if !present {
		return true
	}
	if v == "none" || v == "physical" {
		return true
	}
	// metric
	if m, rest, ok := leadingDecimal(v); ok && rest == "" {
		return m > 0
	}
	// imperial
	feet, rest, ok := leadingInt(v)
	if !ok || feet <= 0 || rest == "" || rest[0] != feetDelimiter {
		return false
	}
	rest = rest[1:]
	if rest == "" {
		return true
	}
	if !isDigit(rest[0]) {
		return false
	}
	inches, tail, ok := leadingDecimal(rest)
	if !ok || inches <= 0 {
		return false
	}
	return tail == string(inchesDelimiter)
}

// OnewayOK accepts exactly yes, no and -1
func OnewayOK(v string, present bool) bool {
	if !present {
		return true
	}
	switch v {
	case "yes", "no", "-1":
		return true
	}
	return false
}

// NamePlausible rejects placeholder names and names containing a question mark
func NamePlausible(v string, present bool) bool {
	if !present {
		return true
	}
	if v == "fixme" || v == "unknown" {
		return false
	}
	return !strings.ContainsRune(v, '?')
}

// NonNegativeIntOK accepts a plain base-10 integer >= 0
func NonNegativeIntOK(v string, present bool) bool {
	if !present {
		return true
	}
	_, rest, ok := leadingInt(v)
	return ok && rest == ""
}

// leadingInt parses the longest run of ASCII digits at the start of s
// ok is false when s does not start with a digit or the run overflows int64
func leadingInt(s string) (n int64, rest string, ok bool) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}

// leadingDecimal parses digits with an optional fractional part at the start of s
// at least one digit is required; signs and exponents are not part of the grammar
func leadingDecimal(s string) (f float64, rest string, ok bool) {
	i, digits := 0, 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, s, false
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, s, false
	}
	return f, s[i:], true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
