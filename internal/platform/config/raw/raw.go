// Package raw parses environment values without logging; config and logger both read through it
package raw

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Env is a prefixed view over a key lookup, os.LookupEnv by default
type Env struct {
	prefix string
	lookup func(string) (string, bool)
}

// New returns an unprefixed view of the process environment
func New() Env { return Env{lookup: os.LookupEnv} }

// From returns an unprefixed view over vals, for tests and fixed configs
func From(vals map[string]string) Env {
	return Env{lookup: func(k string) (string, bool) {
		v, ok := vals[k]
		return v, ok
	}}
}

// Prefix returns a view whose keys start with p
func (e Env) Prefix(p string) Env { return Env{prefix: e.prefix + p, lookup: e.lookup} }

// Key is the full variable name for k
func (e Env) Key(k string) string { return e.prefix + k }

// Value returns the trimmed value of k; blank counts as unset
func (e Env) Value(k string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	v, _ := e.lookup(e.Key(k))
	v = strings.TrimSpace(v)
	return v, v != ""
}

// String returns the value of k or def
func (e Env) String(k, def string) string {
	if v, ok := e.Value(k); ok {
		return v
	}
	return def
}

// Int returns the value of k or def; an unparsable value returns def and an error naming the key
func (e Env) Int(k string, def int) (int, error) {
	v, ok := e.Value(k)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid int %q", e.Key(k), v)
	}
	return n, nil
}

// Bool returns the value of k or def; yes/no and on/off are accepted next to strconv forms
func (e Env) Bool(k string, def bool) (bool, error) {
	v, ok := e.Value(k)
	if !ok {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid bool %q", e.Key(k), v)
	}
	return b, nil
}
