// Package config handles application configuration via environment variables
package config

import (
	"taglint/internal/platform/config/raw"
	"taglint/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g., "TAGLINT_", "SERVICE_PGSQL_")
// Use New() for global access, or Prefix("TAGLINT_") for module scopes
type Conf struct{ env raw.Env }

// New creates a root Conf over the process environment
func New() Conf { return Conf{env: raw.New()} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("TAGLINT_")
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.env.Key(k) }

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string { return c.env.String(key, def) }

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	v, err := c.env.Int(key, def)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", c.key(key)).Int("default", def).Msg("invalid int; using default")
	}
	return v
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	v, err := c.env.Bool(key, def)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", c.key(key)).Bool("default", def).Msg("invalid bool; using default")
	}
	return v
}
