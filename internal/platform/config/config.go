// Package config reads typed settings out of environment variables.
// Keys are namespaced by prefix, so modules see only their own scope
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"osmwatch/internal/platform/logger"
)

// Conf is a prefixed view over the process environment.
// New() sees everything; Prefix("CORE_") narrows to one namespace, and
// prefixes compose, so cfg.Prefix("CORE_").Prefix("FETCH_") reads CORE_FETCH_*
type Conf struct{ prefix string }

// New returns the root view with no prefix
func New() Conf { return Conf{} }

// Prefix narrows the view by another namespace segment
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the full variable name
func (c Conf) key(k string) string { return c.prefix + k }

// lookup fetches and trims a value, reporting whether anything was set
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	return v, v != ""
}

// required panics through the logger so the failure lands in the log stream
func (c Conf) required(key string) string {
	v, ok := c.lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MustString returns the value, panicking when the key is missing or empty
func (c Conf) MustString(key string) string { return c.required(key) }

// MustURL returns the value parsed as an absolute URL, panicking on anything else
func (c Conf) MustURL(key string) *url.URL {
	s := c.required(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msg("invalid absolute URL")
	}
	return u
}

// MayString returns the value, or def when unset or empty
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the value as an int. Unparseable values warn and fall
// back to def rather than aborting startup
func (c Conf) MayInt(key string, def int) int {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
		return def
	}
	return v
}

// MayBool accepts everything strconv.ParseBool does (1, t, TRUE, false, ...)
func (c Conf) MayBool(key string, def bool) bool {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
		return def
	}
	return v
}

// MayDuration reads Go duration syntax (250ms, 2s, 1h)
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
		return def
	}
	return d
}

// MayTime reads RFC 3339, or a bare date taken as midnight UTC
func (c Conf) MayTime(key string, def time.Time) time.Time {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC()
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Time("default", def).Msg("invalid time; using default")
	return def
}

// MayCSV splits on commas, trimming each part and dropping empties.
// A value of only separators counts as unset
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
