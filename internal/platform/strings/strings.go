// Package strings holds the small string helpers shared by modules and adapters
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /catalog or /stats
// ensures a single leading slash and no trailing slash
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// ChannelRef reduces the ways a public channel gets written down to its bare username
// "@ShoofFilm", "t.me/ShoofFilm", "https://t.me/s/ShoofFilm/" and "ShoofFilm" all give "ShoofFilm"
func ChannelRef(s string) string {
	s = std.TrimSpace(s)
	for _, p := range []string{"https://", "http://"} {
		s = std.TrimPrefix(s, p)
	}
	for _, p := range []string{"www.t.me/", "t.me/", "telegram.me/"} {
		if rest, ok := std.CutPrefix(s, p); ok {
			s = std.TrimPrefix(rest, "s/")
			break
		}
	}
	s = std.TrimPrefix(s, "@")
	if i := std.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// Excerpt cuts s to n runes, marking the cut with an ellipsis
func Excerpt(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
