// Package route defines the shell's path contract and an in-memory history.
//
// Paths:
//   - /pages/<n>: mobile home screen page, 1-based
//   - /<app>[?fromPage=<n>]: a launched app, remembering the page it came from
//
// Page changes are written as replace navigations so swiping never grows
// the history stack.
package route

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// PagesPrefix starts every home screen page path
	PagesPrefix = "/pages/"
	// FromPageParam carries the 1-based page an app was launched from
	FromPageParam = "fromPage"
)

// Router is the navigation facility the shell writes to
type Router interface {
	Push(path string)
	Replace(path string)
	Back()
	Current() string
}

// PagePath returns the path of a 0-based page index
func PagePath(index int) string {
	return PagesPrefix + strconv.Itoa(max(0, index)+1)
}

// ParsePage reads the 0-based page index from a /pages/<n> path, clamped to
// [0, total-1]. The segment is read up to its first non-digit, so
// "/pages/2abc" is page 2; segments with no leading number yield 0.
func ParsePage(path string, total int) int {
	if total <= 0 {
		return 0
	}
	path, _, _ = strings.Cut(path, "?")
	rest, ok := strings.CutPrefix(path, PagesPrefix)
	if !ok {
		return 0
	}
	segment, _, _ := strings.Cut(rest, "/")
	n, ok := leadingInt(segment)
	if !ok {
		return 0
	}
	return ClampIndex(n-1, total)
}

// leadingInt parses the optionally signed run of digits that starts s.
// Values past the int range saturate.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, err == nil
}

// ClampIndex bounds index to [0, total-1]
func ClampIndex(index, total int) int {
	if total <= 0 {
		return 0
	}
	return min(max(index, 0), total-1)
}

// IsPagePath reports whether path addresses a home screen page
func IsPagePath(path string) bool {
	return strings.HasPrefix(path, PagesPrefix)
}

// AppPath returns the launch path of an app name
func AppPath(name string) string {
	return "/" + url.PathEscape(strings.ToLower(strings.TrimSpace(name)))
}

// AppPathFrom returns the launch path carrying the 1-based page to return to
func AppPathFrom(path string, fromPage int) string {
	if fromPage < 1 {
		return path
	}
	q := url.Values{}
	q.Set(FromPageParam, strconv.Itoa(fromPage))
	return path + "?" + q.Encode()
}

// FromPage extracts a positive fromPage value from a raw query string
func FromPage(rawQuery string) (int, bool) {
	q, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(q.Get(FromPageParam))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
