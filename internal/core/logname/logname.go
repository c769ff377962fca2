// Package logname parses the timestamps game servers embed in death log
// filenames and owns the ordered filename pattern cascade used during
// discovery. Names are the only ordering signal the remote side gives us,
// so parsing is deliberately forgiving: cosmetic separator drift still
// parses, and anything unparseable sorts to a fixed epoch sentinel
package logname

import (
	"regexp"
	"strings"
	"time"
)

// Layout is the canonical timestamp layout embedded in log filenames
const Layout = "2006.01.02-15.04.05"

// Epoch is the sort sentinel for filenames with no parseable timestamp
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// canonicalToken matches the canonical timestamp anywhere in a name
var canonicalToken = regexp.MustCompile(`\d{4}\.\d{2}\.\d{2}-\d{2}\.\d{2}\.\d{2}`)

// altLayouts are tried against the bare stem when no canonical token exists
var altLayouts = []string{
	"2006.01.02-15.04.05",
	"2006-01-02-15.04.05",
	"2006.01.02_15.04.05",
	"20060102-150405",
}

// Parse extracts the embedded timestamp from a log filename.
// The canonical token wins wherever it appears; otherwise the stem is
// tried against a short list of drifted layouts. ok is false when
// nothing parses and the returned time is Epoch
func Parse(name string) (time.Time, bool) {
	base := Base(name)
	if tok := canonicalToken.FindString(base); tok != "" {
		if t, err := time.Parse(Layout, tok); err == nil {
			return t.UTC(), true
		}
	}
	stem := Stem(base)
	for _, layout := range altLayouts {
		if t, err := time.Parse(layout, stem); err == nil {
			return t.UTC(), true
		}
	}
	return Epoch, false
}

// SortKey returns the embedded timestamp or Epoch, suitable for ordering
func SortKey(name string) time.Time {
	t, _ := Parse(name)
	return t
}

// Format renders t in the canonical filename layout
func Format(t time.Time) string { return t.UTC().Format(Layout) }

// Canonical returns the canonical filename for a log written at t
func Canonical(t time.Time) string { return Format(t) + ".csv" }

// Base returns the final path element of name
func Base(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Stem strips the recognized log suffixes from a base name
func Stem(base string) string {
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, ".csv")
}

// InFuture reports whether a filename timestamp is beyond now plus the
// given slack. Servers occasionally pre create files with clock skewed
// names; those are excluded until their time comes. Names that do not
// parse are never considered future
func InFuture(name string, now time.Time, slack time.Duration) bool {
	t, ok := Parse(name)
	if !ok {
		return false
	}
	return t.After(now.Add(slack))
}
