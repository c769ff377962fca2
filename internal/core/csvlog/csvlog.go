// Package csvlog parses death log CSV exports. The format is hostile:
// delimiters flip between semicolon and comma, timestamps drift across
// five layouts, and partial rows appear mid file. Parsing never fails a
// whole file; bad rows are counted and skipped
package csvlog

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

// minFields is the row contract: timestamp, killer name, killer id,
// victim name, victim id, weapon. A seventh distance column is optional
const minFields = 6

// scanBuf bounds a single log line
const scanBuf = 1 << 20

// TimeLayouts is the ordered timestamp cascade. First match wins per row
var TimeLayouts = []string{
	"2006.01.02-15.04.05",
	"2006.01.02-15:04:05",
	"2006-01-02-15.04.05",
	"2006-01-02 15:04:05",
	"2006.01.02 15:04:05",
}

// Record is one parsed death log row
type Record struct {
	Time       time.Time
	TimeRaw    string
	KillerName string
	KillerID   string
	VictimName string
	VictimID   string
	Weapon     string
	Distance   float64

	// Line is the zero based line index within the file
	Line int
}

// Stats summarizes one parse pass
type Stats struct {
	Delimiter byte
	Lines     int
	Records   int
	Short     int
	BadTime   int
}

// DetectDelimiter votes between semicolon and comma over the sample.
// Semicolon wins ties because the canonical export uses it
func DetectDelimiter(sample string) byte {
	semis := strings.Count(sample, ";")
	commas := strings.Count(sample, ",")
	if semis >= commas {
		return ';'
	}
	return ','
}

// ParseTimestamp tries the layout cascade against s
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Parse scans text and returns the rows from line fromLine onward.
// The delimiter is decided once for the whole file. Rows with fewer than
// six fields are skipped silently; rows whose timestamp does not parse
// are counted in BadTime and skipped. fromLine restarts an append only
// file from a previously recorded offset
func Parse(text string, fromLine int) ([]Record, Stats) {
	stats := Stats{Delimiter: DetectDelimiter(text)}
	delim := string(stats.Delimiter)

	var out []Record
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), scanBuf)

	line := -1
	for sc.Scan() {
		line++
		stats.Lines++
		if line < fromLine {
			continue
		}
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		fields := strings.Split(raw, delim)
		if len(fields) < minFields {
			stats.Short++
			continue
		}
		ts, ok := ParseTimestamp(fields[0])
		if !ok {
			stats.BadTime++
			continue
		}
		rec := Record{
			Time:       ts,
			TimeRaw:    strings.TrimSpace(fields[0]),
			KillerName: strings.TrimSpace(fields[1]),
			KillerID:   strings.TrimSpace(fields[2]),
			VictimName: strings.TrimSpace(fields[3]),
			VictimID:   strings.TrimSpace(fields[4]),
			Weapon:     strings.TrimSpace(fields[5]),
			Line:       line,
		}
		if len(fields) > 6 {
			if d, err := strconv.ParseFloat(strings.TrimSpace(fields[6]), 64); err == nil {
				rec.Distance = d
			}
		}
		out = append(out, rec)
		stats.Records++
	}
	return out, stats
}
