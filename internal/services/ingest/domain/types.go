// Package domain holds the ingest pipeline's core data structures
package domain

import "time"

// Mode selects how much of each qualifying file a run processes
type Mode int

const (
	// ModeIncremental processes qualifying files from their stored line
	// offsets, assuming append only logs
	ModeIncremental Mode = iota

	// ModeHistorical reprocesses every qualifying file in full
	ModeHistorical
)

// String implements fmt.Stringer
func (m Mode) String() string {
	if m == ModeHistorical {
		return "historical"
	}
	return "incremental"
}

// HistoricalAfter is the lookback beyond which a run switches to
// historical mode
const HistoricalAfter = 7 * 24 * time.Hour

// ModeFor returns the mode for a requested lookback window
func ModeFor(lookback time.Duration) Mode {
	if lookback > HistoricalAfter {
		return ModeHistorical
	}
	return ModeIncremental
}

// LogFile is one discovered death log. Time is the timestamp embedded
// in the filename; names that do not parse carry the logname epoch
// sentinel and sort first
type LogFile struct {
	Path string
	Time time.Time
}

// Cursor is a server's durable high water mark. Logs embedded at or
// before Last are known fully processed; the zero value means the
// server has never completed a run
type Cursor struct {
	ServerID  string
	Last      time.Time
	UpdatedAt time.Time
}

// RunReport summarizes one per server pipeline run
type RunReport struct {
	ServerID   string
	Mode       Mode
	Strategy   string
	Files      int
	Rows       int64
	Events     int64
	Kills      int64
	Suicides   int64
	Dropped    int64
	Duplicates int64
	Cursor     time.Time
	Elapsed    time.Duration
}

// CycleReport aggregates the runs of one scheduled cycle
type CycleReport struct {
	Started time.Time
	Elapsed time.Duration
	Servers int
	Failed  int
	Reports []RunReport
}

// ServerStatus is the admin view of one server's ingest state
type ServerStatus struct {
	ServerID    string
	Name        string
	Known       bool
	Active      bool
	CoolingDown bool
	Cursor      time.Time
	LastFile    string
	LastEvent   time.Time
	LastRun     time.Time
	LastError   string
}

// Status is the scheduler wide admin view
type Status struct {
	Running   bool
	LastCycle time.Time
	Servers   []ServerStatus
}
