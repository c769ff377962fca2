package guardrails

import (
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// MemoryRSS returns the resident set size of this process in MiB
func MemoryRSS() (int64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return int64(mi.RSS >> 20), nil
}

// MemoryOK reports whether RSS sits below limitMB. Stat errors fail
// open so an unreadable proc tree never blocks ingestion; a zero or
// negative limit disables the gate
func MemoryOK(limitMB int64) (rssMB int64, ok bool) {
	if limitMB <= 0 {
		return 0, true
	}
	rss, err := MemoryRSS()
	if err != nil {
		return 0, true
	}
	return rss, rss < limitMB
}
