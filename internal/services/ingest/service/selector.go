package service

import (
	"time"

	"killfeed/internal/core/logname"
	"killfeed/internal/services/ingest/domain"
)

// filterNew returns the files strictly newer than cursor. Names without
// a parseable timestamp carry the epoch sentinel and are kept, failing
// open rather than silently dropping an oddly named log
func filterNew(files []domain.LogFile, cursor time.Time) []domain.LogFile {
	out := make([]domain.LogFile, 0, len(files))
	for _, f := range files {
		if f.Time.After(cursor) || f.Time.Equal(logname.Epoch) {
			out = append(out, f)
		}
	}
	return out
}

// selectForRun orders the qualifying files for one run. Incremental
// runs additionally re-scan files sitting exactly on the cursor: hosts
// append to the newest log in place, so its tail past the stored offset
// is still unseen even though its timestamp no longer qualifies
func selectForRun(files []domain.LogFile, cursor time.Time, mode domain.Mode) []domain.LogFile {
	out := filterNew(files, cursor)
	if mode != domain.ModeIncremental || cursor.IsZero() {
		return out
	}
	var boundary []domain.LogFile
	for _, f := range files {
		if f.Time.Equal(cursor) && !f.Time.Equal(logname.Epoch) {
			boundary = append(boundary, f)
		}
	}
	if len(boundary) == 0 {
		return out
	}
	return append(boundary, out...)
}
