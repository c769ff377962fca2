// Package domain holds persisted kill record types
package domain

import "time"

// Kill is one applied event persisted as an immutable document.
// The natural key (server, time, killer, victim, weapon) dedupes
// re-ingestion of the same log line across cycles and restarts
type Kill struct {
	ID         string
	ServerID   string
	Time       time.Time
	KillerID   string
	KillerName string
	VictimID   string
	VictimName string
	Weapon     string
	Distance   float64
	Suicide    bool
}

// HeatCell is one hour-of-week bucket of kill volume
type HeatCell struct {
	Weekday int // 1 = Monday .. 7 = Sunday
	Hour    int // 0..23
	Kills   int64
}

// WeaponCount is kill volume for one weapon
type WeaponCount struct {
	Weapon string
	Kills  int64
}
