// Package domain holds player aggregate types
package domain

import "time"

// Player is the per-server aggregate row for one player id.
// Nemesis is the opponent with the most kills against this player, prey
// the opponent this player has killed most. Both are maintained
// incrementally as edges grow, never recomputed from history
type Player struct {
	ServerID     string
	PlayerID     string
	Name         string
	Kills        int64
	Deaths       int64
	Suicides     int64
	NemesisID    string
	NemesisName  string
	NemesisCount int64
	PreyID       string
	PreyName     string
	PreyCount    int64
	FirstSeen    time.Time
	LastSeen     time.Time
}

// Rivalry is one directed kill edge aggregated per weapon
type Rivalry struct {
	ServerID   string
	KillerID   string
	KillerName string
	VictimID   string
	VictimName string
	Weapon     string
	Kills      int64
	FirstKill  time.Time
	LastKill   time.Time
}

// Sort selects a leaderboard ordering
type Sort string

// Leaderboard orderings
const (
	SortKills    Sort = "kills"
	SortDeaths   Sort = "deaths"
	SortSuicides Sort = "suicides"
	SortKD       Sort = "kd"
)

// Valid reports whether s names a supported ordering
func (s Sort) Valid() bool {
	switch s {
	case SortKills, SortDeaths, SortSuicides, SortKD:
		return true
	}
	return false
}
