// Package domain holds DTOs for stats http and service contracts
package domain

// Every query scopes to one server; ids come from the registry and the
// API never invents them. Times are RFC3339 UTC on the way out

// OverviewInput selects the server to summarize
type OverviewInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
}

// OverviewRow is the one line summary for a server
type OverviewRow struct {
	ServerID   string `json:"server_id" example:"srv-2104"`
	Players    int64  `json:"players" example:"412"`
	Kills      int64  `json:"kills" example:"18230"`
	Deaths     int64  `json:"deaths" example:"18230"`
	Suicides   int64  `json:"suicides" example:"511"`
	Events     int64  `json:"events" example:"18741"`
	FirstEvent string `json:"first_event,omitempty" example:"2025-06-01T18:02:11Z"`
	LastEvent  string `json:"last_event,omitempty" example:"2025-08-21T23:50:03Z"`
}

// LeaderboardInput ranks players on one server
type LeaderboardInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	By       string `json:"by,omitempty" validate:"omitempty,oneof=kills deaths suicides kd" example:"kills"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"25"`
}

// PlayerInput selects one player on one server
type PlayerInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	PlayerID string `json:"player_id" validate:"required" example:"76561198000000001"`
}

// PlayerRow is one player aggregate with rivalry pointers
type PlayerRow struct {
	ServerID     string  `json:"server_id" example:"srv-2104"`
	PlayerID     string  `json:"player_id" example:"76561198000000001"`
	Name         string  `json:"name" example:"Riley"`
	Kills        int64   `json:"kills" example:"120"`
	Deaths       int64   `json:"deaths" example:"80"`
	Suicides     int64   `json:"suicides" example:"3"`
	KD           float64 `json:"kd" example:"1.5"`
	NemesisID    string  `json:"nemesis_id,omitempty" example:"76561198000000002"`
	NemesisName  string  `json:"nemesis_name,omitempty" example:"Sam"`
	NemesisCount int64   `json:"nemesis_count,omitempty" example:"14"`
	PreyID       string  `json:"prey_id,omitempty" example:"76561198000000003"`
	PreyName     string  `json:"prey_name,omitempty" example:"Alex"`
	PreyCount    int64   `json:"prey_count,omitempty" example:"22"`
	FirstSeen    string  `json:"first_seen,omitempty" example:"2025-06-02T11:40:00Z"`
	LastSeen     string  `json:"last_seen,omitempty" example:"2025-08-21T21:12:45Z"`
}

// RivalriesInput lists one player's kill edges
type RivalriesInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	PlayerID string `json:"player_id" validate:"required" example:"76561198000000001"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"25"`
}

// TopRivalriesInput ranks the hottest edges on a server
type TopRivalriesInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"25"`
}

// RivalryRow is one directed killer to victim edge
type RivalryRow struct {
	KillerID   string `json:"killer_id" example:"76561198000000001"`
	KillerName string `json:"killer_name" example:"Riley"`
	VictimID   string `json:"victim_id" example:"76561198000000003"`
	VictimName string `json:"victim_name" example:"Alex"`
	Weapon     string `json:"weapon" example:"MeleeFists"`
	Kills      int64  `json:"kills" example:"22"`
	FirstKill  string `json:"first_kill,omitempty" example:"2025-06-10T20:31:00Z"`
	LastKill   string `json:"last_kill,omitempty" example:"2025-08-20T22:05:19Z"`
}

// RecentInput lists the newest kill documents
type RecentInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=200" example:"50"`
}

// KillRow is one recorded kill or suicide
type KillRow struct {
	ID         string  `json:"id" example:"0c9117a3-5b5e-44a1-92f4-1d9f3f7c2a10"`
	Time       string  `json:"time" example:"2025-08-21T23:50:03Z"`
	KillerID   string  `json:"killer_id" example:"76561198000000001"`
	KillerName string  `json:"killer_name" example:"Riley"`
	VictimID   string  `json:"victim_id" example:"76561198000000003"`
	VictimName string  `json:"victim_name" example:"Alex"`
	Weapon     string  `json:"weapon" example:"M4-A1"`
	Distance   float64 `json:"distance" example:"143.7"`
	Suicide    bool    `json:"suicide" example:"false"`
}

// HeatmapInput buckets kill volume by hour of week
type HeatmapInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Days     int    `json:"days,omitempty" validate:"omitempty,min=1,max=90" example:"30"`
}

// HeatCellRow is one hour of week bucket
type HeatCellRow struct {
	Weekday int   `json:"weekday" example:"6"` // 1 = Monday .. 7 = Sunday
	Hour    int   `json:"hour" example:"21"`
	Kills   int64 `json:"kills" example:"240"`
}

// TopWeaponsInput ranks weapons by kill volume
type TopWeaponsInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
}

// WeaponRow is kill volume for one weapon
type WeaponRow struct {
	Weapon string `json:"weapon" example:"M4-A1"`
	Kills  int64  `json:"kills" example:"1834"`
}
