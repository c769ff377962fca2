// Package domain holds DTOs for the ingest admin surface
package domain

// TriggerInput requests an immediate incremental run for one server.
// Hours rewinds the effective floor; zero means the 24 hour default
type TriggerInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Hours    int    `json:"hours,omitempty" validate:"omitempty,min=1,max=168" example:"24"`
}

// BackfillInput requests a historical replay for one server.
// Days zero means the 30 day default
type BackfillInput struct {
	ServerID string `json:"server_id" validate:"required" example:"srv-2104"`
	Days     int    `json:"days,omitempty" validate:"omitempty,min=1,max=90" example:"30"`
}

// RunResult summarizes one completed run
type RunResult struct {
	ServerID   string `json:"server_id" example:"srv-2104"`
	Mode       string `json:"mode" example:"incremental"`
	Strategy   string `json:"strategy" example:"canonical"`
	Files      int    `json:"files" example:"3"`
	Rows       int64  `json:"rows" example:"1207"`
	Events     int64  `json:"events" example:"1180"`
	Kills      int64  `json:"kills" example:"1101"`
	Suicides   int64  `json:"suicides" example:"79"`
	Dropped    int64  `json:"dropped" example:"4"`
	Duplicates int64  `json:"duplicates" example:"23"`
	Cursor     string `json:"cursor,omitempty" example:"2025-08-21T23:00:00Z"`
	ElapsedMS  int64  `json:"elapsed_ms" example:"5401"`
}

// ServerState is the admin view of one server's ingest state
type ServerState struct {
	ServerID    string `json:"server_id" example:"srv-2104"`
	Name        string `json:"name" example:"Emerald Coast"`
	Known       bool   `json:"known" example:"true"`
	Active      bool   `json:"active" example:"false"`
	CoolingDown bool   `json:"cooling_down" example:"false"`
	Cursor      string `json:"cursor,omitempty" example:"2025-08-21T23:00:00Z"`
	LastFile    string `json:"last_file,omitempty" example:"/emerald_2104/actual1/deathlogs/2025.08.21-23.00.00.csv"`
	LastEvent   string `json:"last_event,omitempty" example:"2025-08-21T23:50:03Z"`
	LastRun     string `json:"last_run,omitempty" example:"2025-08-21T23:55:00Z"`
	LastError   string `json:"last_error,omitempty" example:"ingest: download 2025.08.21-23.00.00.csv: connection lost"`
}

// StatusResponse is the scheduler wide admin view
type StatusResponse struct {
	Running   bool          `json:"running" example:"false"`
	LastCycle string        `json:"last_cycle,omitempty" example:"2025-08-21T23:55:00Z"`
	Servers   []ServerState `json:"servers"`
}

// ClearResponse acknowledges a cache flush
type ClearResponse struct {
	Cleared bool `json:"cleared" example:"true"`
}
