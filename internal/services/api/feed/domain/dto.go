// Package domain holds the wire shape of the live kill feed
package domain

import (
	"time"

	killsdom "killfeed/internal/services/kills/domain"
)

// FeedEvent is one applied kill as broadcast to subscribers
type FeedEvent struct {
	ID         string  `json:"id" example:"0c9117a3-5b5e-44a1-92f4-1d9f3f7c2a10"`
	ServerID   string  `json:"server_id" example:"srv-2104"`
	Time       string  `json:"time" example:"2025-08-21T23:50:03Z"`
	KillerID   string  `json:"killer_id" example:"76561198000000001"`
	KillerName string  `json:"killer_name" example:"Riley"`
	VictimID   string  `json:"victim_id" example:"76561198000000003"`
	VictimName string  `json:"victim_name" example:"Alex"`
	Weapon     string  `json:"weapon" example:"M4-A1"`
	Distance   float64 `json:"distance" example:"143.7"`
	Suicide    bool    `json:"suicide" example:"false"`
}

// EventFrom shapes a recorded kill for broadcast
func EventFrom(k killsdom.Kill) FeedEvent {
	return FeedEvent{
		ID:         k.ID,
		ServerID:   k.ServerID,
		Time:       k.Time.UTC().Format(time.RFC3339),
		KillerID:   k.KillerID,
		KillerName: k.KillerName,
		VictimID:   k.VictimID,
		VictimName: k.VictimName,
		Weapon:     k.Weapon,
		Distance:   k.Distance,
		Suicide:    k.Suicide,
	}
}
