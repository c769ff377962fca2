// Package events turns parsed death log rows into canonical kill events
// and classifies them. Classification is total for any event carrying a
// victim id: it yields exactly one of Kill or Suicide, and Unknown only
// when the victim id is missing
package events

import (
	"time"

	"killfeed/internal/core/csvlog"
)

// UnknownName is the display placeholder for absent player names.
// It is storage filler, never an identity signal
const UnknownName = "Unknown"

// Kind labels a classified event
type Kind uint8

// Kind values
const (
	KindUnknown Kind = iota
	KindKill
	KindSuicide
)

// String returns the lowercase label for k
func (k Kind) String() string {
	switch k {
	case KindKill:
		return "kill"
	case KindSuicide:
		return "suicide"
	default:
		return "unknown"
	}
}

// suicideWeapons are the post April export sentinels that mark a suicide
// regardless of the ids on the row
var suicideWeapons = map[string]struct{}{
	"suicide_by_relocation": {},
	"suicide":               {},
}

// IsSuicideWeapon reports whether weapon is a suicide sentinel
func IsSuicideWeapon(weapon string) bool {
	_, ok := suicideWeapons[weapon]
	return ok
}

// Event is one canonical kill log event bound to a resolved server
type Event struct {
	ServerID   string
	Time       time.Time
	KillerID   string
	KillerName string
	VictimID   string
	VictimName string
	Weapon     string
	Distance   float64
	Kind       Kind
}

// Suicide reports whether the event classified as a suicide
func (e *Event) Suicide() bool { return e.Kind == KindSuicide }

// Normalize builds an Event from a parsed row, attaching the resolved
// server id and defaulting absent names to the display placeholder
func Normalize(rec csvlog.Record, serverID string) Event {
	e := Event{
		ServerID:   serverID,
		Time:       rec.Time.UTC(),
		KillerID:   rec.KillerID,
		KillerName: rec.KillerName,
		VictimID:   rec.VictimID,
		VictimName: rec.VictimName,
		Weapon:     rec.Weapon,
		Distance:   rec.Distance,
	}
	if e.KillerName == "" {
		e.KillerName = UnknownName
	}
	if e.VictimName == "" {
		e.VictimName = UnknownName
	}
	return e
}

// Classify assigns e.Kind and applies the killer id coercion suicides
// need for consistent storage. Rules in order: matching non empty ids;
// a sentinel weapon (killer id is coerced to the victim id); matching
// player names, folded, ignoring the display placeholder. An event
// without a victim id is Unknown and must be dropped by the caller
func Classify(e *Event) Kind {
	suicide := false
	switch {
	case e.KillerID != "" && e.VictimID != "" && e.KillerID == e.VictimID:
		suicide = true
	case IsSuicideWeapon(e.Weapon):
		suicide = true
		e.KillerID = e.VictimID
	case sameIdentity(e.KillerName, e.VictimName):
		suicide = true
		e.KillerID = e.VictimID
	}

	if e.VictimID == "" {
		e.Kind = KindUnknown
		return e.Kind
	}
	if suicide {
		e.Kind = KindSuicide
	} else {
		e.Kind = KindKill
	}
	return e.Kind
}

// sameIdentity compares player names for the suicide heuristic.
// The placeholder and empty strings never match anything
func sameIdentity(a, b string) bool {
	if a == "" || b == "" || a == UnknownName || b == UnknownName {
		return false
	}
	return NameKey(a) == NameKey(b)
}
