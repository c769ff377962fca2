package discover

import (
	"path"
	"strings"
	"time"

	"killfeed/internal/core/logname"
)

// MapAliases is the fixed set of map style subdirectory names game
// hosts create under a deathlogs directory
var MapAliases = []string{"world_0", "world0", "world_1", "world1", "map_0", "map0", "main", "default"}

// Plan carries the per server inputs discovery needs
type Plan struct {
	ServerID string

	// ServerDir is the host_id directory name the canonical layout
	// roots at, e.g. emerald.example.net_7020
	ServerDir string

	// Root is the server's configured log path, /logs when unset
	Root string

	// Cascade orders the filename patterns tried per directory
	Cascade *logname.Cascade

	// Now anchors the synthetic probe grid and the future file guard
	Now time.Time
}

// Canonical returns the primary deathlogs directory for the plan
func (p Plan) Canonical() string {
	return path.Join("/", p.ServerDir, "actual1", "deathlogs")
}

// Bases returns the ordered alternate base directories tried when the
// canonical layout yields nothing. The configured root replaces the
// hardwired logs locations so a nonstandard host layout still resolves
func (p Plan) Bases() []string {
	d := path.Join("/", p.ServerDir)
	root := path.Join("/", strings.TrimPrefix(p.Root, "/"))
	if root == "/" {
		root = "/logs"
	}
	return dedupe([]string{
		path.Join(d, "deathlogs"),
		path.Join(d, strings.TrimPrefix(root, "/")),
		path.Join(d, "Logs", "deathlogs"),
		path.Join(d, "Logs"),
		path.Join(root, p.ServerDir),
		"/deathlogs",
		root,
		d,
		path.Join(d, "actual1"),
	})
}

// Grid expands the alternate bases with every map alias and ends at the
// filesystem root as the last resort
func (p Plan) Grid() []string {
	bases := p.Bases()
	out := make([]string, 0, len(bases)*(len(MapAliases)+1)+1)
	for _, b := range bases {
		out = append(out, b)
		for _, alias := range MapAliases {
			out = append(out, path.Join(b, alias))
		}
	}
	return dedupe(append(out, "/"))
}

// Anchors returns the roots the bounded recursive search descends from
func (p Plan) Anchors() []string {
	d := path.Join("/", p.ServerDir)
	return dedupe([]string{
		d,
		"/",
		"/data",
		"/game",
		path.Join(d, "game"),
		path.Join("/home", p.ServerDir),
		path.Join("/home", "steam", p.ServerDir),
		path.Join("/game", p.ServerDir),
		path.Join("/data", p.ServerDir),
	})
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// probeTimes returns the synthetic probe timestamps: hourly steps
// through the most recent day plus midnights at five day steps over
// roughly a month
func probeTimes(now time.Time) []time.Time {
	day := now.UTC().Truncate(24 * time.Hour)
	out := make([]time.Time, 0, 30)
	for h := 0; h < 24; h++ {
		out = append(out, day.Add(time.Duration(h)*time.Hour))
	}
	for d := 5; d <= 30; d += 5 {
		out = append(out, day.AddDate(0, 0, -d))
	}
	return out
}

// probeNames renders the probe grid as canonical filenames
func probeNames(now time.Time) []string {
	ts := probeTimes(now)
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = logname.Canonical(t)
	}
	return out
}
