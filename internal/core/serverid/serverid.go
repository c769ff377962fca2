// Package serverid derives durable numeric identifiers for game servers
// whose database ids rotate. Remote log paths are built from the durable
// id, so extraction must be deterministic for the same underlying server
package serverid

import "strings"

// Known maps a volatile server id to its durable id.
// Populated from persisted configuration before resolution runs
type Known map[string]string

// Resolve returns the durable id for serverID.
// matched is true only when the id came from the known mapping.
// Order: known mapping, purely numeric id as is, longest digit run of
// four or more (earliest wins a length tie), first digit run of any
// length, then the id unchanged
func Resolve(serverID string, known Known) (stable string, matched bool) {
	if id, ok := known[serverID]; ok && id != "" {
		return id, true
	}
	if serverID == "" {
		return serverID, false
	}
	if isDigits(serverID) {
		return serverID, false
	}
	runs := digitRuns(serverID)
	if len(runs) == 0 {
		return serverID, false
	}
	best := ""
	for _, r := range runs {
		if len(r) >= 4 && len(r) > len(best) {
			best = r
		}
	}
	if best != "" {
		return best, false
	}
	return runs[0], false
}

// PathComponents returns the remote directory name and the id embedded in
// it for a server. Hostnames may carry a port suffix and sometimes already
// embed a trailing _<digits> id; both are stripped before joining.
// originalID, when non empty, overrides id resolution entirely
func PathComponents(serverID, hostname, originalID string, known Known) (serverDir, pathID string) {
	host := hostname
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		host = "server"
	}
	if i := strings.LastIndexByte(host, '_'); i >= 0 && isDigits(host[i+1:]) {
		host = host[:i]
	}

	pathID = strings.TrimSpace(originalID)
	if pathID == "" {
		pathID, _ = Resolve(serverID, known)
	}
	return host + "_" + pathID, pathID
}

// FromName scans a display name like "Emerald EU | Server 7020" for a
// standalone numeric word of four or more digits. Used as a last resort
// when the id itself carries no digits. Empty when nothing qualifies
func FromName(name string) string {
	for _, w := range strings.Fields(name) {
		if len(w) >= 4 && isDigits(w) {
			return w
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// digitRuns returns the maximal runs of ASCII digits in s, in order
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		switch {
		case d && start < 0:
			start = i
		case !d && start >= 0:
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}
