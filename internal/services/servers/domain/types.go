// Package domain holds server configuration types for the registry
package domain

import "strings"

// Raw is one stored server document before identity resolution.
// Host may still carry a ":port" suffix and OriginalID may be empty
type Raw struct {
	ServerID   string
	OriginalID string
	GuildID    string
	Name       string
	Host       string
	Port       int
	User       string
	Password   string
	Path       string
	Pattern    string
}

// Complete reports whether the document carries enough transport
// configuration to attempt a connection
func (r Raw) Complete() bool {
	return r.Host != "" && r.User != "" && r.Password != ""
}

// Config is a resolved server ready for log ingestion.
// StableID is durable across rotation of ServerID; Known marks a hit in
// the persisted override mapping
type Config struct {
	ServerID   string
	StableID   string
	OriginalID string
	Known      bool
	GuildID    string
	Name       string
	Host       string
	Port       int
	User       string
	Password   string

	// Path is the configured remote root, defaulted when absent.
	// Pattern is the primary filename regex, empty means built-in cascade
	Path    string
	Pattern string
}

// Dir returns the remote directory name the host roots this server's
// files under. Hostnames sometimes already embed a trailing _<digits>
// id; that is stripped before joining so the id never doubles up
func (c Config) Dir() string {
	host := c.Host
	if host == "" {
		host = "server"
	}
	if i := strings.LastIndexByte(host, '_'); i >= 0 && allDigits(host[i+1:]) {
		host = host[:i]
	}
	id := c.OriginalID
	if id == "" {
		id = c.StableID
	}
	return host + "_" + id
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
