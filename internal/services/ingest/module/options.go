package module

import (
	"time"

	"killfeed/internal/platform/config"
)

// Options holds configuration options for the ingest service
type Options struct {
	Interval    time.Duration
	Pause       time.Duration
	CycleBudget time.Duration

	ServerTimeout time.Duration
	DialTimeout   time.Duration
	ReadTimeout   time.Duration

	MemoryLimitMB int
	AuthCooldown  time.Duration

	MaxLookback     time.Duration
	OffsetRetention time.Duration

	EnableLeases bool
	LeaseTTL     time.Duration

	// PatternsPath overrides the embedded filename cascade
	PatternsPath string

	// Fixture fallback, diagnostic deployments only
	FixtureDir     string
	FixtureEnabled bool
}

// FromConfig reads the ingest options from config with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("CORE_INGEST_")
	return Options{
		Interval:        in.MayDuration("INTERVAL", 5*time.Minute),
		Pause:           in.MayDuration("PAUSE", 2*time.Second),
		CycleBudget:     in.MayDuration("CYCLE_BUDGET", 300*time.Second),
		ServerTimeout:   in.MayDuration("SERVER_TIMEOUT", 120*time.Second),
		DialTimeout:     in.MayDuration("DIAL_TIMEOUT", 15*time.Second),
		ReadTimeout:     in.MayDuration("READ_TIMEOUT", 60*time.Second),
		MemoryLimitMB:   in.MayInt("MEMORY_LIMIT_MB", 500),
		AuthCooldown:    in.MayDuration("AUTH_COOLDOWN", 15*time.Minute),
		MaxLookback:     in.MayDuration("MAX_LOOKBACK", 90*24*time.Hour),
		OffsetRetention: in.MayDuration("OFFSET_RETENTION", 30*24*time.Hour),
		EnableLeases:    in.MayBool("LEASES", false),
		LeaseTTL:        in.MayDuration("LEASE_TTL", 10*time.Minute),
		PatternsPath:    in.MayString("PATTERNS_PATH", ""),
		FixtureDir:      in.MayString("FIXTURE_DIR", ""),
		FixtureEnabled:  in.MayBool("FIXTURE_ENABLED", false),
	}
}
