package logname

import (
	"testing"
	"time"
)

func TestParseCanonical(t *testing.T) {
	ts, ok := Parse("2025.05.03-12.34.56.csv")
	if !ok {
		t.Fatalf("Parse failed on canonical name")
	}
	want := time.Date(2025, 5, 3, 12, 34, 56, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("Parse = %v, want %v", ts, want)
	}
}

func TestParseCanonicalTokenInsideLongerName(t *testing.T) {
	ts, ok := Parse("/logs/world_0/backup-2024.12.31-23.59.59.csv")
	if !ok {
		t.Fatalf("Parse failed on embedded token")
	}
	if ts.Year() != 2024 || ts.Second() != 59 {
		t.Fatalf("Parse = %v", ts)
	}
}

func TestParseDriftedLayouts(t *testing.T) {
	for _, name := range []string{
		"2025-05-03-12.34.56.csv",
		"2025.05.03_12.34.56.csv",
		"20250503-123456.csv",
		"2025.05.03-12.34.56.csv.gz",
	} {
		if _, ok := Parse(name); !ok {
			t.Fatalf("Parse(%q) did not recognize drifted layout", name)
		}
	}
}

func TestParseGarbageReturnsEpoch(t *testing.T) {
	ts, ok := Parse("deathlog-latest.csv")
	if ok {
		t.Fatalf("Parse accepted a dateless name")
	}
	if !ts.Equal(Epoch) {
		t.Fatalf("sentinel = %v, want %v", ts, Epoch)
	}
}

// Formatting the parsed timestamp must reproduce the original literal for
// every name matching the canonical contract
func TestRoundTripCanonicalNames(t *testing.T) {
	names := []string{
		"2025.05.03-12.34.56.csv",
		"2024.01.01-00.00.00.csv",
		"2023.12.31-23.59.59.csv",
		"2025.02.28-06.30.15.csv",
	}
	for _, name := range names {
		ts, ok := Parse(name)
		if !ok {
			t.Fatalf("Parse(%q) failed", name)
		}
		if got := Canonical(ts); got != name {
			t.Fatalf("round trip %q -> %q", name, got)
		}
	}
}

func TestInFuture(t *testing.T) {
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	if !InFuture("2025.05.03-14.00.00.csv", now, time.Hour) {
		t.Fatalf("two hours ahead should be future with 1h slack")
	}
	if InFuture("2025.05.03-12.30.00.csv", now, time.Hour) {
		t.Fatalf("thirty minutes ahead is within slack")
	}
	if InFuture("no-date.csv", now, time.Hour) {
		t.Fatalf("unparseable names are never future")
	}
}

func TestDefaultCascadeTiers(t *testing.T) {
	c := Default()
	if c.Tiers() < 3 {
		t.Fatalf("embedded cascade has %d tiers, want at least 3", c.Tiers())
	}
	if !c.MatchTier(0, "2025.05.03-12.34.56.csv") {
		t.Fatalf("canonical name must match tier 0")
	}
	if c.MatchTier(0, "random.csv") {
		t.Fatalf("tier 0 must reject non canonical names")
	}
	if !c.Match("random.csv") {
		t.Fatalf("loosest tier should accept any csv")
	}
	if c.Match("readme.txt") {
		t.Fatalf("non csv names never match")
	}
}

func TestCascadeWithPrimary(t *testing.T) {
	c, err := Default().WithPrimary(`^custom_\d+\.csv$`)
	if err != nil {
		t.Fatalf("WithPrimary: %v", err)
	}
	if !c.MatchTier(0, "custom_42.csv") {
		t.Fatalf("server pattern did not take tier 0")
	}
	if c.MatchTier(0, "2025.05.03-12.34.56.csv") {
		t.Fatalf("replaced tier 0 still matches canonical")
	}
	if !c.Match("2025.05.03-12.34.56.csv") {
		t.Fatalf("fallback tiers must still accept canonical names")
	}
	if _, err := Default().WithPrimary(`([`); err == nil {
		t.Fatalf("bad expression must error")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if c.Tiers() != Default().Tiers() {
		t.Fatalf("Load(\"\") differs from Default")
	}
}
