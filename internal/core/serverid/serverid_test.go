package serverid

import "testing"

func TestResolveKnownMappingWins(t *testing.T) {
	known := Known{"uuid-abc-123": "7020"}
	id, matched := Resolve("uuid-abc-123", known)
	if id != "7020" || !matched {
		t.Fatalf("Resolve = (%q, %v), want (%q, true)", id, matched, "7020")
	}
}

func TestResolveNumericPassesThrough(t *testing.T) {
	id, matched := Resolve("8231", nil)
	if id != "8231" || matched {
		t.Fatalf("Resolve = (%q, %v), want (%q, false)", id, matched, "8231")
	}
}

func TestResolvePrefersLongestLongRun(t *testing.T) {
	// 12 is short, 9999 and 310544 are both long; the longest wins
	id, _ := Resolve("srv12-9999-x310544", nil)
	if id != "310544" {
		t.Fatalf("Resolve = %q, want %q", id, "310544")
	}
}

func TestResolveLongRunTieKeepsEarliest(t *testing.T) {
	id, _ := Resolve("a1234b5678", nil)
	if id != "1234" {
		t.Fatalf("Resolve = %q, want %q", id, "1234")
	}
}

func TestResolveFallsBackToFirstShortRun(t *testing.T) {
	id, _ := Resolve("cluster-7-node-42", nil)
	if id != "7" {
		t.Fatalf("Resolve = %q, want %q", id, "7")
	}
}

func TestResolveNoDigitsReturnsInput(t *testing.T) {
	id, matched := Resolve("emerald-eu", nil)
	if id != "emerald-eu" || matched {
		t.Fatalf("Resolve = (%q, %v), want input back", id, matched)
	}
}

func TestResolveStableAcrossRotation(t *testing.T) {
	// two different volatile uuids embedding the same long id resolve alike
	a, _ := Resolve("0f83-7020-aa", nil)
	b, _ := Resolve("77e1-7020-bc", nil)
	if a != b || a != "7020" {
		t.Fatalf("rotation changed stable id: %q vs %q", a, b)
	}
}

func TestPathComponents(t *testing.T) {
	cases := []struct {
		name       string
		serverID   string
		hostname   string
		originalID string
		wantDir    string
		wantID     string
	}{
		{"port stripped", "7020", "play.example.com:22", "", "play.example.com_7020", "7020"},
		{"embedded id stripped", "7020", "play.example.com_7020", "", "play.example.com_7020", "7020"},
		{"original id overrides", "uuid-9", "host.gg", "4444", "host.gg_4444", "4444"},
		{"empty hostname", "5151", "", "", "server_5151", "5151"},
		{"underscore without digits kept", "33", "na_west.example.com", "", "na_west.example.com_33", "33"},
	}
	for _, tc := range cases {
		dir, id := PathComponents(tc.serverID, tc.hostname, tc.originalID, nil)
		if dir != tc.wantDir || id != tc.wantID {
			t.Fatalf("%s: PathComponents = (%q, %q), want (%q, %q)", tc.name, dir, id, tc.wantDir, tc.wantID)
		}
	}
}
