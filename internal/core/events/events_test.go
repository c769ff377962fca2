package events

import (
	"testing"
	"time"

	"killfeed/internal/core/csvlog"
)

func rec(killerName, killerID, victimName, victimID, weapon string) csvlog.Record {
	return csvlog.Record{
		Time:       time.Date(2025, 5, 3, 12, 34, 56, 0, time.UTC),
		KillerName: killerName,
		KillerID:   killerID,
		VictimName: victimName,
		VictimID:   victimID,
		Weapon:     weapon,
	}
}

func TestNormalizeDefaultsNames(t *testing.T) {
	e := Normalize(rec("", "1", "", "2", "AK47"), "7020")
	if e.KillerName != UnknownName || e.VictimName != UnknownName {
		t.Fatalf("names = %q / %q, want placeholders", e.KillerName, e.VictimName)
	}
	if e.ServerID != "7020" {
		t.Fatalf("server id not attached")
	}
}

func TestClassifyKill(t *testing.T) {
	e := Normalize(rec("K", "1", "V", "2", "AK47"), "s")
	if Classify(&e) != KindKill {
		t.Fatalf("kind = %v, want kill", e.Kind)
	}
}

func TestClassifySuicideByMatchingIDs(t *testing.T) {
	e := Normalize(rec("X", "9", "X", "9", "Knife"), "s")
	if Classify(&e) != KindSuicide {
		t.Fatalf("kind = %v, want suicide", e.Kind)
	}
}

func TestClassifySuicideBySentinelWeaponCoercesKiller(t *testing.T) {
	e := Normalize(rec("A", "1", "B", "2", "suicide_by_relocation"), "s")
	if Classify(&e) != KindSuicide {
		t.Fatalf("kind = %v, want suicide", e.Kind)
	}
	if e.KillerID != "2" {
		t.Fatalf("killer id = %q, want coerced to victim id", e.KillerID)
	}
}

func TestClassifySuicideByNameMatchCoercesKiller(t *testing.T) {
	e := Normalize(rec("Ghost", "1001", "Ghost", "1002", "Fall"), "s")
	if Classify(&e) != KindSuicide {
		t.Fatalf("kind = %v, want suicide", e.Kind)
	}
	if e.KillerID != "1002" {
		t.Fatalf("killer id = %q, want victim id", e.KillerID)
	}
}

func TestClassifyNameMatchFoldsUnicode(t *testing.T) {
	// fullwidth letters and case differ, same identity
	e := Normalize(rec("ＧＨＯＳＴ", "1001", "ghost", "1002", "Fall"), "s")
	if Classify(&e) != KindSuicide {
		t.Fatalf("folded names must match")
	}
}

func TestClassifyPlaceholderNamesNeverMatch(t *testing.T) {
	e := Normalize(rec("", "1", "", "2", "AK47"), "s")
	if Classify(&e) != KindKill {
		t.Fatalf("two anonymous players are not a suicide")
	}
}

func TestClassifyUnknownOnlyWhenVictimMissing(t *testing.T) {
	e := Normalize(rec("K", "1", "V", "", "AK47"), "s")
	if Classify(&e) != KindUnknown {
		t.Fatalf("kind = %v, want unknown", e.Kind)
	}

	// sentinel weapon with no victim id still drops
	e2 := Normalize(rec("K", "1", "V", "", "suicide"), "s")
	if Classify(&e2) != KindUnknown {
		t.Fatalf("kind = %v, want unknown", e2.Kind)
	}
}

// classification is total: non empty victim id always yields kill or suicide
func TestClassifyTotality(t *testing.T) {
	cases := []csvlog.Record{
		rec("K", "1", "V", "2", "AK47"),
		rec("K", "", "V", "2", "AK47"),
		rec("", "", "V", "2", "AK47"),
		rec("X", "9", "X", "9", "Knife"),
		rec("A", "1", "B", "2", "suicide"),
	}
	for i, r := range cases {
		e := Normalize(r, "s")
		k := Classify(&e)
		if k != KindKill && k != KindSuicide {
			t.Fatalf("case %d: kind = %v, want kill or suicide", i, k)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindKill.String() != "kill" || KindSuicide.String() != "suicide" || KindUnknown.String() != "unknown" {
		t.Fatalf("kind labels wrong")
	}
}

func TestNameKey(t *testing.T) {
	if NameKey("  Ghost  ") != NameKey("ghost") {
		t.Fatalf("case and space fold failed")
	}
	if NameKey("Ｇｈｏｓｔ") != NameKey("ghost") {
		t.Fatalf("width fold failed")
	}
	if NameKey("gh‍ost") != NameKey("ghost") {
		t.Fatalf("zero width strip failed")
	}
	if NameKey("") != "" {
		t.Fatalf("empty stays empty")
	}
}
