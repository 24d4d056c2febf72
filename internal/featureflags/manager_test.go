package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
	if m.Enabled("missing", 1) {
		t.Fatal("unknown flags must be off")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) || m.Enabled("junk", 1) {
		t.Fatal("0% and malformed rollouts should be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestEnabled_NilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(AutoStrikes, 1) {
		t.Fatal("nil manager must report every flag off")
	}
	if len(m.Raw()) != 0 {
		t.Fatal("nil manager must expose no raw flags")
	}
	snap := m.Snapshot(1)
	if len(snap) != len(Known()) || snap[AutoStrikes] || snap[ActivityFeed] {
		t.Fatalf("nil manager must report known flags off: %#v", snap)
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,Auto_Strikes=ON, activity_feed = 20% ,z=off,=on,k= ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d: %#v", len(raw), raw)
	}
	if raw[AutoStrikes] != "on" || raw[ActivityFeed] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	names := m.Names()
	if len(names) != 3 || names[0] != ActivityFeed || names[1] != AutoStrikes {
		t.Fatalf("unexpected names order: %v", names)
	}

	snap := m.Snapshot(123)
	if len(snap) != 3 || !snap[AutoStrikes] || snap["z"] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
}

func TestSnapshot_IncludesUnconfiguredKnownFlags(t *testing.T) {
	m := NewManager("beta_shelves=on")

	snap := m.Snapshot(9)
	if len(snap) != 3 || !snap["beta_shelves"] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	if v, ok := snap[ActivityFeed]; !ok || v {
		t.Fatalf("activity_feed must be listed and off: %#v", snap)
	}
}
