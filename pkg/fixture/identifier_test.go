package fixture

import "testing"

func TestIdentifierString(t *testing.T) {
	t.Parallel()

	if got := NewIdentifier("User", "alice").String(); got != "User(alice)" {
		t.Errorf("String() = %q, want User(alice)", got)
	}
	if got := NewIdentifier("", "alice").String(); got != "alice" {
		t.Errorf("bare String() = %q, want alice", got)
	}
}

func TestIdentifierLookupKey(t *testing.T) {
	t.Parallel()

	a := NewIdentifier("User", "alice")
	b := NewIdentifier("Admin", "alice")
	if a.LookupKey() != b.LookupKey() {
		t.Error("lookup key must depend on the key alone")
	}
	if !a.Known() || NewIdentifier("", "x").Known() {
		t.Error("Known() must reflect class name presence")
	}
}
