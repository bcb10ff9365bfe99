package interrupt

import "testing"

func TestFlagStartsUnset(t *testing.T) {
	var f Flag
	if f.IsSet() {
		t.Fatal("expected flag to start unset")
	}
}

func TestFlagSetIsObserved(t *testing.T) {
	var f Flag
	f.Set()
	if !f.IsSet() {
		t.Fatal("expected flag to be set")
	}
}
