package order

import "testing"

func TestNewOrderID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := NewOrderID()
		if err != nil {
			t.Fatalf("NewOrderID: %v", err)
		}
		if !IsOrderID(id) {
			t.Fatalf("malformed id %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 190 {
		t.Fatalf("only %d distinct ids out of 200", len(seen))
	}
}

func TestIsOrderID(t *testing.T) {
	for in, want := range map[string]bool{
		"AB12CD":  true,
		"ab12cd":  false,
		"AB12C":   false,
		"AB12CD3": false,
		"AB-2CD":  false,
	} {
		if got := IsOrderID(in); got != want {
			t.Errorf("IsOrderID(%q) = %v, want %v", in, got, want)
		}
	}
}
