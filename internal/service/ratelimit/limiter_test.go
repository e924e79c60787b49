package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("depth", 3, 0.0001) {
			t.Fatalf("call %d should be allowed within capacity", i+1)
		}
	}
	if l.Allow("depth", 3, 0.0001) {
		t.Fatalf("capacity exhausted, call should be throttled")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0.0001) {
		t.Fatalf("first call on key a should pass")
	}
	if l.Allow("a", 1, 0.0001) {
		t.Fatalf("key a exhausted")
	}
	if !l.Allow("b", 1, 0.0001) {
		t.Fatalf("key b has its own bucket")
	}
}
