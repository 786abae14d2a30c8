package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should pass within capacity", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("fourth request should be limited")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should pass")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("first key exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("second key has its own bucket")
	}
}
