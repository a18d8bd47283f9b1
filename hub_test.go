package main

import "testing"

func TestHubConnLimitPerIP(t *testing.T) {
	h := NewHub(nil)
	ip := "203.0.113.7"
	for i := 0; i < maxConnsPerIP; i++ {
		if !h.CanAccept(ip) {
			t.Fatalf("connection %d should be accepted", i+1)
		}
		h.TrackConnect(ip)
	}
	if h.CanAccept(ip) {
		t.Error("connection past the per-IP limit should be rejected")
	}
	if !h.CanAccept("203.0.113.8") {
		t.Error("other IPs are unaffected by one IP's limit")
	}

	h.TrackDisconnect(ip)
	if !h.CanAccept(ip) {
		t.Error("freed slot should be accepted again")
	}
	if h.TotalConns() != maxConnsPerIP-1 {
		t.Errorf("expected %d tracked connections, got %d", maxConnsPerIP-1, h.TotalConns())
	}
}
