package cpc

import "testing"

func TestClockSequencerAdvanceWraps(t *testing.T) {
	s := &clockSequencer{counter: 0x0F}
	s.advance()
	if s.counter != 0 {
		t.Fatalf("counter = %d, want 0 after wrap", s.counter)
	}
}

func TestClockSequencerDerivedSignals(t *testing.T) {
	s := &clockSequencer{}
	oddSeen, evenSeen := false, false
	for i := 0; i < 16; i++ {
		if s.cpuClock() {
			oddSeen = true
			if s.counter&1 != 1 {
				t.Fatalf("cpuClock true at even counter %d", s.counter)
			}
		} else {
			evenSeen = true
		}
		s.advance()
	}
	if !oddSeen || !evenSeen {
		t.Fatalf("expected both odd and even cpuClock states across a full cycle")
	}
}

func TestClockSequencerPSGOnlyAtZero(t *testing.T) {
	s := &clockSequencer{}
	count := 0
	for i := 0; i < 16; i++ {
		if s.psgClock() {
			count++
			if s.counter != 0 {
				t.Fatalf("psgClock true at counter %d, want 0", s.counter)
			}
		}
		s.advance()
	}
	if count != 1 {
		t.Fatalf("psgClock fired %d times in 16 sub-ticks, want 1", count)
	}
}

func TestClockSequencerCRTCAtStateB(t *testing.T) {
	s := &clockSequencer{counter: 0x0B}
	if !s.crtcClock() {
		t.Fatalf("crtcClock() = false at state B, want true")
	}
	s.advance()
	if s.crtcClock() {
		t.Fatalf("crtcClock() = true at state C, want false")
	}
}
