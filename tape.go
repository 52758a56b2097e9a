package cpc

// tapePulse is one (level, duration) run-length pulse as a parsed CDT/CSW
// stream would hand them out; the core only ever consumes a lazy sequence
// of these, never parses a tape container format itself.
type tapePulse struct {
	Level byte // EAR bit 6 value for this pulse
	TStates uint32
}

// tapeSource is the external collaborator that supplies pulses; CDT/CSW
// parsing lives entirely outside the core.
type tapeSource interface {
	NextPulse() (tapePulse, bool)
}

// tapeEngine models the motor relay speed ramp and EAR-line feedback the
// hardware uses to keep the CPU's tape read loop synchronized, preserving
// the magic threshold constants from the original exactly: a relay
// transition ramps tapeSpeed by one per CPU clock rather than snapping,
// and tape playback is gated until tapeSpeed clears 343000 (half of the
// 686000 ramp ceiling).
type tapeEngine struct {
	source tapeSource

	playing   bool
	relay     bool
	tapeSpeed uint32

	current    tapePulse
	sampleLeft uint32
	level      byte

	capacitor int32 // EAR-line capacitor charge, see earLevel
}

const (
	tapeSpeedMax       = 686000
	tapeSpeedThreshold = 343000

	// capacitorCharge is the step the EAR-line feedback capacitor charges
	// by per CPU clock while the pulse level is high; capacitorDischarge is
	// the level at which charging stops (dischargeCapacitor bleeds it off
	// otherwise). Both are preserved exactly rather than re-derived.
	capacitorCharge    = 650
	capacitorDischarge = 5000
)

func newTapeEngine() *tapeEngine {
	return &tapeEngine{}
}

func (t *tapeEngine) reset() {
	t.playing = false
	t.relay = false
	t.tapeSpeed = 0
	t.current = tapePulse{}
	t.sampleLeft = 0
	t.level = 0
}

func (t *tapeEngine) insert(source tapeSource) {
	t.source = source
	t.sampleLeft = 0
}

func (t *tapeEngine) setPlaying(playing bool) {
	t.playing = playing
}

func (t *tapeEngine) setRelay(on bool) {
	t.relay = on
}

// tickSpeed ramps tapeSpeed toward its ceiling or floor by one per CPU
// clock, exactly as the original's relay-gated increment/decrement does.
func (t *tapeEngine) tickSpeed() {
	if t.relay {
		if t.tapeSpeed < tapeSpeedMax {
			t.tapeSpeed++
		}
	} else if t.tapeSpeed > 0 {
		t.tapeSpeed--
	}
}

// advance pulls the next queued pulse from the source, returning its
// level byte, or 0 if no source is attached or the stream is exhausted.
func (t *tapeEngine) advance() byte {
	if t.source == nil {
		t.playing = false
		return 0
	}
	pulse, ok := t.source.NextPulse()
	if !ok {
		t.playing = false
		return 0
	}
	t.current = pulse
	t.sampleLeft = pulse.TStates
	t.level = pulse.Level
	return t.level
}

// earLevel computes the tape input bit the audio mixer and PPI Port B see
// this CPU clock: pulses are only audible once the motor has ramped past
// the threshold, mirroring the original's capacitor-charge approximation.
// The capacitor field tracks the EAR line's RC coupling: it charges while
// the pulse level is high and bleeds off otherwise. It is charged before
// the output test, so once the threshold is reached the returned bit
// follows the pulse level directly.
func (t *tapeEngine) earLevel() byte {
	if !t.playing || t.tapeSpeed == 0 {
		t.dischargeCapacitor()
		return 0
	}

	if t.sampleLeft == 0 {
		t.advance()
	} else {
		t.sampleLeft--
	}

	if t.level&0x40 != 0 {
		if t.capacitor < capacitorDischarge {
			t.capacitor += capacitorCharge
		}
	} else {
		t.dischargeCapacitor()
	}

	if t.tapeSpeed >= tapeSpeedThreshold && t.capacitor > 0 {
		return (t.level & 0x40) << 1
	}
	return 0
}

func (t *tapeEngine) dischargeCapacitor() {
	if t.capacitor > 0 {
		t.capacitor -= capacitorDischarge / 10
		if t.capacitor < 0 {
			t.capacitor = 0
		}
	}
}
