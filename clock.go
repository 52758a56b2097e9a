package cpc

// clockSequencer derives the four chip clocks (4MHz CPU, ~1MHz CCLK, 1MHz
// PSG, and the CRTC latch strobe) from a single 16MHz counter using fixed
// lookup tables, the way the gate array's shift-register sequencer does it.
// The sequencer never resets in hardware (a genuine Z80 bus state that would
// reset it, RST asserted with M1/IORQ/RD all low, cannot occur), so Advance
// free-runs modulo 16 for the lifetime of the machine.
type clockSequencer struct {
	counter uint8
}

// sequence is the gate array's self-shifting 16-state ring; unused beyond
// documentation value since every derived signal is table-indexed directly
// by counter, but kept to mirror the original's literal shift pattern.
var clockSequence = [16]uint8{
	0xFF, 0xFE, 0xFC, 0xF8, 0xF0, 0xE0, 0xC0, 0x80,
	0x00, 0x01, 0x03, 0x07, 0x0F, 0x1F, 0x3F, 0x7F,
}

// clockPhiTable is the latched 4MHz CPU clock: true for states 0,3,4,7,8,B,C,F, one
// step behind the raw (S1^S3)|(S5^S7) combinational equation.
var clockPhiTable = [16]bool{
	true, false, false, true, true, false, false, true,
	true, false, false, true, true, false, false, true,
}

// clockCPUEdgeTable marks where the latched CPU clock changes phase --
// the edges a Z80 single-step should be driven from.
var clockCPUEdgeTable = [16]bool{
	false, true, false, true, false, true, false, true,
	false, true, false, true, false, true, false, true,
}

// clockCClkTable is the 1MHz CCLK gate, true from state 6 through state A.
var clockCClkTable = [16]bool{
	false, false, false, false, false, false, true, true,
	true, true, true, false, false, false, false, false,
}

// clockCClkBit carries the CCLK phase bit that memory.videoFetch overlays
// onto the video RAM address.
var clockCClkBit = [16]uint8{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0}

// clockReadyTable is the Z80 #WAIT line, asserted low (false) for most of
// the cycle and released for states 0 and C-F.
var clockReadyTable = [16]bool{
	true, false, false, false, false, false, false, false,
	false, false, false, false, true, true, true, true,
}

// clockE244Table is the I/O latch enable signal.
var clockE244Table = [16]bool{
	false, false, false, true, true, true, true, true,
	true, true, true, true, false, false, false, false,
}

// clockMuxTable selects video address (true) over CPU address (false) on
// the shared RAM address bus.
var clockMuxTable = [16]bool{
	true, true, true, true, true, true, true, true,
	true, true, false, false, false, false, false, false,
}

func (s *clockSequencer) advance() {
	s.counter = (s.counter + 1) & 0x0F
}

func (s *clockSequencer) psgClock() bool  { return s.counter == 0 }
func (s *clockSequencer) cpuClock() bool  { return s.counter&1 == 1 }
func (s *clockSequencer) crtcClock() bool { return s.counter == 0xB }
func (s *clockSequencer) cpuReady() bool  { return clockReadyTable[s.counter] }
func (s *clockSequencer) cClkOffset() uint8 { return clockCClkBit[s.counter] }
func (s *clockSequencer) muxVideo() bool  { return clockMuxTable[s.counter] }
func (s *clockSequencer) blockIORQ() bool { return clockE244Table[s.counter] }
func (s *clockSequencer) cClkGated() bool { return clockCClkTable[s.counter] }
func (s *clockSequencer) cpuEdge() bool   { return clockCPUEdgeTable[s.counter] }
