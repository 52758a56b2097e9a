package cpc

import "testing"

type fakeVideoSink struct {
	pixels int
	vSyncs int
}

func (s *fakeVideoSink) Pixel(x, y int, argb uint32) { s.pixels++ }
func (s *fakeVideoSink) FrameSync(hSync, vSync bool) {
	if vSync {
		s.vSyncs++
	}
}

type fakeAudioSink struct {
	pushed int
}

func (s *fakeAudioSink) Push(l, r int16) bool {
	s.pushed++
	return true
}

// programDefaultCRTCRegs drives the CRTC through its I/O ports with the
// standard CPC firmware register set, exactly as ROM boot code would,
// before a frame-accurate run loop is exercised.
func programDefaultCRTCRegs(m *Machine) {
	regs := []struct {
		index uint8
		value uint8
	}{
		{0, 63}, {1, 40}, {2, 46}, {3, 0x8E},
		{4, 38}, {6, 25}, {7, 30}, {9, 7},
	}
	for _, r := range regs {
		m.dataBus = r.index
		m.io.decodeIO(0x0000, true, false)
		m.dataBus = r.value
		m.io.decodeIO(0x0100, true, false)
	}
}

func TestNewMachineWiresEveryChip(t *testing.T) {
	m, err := NewMachine(Config{Model: Model6128, CRTCType: crtcPreASIC})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if m.z80 == nil || m.crtc == nil || m.ga == nil || m.mem == nil || m.ppi == nil ||
		m.psg == nil || m.fdc == nil || m.tape == nil || m.audio == nil || m.rom == nil {
		t.Fatalf("NewMachine left a chip unwired")
	}
	if !m.cpc128K || !m.cpcDisk {
		t.Fatalf("Model6128 should enable 128K RAM and disk support")
	}
}

func TestNewMachineUnknownModelErrors(t *testing.T) {
	if _, err := NewMachine(Config{Model: Model(99)}); err == nil {
		t.Fatalf("expected an error constructing a machine with an unknown model")
	}
}

func TestMachineRunUntilFrameTerminates(t *testing.T) {
	video := &fakeVideoSink{}
	audio := &fakeAudioSink{}
	m, err := NewMachine(Config{
		Model:     Model464,
		CRTCType:  crtcPreASIC,
		VideoSink: video,
		AudioSink: audio,
	})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	programDefaultCRTCRegs(m)

	m.Run(true)

	if !m.ga.sync {
		t.Fatalf("Run(true) should only return once the gate array signals frame sync")
	}
}

func TestMachineResetRestoresDefinedState(t *testing.T) {
	m, err := NewMachine(Config{Model: Model464, CRTCType: crtcPreASIC})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	m.mem.page[1] = 5
	m.reset()

	if m.mem.page[1] != 1 {
		t.Fatalf("page[1] = %d, want 1 after reset() re-selects RAM bank 0", m.mem.page[1])
	}
	if m.z80.PC != 0 {
		t.Fatalf("PC = 0x%04X, want 0 after reset", m.z80.PC)
	}
}

func TestMachineLoadROMAndReadBack(t *testing.T) {
	m, err := NewMachine(Config{Model: Model464, CRTCType: crtcPreASIC})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	path := writeTempFirmware(t, 2*bankSize, 0xAB, 0xCD)
	if err := m.LoadROM(path); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	m.ga.lowerRom = true
	if got := m.Read(0x0000); got != 0xAB {
		t.Fatalf("Read(0x0000) = 0x%02X, want 0xAB from freshly loaded lower ROM", got)
	}
}
