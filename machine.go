package cpc

import "fmt"

// Model selects which Amstrad CPC firmware/hardware configuration to boot.
type Model uint8

const (
	Model464 Model = iota
	Model664
	Model6128
)

// Config bundles every knob NewMachine needs; CLI/flag parsing is the
// host binary's job, never the core's.
type Config struct {
	Model      Model
	CRTCType   crtcType
	PSGIsYM    bool
	Stereo     StereoMode
	TapeSound  bool
	SoundOn    bool
	SyncToVideo bool

	FirmwarePath string
	AMSDOSPath   string

	VideoSink VideoSink
	AudioSink AudioSink
}

// Machine owns every chip and wires them together exactly the way the
// master clock sequences them: one tick advances the sequencer, the gate
// array acts on the sub-states it owns, the CRTC is clocked at s=B, the
// PSG/FDC are clocked on their gated edges, and the Z80 advances on its
// own clock edge when not held in WAIT.
type Machine struct {
	cfg Config

	seq   clockSequencer
	ga    *gateArray
	crtc  *crtc
	mem   *memory
	rom   *romSet
	ppi   *ppi8255
	psg   *psg
	fdc   *fdc765
	tape  *tapeEngine
	audio *audioMixer
	z80   *Z80
	io    *ioFabric

	cpc128K bool
	cpcDisk bool
	expBit  bool

	keys [10]byte

	relay       bool
	vSyncForced bool
	tapeLevel   byte

	dataBus byte

	z80PendingCycles int

	cycles uint64
}

// NewMachine constructs a machine with every chip instantiated and wired,
// loads the model's firmware, and resets to a defined power-on state.
func NewMachine(cfg Config) (*Machine, error) {
	m := &Machine{cfg: cfg}

	for i := range m.keys {
		m.keys[i] = 0xFF
	}

	m.rom = newROMSet()
	m.crtc = newCRTC(cfg.CRTCType)
	m.ga = newGateArray(m.crtc, cfg.VideoSink)
	m.ga.attachIRQTarget(m)
	m.mem = newMemory(m.ga, m.rom)
	m.ppi = newPPI()
	m.psg = newPSG()
	m.psg.setVolumeLevels(cfg.PSGIsYM)
	m.fdc = newFDC()
	m.tape = newTapeEngine()
	m.tape.setPlaying(false)
	m.audio = newAudioMixer(m.psg, cfg.AudioSink)
	m.audio.stereo = cfg.Stereo
	m.audio.tapeSound = cfg.TapeSound
	m.io = newIOFabric(m)
	m.z80 = NewZ80(m)

	if err := m.selectModel(cfg.Model); err != nil {
		return nil, err
	}
	m.reset()
	return m, nil
}

// selectModel applies model-specific hardware feature flags and loads
// firmware/expansion ROMs, mirroring set464/set664/set6128.
func (m *Machine) selectModel(model Model) error {
	switch model {
	case Model464:
		m.cpc128K = false
		m.cpcDisk = false
		m.expBit = false
	case Model664:
		m.cpc128K = false
		m.cpcDisk = true
		m.expBit = false
		m.fdc.clockFrequency = 4.0
	case Model6128:
		m.cpc128K = true
		m.cpcDisk = true
		m.expBit = false
		m.fdc.clockFrequency = 4.0
	default:
		return fmt.Errorf("cpc: unknown model %d", model)
	}

	if m.cfg.FirmwarePath != "" {
		if err := m.rom.LoadFirmware(m.cfg.FirmwarePath); err != nil {
			return err
		}
	}
	if m.cpcDisk && m.cfg.AMSDOSPath != "" {
		if err := m.rom.LoadExpansionROM(0x07, m.cfg.AMSDOSPath); err != nil {
			return err
		}
	}
	return nil
}

// LoadROM loads a 32 KiB firmware image at runtime (e.g. to switch a
// localized ROM), without otherwise disturbing machine state.
func (m *Machine) LoadROM(path string) error {
	return m.rom.LoadFirmware(path)
}

// LoadExpansionROM loads a 16 KiB expansion ROM into the given slot.
func (m *Machine) LoadExpansionROM(slot byte, path string) error {
	return m.rom.LoadExpansionROM(slot, path)
}

// SetKeyRow sets the active-low 8-bit state of keyboard matrix row.
func (m *Machine) SetKeyRow(row int, bits byte) {
	if row >= 0 && row < len(m.keys) {
		m.keys[row] = bits
	}
}

// InsertTape attaches a pulse source and starts playback.
func (m *Machine) InsertTape(source tapeSource) {
	m.tape.insert(source)
	m.tape.setPlaying(true)
}

// reset returns every sub-component to its defined power-on state while
// preserving loaded ROM images and any inserted tape/disk media.
func (m *Machine) reset() {
	m.ga.reset()
	m.crtc.reset()
	m.mem.selectRam(0)
	m.z80.Reset()
	m.psg.reset()
	m.fdc.reset()
	m.ppi.writeControlPort(0x9B)
	m.tape.reset()
}

// SetIRQLine implements gateArrayIRQTarget: the gate array asserts the
// Z80's interrupt line directly.
func (m *Machine) SetIRQLine(assert bool) {
	if assert {
		m.z80.SetIRQLine(true)
	}
}

// Run advances the machine either through one full video frame
// (untilFrame == true, stopping when the gate array's frame-sync flag
// goes high) or through a fixed slice of 16 master-clock ticks per
// microsecond of a 50Hz frame, i.e. 16*frameTime50Hz ticks (slice mode).
func (m *Machine) Run(untilFrame bool) {
	m.cycles = 0
	m.ga.sync = false

	if untilFrame {
		for !m.ga.sync {
			m.clock()
			m.cycles++
		}
		return
	}

	const sliceTicks = 16 * frameTime50Hz
	for m.cycles < sliceTicks {
		m.clock()
		m.cycles++
	}
}

// clock advances every chip by exactly one 16 MHz master-clock tick, in
// the fixed order the hardware's shared buses impose: video fetch first
// (the Gate Array and CPU share the RAM address bus via the sequencer's
// mux), then the Gate Array's own state machine, then the gated PSG/FDC
// clocks, then the Z80 on its own clock edge. The Z80's own bus calls
// (Read/Write/In/Out) are what drive the I/O fabric and memory map --
// the Machine itself never inspects a literal MREQ/IORQ signal pair,
// since the Z80Bus contract already separates memory and I/O traffic.
func (m *Machine) clock() {
	if m.seq.muxVideo() || m.seq.blockIORQ() {
		m.dataBus = m.mem.videoFetch(m.crtc.videoAddress(), m.seq.cClkOffset())
		m.ga.d = m.dataBus
	}

	m.ga.clock(&m.seq)

	if m.seq.psgClock() {
		m.psg.clock()
	}

	if m.cpcDisk && m.seq.counter&1 == 0 {
		m.fdc.clock()
	}

	if m.seq.cpuClock() {
		m.tape.setRelay(m.relay)
		m.tape.tickSpeed()
		m.tapeLevel = m.tape.earLevel()

		saveOutput := m.ppi.portC&0x20 != 0
		m.audio.pushFilterSample(m.tapeLevel, saveOutput)

		if m.z80PendingCycles <= 1 {
			m.z80.Step()
		} else {
			m.z80PendingCycles--
		}
	}

	m.audio.tickSample()

	m.seq.advance()
}

// Read implements Z80Bus: memory reads route through the paged memory map
// with ROM overlay.
func (m *Machine) Read(addr uint16) byte {
	return m.mem.read(addr)
}

// Write implements Z80Bus: memory writes always target paged RAM, and are
// also snooped by the Gate Array/ROM-select decode that shares the lower
// address space with true I/O.
func (m *Machine) Write(addr uint16, value byte) {
	m.mem.write(addr, value)
	m.io.decodeMemRequest(addr, value, true, true)
}

// In implements Z80Bus: I/O port reads route through the I/O fabric.
func (m *Machine) In(port uint16) byte {
	return m.io.decodeIO(port, false, true)
}

// Out implements Z80Bus: I/O port writes route through the I/O fabric,
// and also feed the Gate Array/ROM-select decode (both live on IORQ-less
// and IORQ-backed writes alike on real hardware).
func (m *Machine) Out(port uint16, value byte) {
	m.dataBus = value
	m.io.decodeMemRequest(port, value, true, true)
	m.io.decodeIO(port, true, false)
}

// Tick implements Z80Bus: the decoder reports how many clock cycles its
// last step cost, and the Machine holds off the next Step() until that
// many CPU clocks have passed (z80PendingCycles in clock()).
func (m *Machine) Tick(cycles int) {
	m.z80PendingCycles = cycles
}
