package cpc

// gateArrayXSize/gateArrayYSize bound the raw beam-position space the gate
// array paints into before any host-side cropping to the visible CRTC
// window; they match the Gate Array's internal counters, not a visible
// screen size.
const (
	gateArrayXSize = 1024
	gateArrayYSize = 625
)

// modeTable step kinds: how paint() advances colour on each of the 8 pixel
// steps it emits per video byte.
const (
	stepLoad = 0 // last step of the byte; no shift (colour is reloaded at s=7/F)
	stepMove = 1 // shift colour left by one bit
	stepKeep = 2 // hold colour, so the current pixel repeats
)

// modeTable mirrors the gate array's per-mode shift schedule across the 8
// pixel steps of a video byte. paint() shifts colour left only on MOVE
// steps; KEEP and LOAD leave it as it is.
var modeTable = [4][8]uint8{
	{stepKeep, stepKeep, stepKeep, stepMove, stepKeep, stepKeep, stepKeep, stepLoad},
	{stepKeep, stepMove, stepKeep, stepMove, stepKeep, stepMove, stepKeep, stepLoad},
	{stepMove, stepMove, stepMove, stepMove, stepMove, stepMove, stepMove, stepLoad},
	{stepKeep, stepMove, stepKeep, stepMove, stepKeep, stepMove, stepKeep, stepLoad},
}

// pixelTable is the byte-indexed nibble lookup the gate array uses to
// unpack one video byte into the pixel value emitted at each of its two (or
// four, or eight) pixel-wide windows per mode. Frozen verbatim as the
// mechanism's authoritative source: spec leaves mode decoding at the
// interface level, the original's lookup tables are the ground truth for
// exact bit-shuffle order.
var pixelTable = [4][256]uint8{
	{
		0x0, 0x0, 0x8, 0x8, 0x0, 0x0, 0x8, 0x8, 0x2, 0x2, 0xa, 0xa, 0x2, 0x2, 0xa, 0xa,
		0x0, 0x0, 0x8, 0x8, 0x0, 0x0, 0x8, 0x8, 0x2, 0x2, 0xa, 0xa, 0x2, 0x2, 0xa, 0xa,
		0x4, 0x4, 0xc, 0xc, 0x4, 0x4, 0xc, 0xc, 0x6, 0x6, 0xe, 0xe, 0x6, 0x6, 0xe, 0xe,
		0x4, 0x4, 0xc, 0xc, 0x4, 0x4, 0xc, 0xc, 0x6, 0x6, 0xe, 0xe, 0x6, 0x6, 0xe, 0xe,
		0x0, 0x0, 0x8, 0x8, 0x0, 0x0, 0x8, 0x8, 0x2, 0x2, 0xa, 0xa, 0x2, 0x2, 0xa, 0xa,
		0x0, 0x0, 0x8, 0x8, 0x0, 0x0, 0x8, 0x8, 0x2, 0x2, 0xa, 0xa, 0x2, 0x2, 0xa, 0xa,
		0x4, 0x4, 0xc, 0xc, 0x4, 0x4, 0xc, 0xc, 0x6, 0x6, 0xe, 0xe, 0x6, 0x6, 0xe, 0xe,
		0x4, 0x4, 0xc, 0xc, 0x4, 0x4, 0xc, 0xc, 0x6, 0x6, 0xe, 0xe, 0x6, 0x6, 0xe, 0xe,
		0x1, 0x1, 0x9, 0x9, 0x1, 0x1, 0x9, 0x9, 0x3, 0x3, 0xb, 0xb, 0x3, 0x3, 0xb, 0xb,
		0x1, 0x1, 0x9, 0x9, 0x1, 0x1, 0x9, 0x9, 0x3, 0x3, 0xb, 0xb, 0x3, 0x3, 0xb, 0xb,
		0x5, 0x5, 0xd, 0xd, 0x5, 0x5, 0xd, 0xd, 0x7, 0x7, 0xf, 0xf, 0x7, 0x7, 0xf, 0xf,
		0x5, 0x5, 0xd, 0xd, 0x5, 0x5, 0xd, 0xd, 0x7, 0x7, 0xf, 0xf, 0x7, 0x7, 0xf, 0xf,
		0x1, 0x1, 0x9, 0x9, 0x1, 0x1, 0x9, 0x9, 0x3, 0x3, 0xb, 0xb, 0x3, 0x3, 0xb, 0xb,
		0x1, 0x1, 0x9, 0x9, 0x1, 0x1, 0x9, 0x9, 0x3, 0x3, 0xb, 0xb, 0x3, 0x3, 0xb, 0xb,
		0x5, 0x5, 0xd, 0xd, 0x5, 0x5, 0xd, 0xd, 0x7, 0x7, 0xf, 0xf, 0x7, 0x7, 0xf, 0xf,
		0x5, 0x5, 0xd, 0xd, 0x5, 0x5, 0xd, 0xd, 0x7, 0x7, 0xf, 0xf, 0x7, 0x7, 0xf, 0xf,
	},
	{
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
	},
	{
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1,
	},
	{
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2, 0x2,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
		0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3, 0x3,
	},
}

// palette is the CPC hardware's 32-entry ink palette (27 visible colours,
// 5 duplicates), frozen to the one documented pixel layout: 0xAABBGGRR in
// memory, i.e. a little-endian uint32 with alpha in the high byte.
var palette = [32]uint32{
	0xFF7F7F7F, 0xFF7F7F7F, 0xFF00FF7F, 0xFFFFFF7F,
	0xFF00007F, 0xFFFF007F, 0xFF007F7F, 0xFFFF7F7F,
	0xFFFF007F, 0xFFFFFF7F, 0xFF00FFFF, 0xFFFFFFFF,
	0xFF0000FF, 0xFFFF00FF, 0xFFFF7FFF, 0xFFFF7FFF,
	0xFF00007F, 0xFF00FF7F, 0xFF00FF00, 0xFF00FFFF,
	0xFF000000, 0xFF0000FF, 0xFF007F00, 0xFF007FFF,
	0xFFFF007F, 0xFFFFFF7F, 0xFFFFFF00, 0xFFFFFFFF,
	0xFFFF0000, 0xFFFF00FF, 0xFFFF7F00, 0xFFFF7FFF,
}

// VideoSink receives one decoded pixel at a time plus the HSYNC/VSYNC frame
// boundary it falls under; the host owns buffering and scan conversion, the
// gate array only ever pushes.
type VideoSink interface {
	Pixel(x, y int, argb uint32)
	FrameSync(hSync, vSync bool)
}

// gateArray is the Amstrad "Gate Array": video mode decoder, palette RAM,
// ROM/RAM paging latch, and the machine's single interrupt source.
type gateArray struct {
	crtc *crtc
	sink VideoSink

	d byte // data bus latch shared with the CPU/PSG/FDC decode in Machine

	pen    byte
	pens   [16]byte
	border byte

	newMode byte
	actMode byte

	lowerRom bool
	upperRom bool
	romBank  byte

	inksel    bool // s=7/F latch of dispen; gates ink vs border in paint()
	dispen    bool
	colour    byte
	videoByte byte
	blanking  bool

	xPos, yPos uint32
	hSyncD     bool
	vSyncD     bool
	sync       bool

	intCounter uint32
	hCounter   uint32

	ackLatched  bool // promoted from intAcknowledge's static clearInt latch
	cClkCounter uint32

	hSyncPrev bool
	vSyncPrev bool
	irqTarget gateArrayIRQTarget
}

func newGateArray(crtc *crtc, sink VideoSink) *gateArray {
	ga := &gateArray{crtc: crtc, sink: sink}
	ga.reset()
	return ga
}

func (ga *gateArray) reset() {
	ga.pen = 0
	ga.pens = [16]byte{}
	ga.border = 1
	ga.newMode = 1
	ga.actMode = 1
	ga.lowerRom = true
	ga.upperRom = true
	ga.romBank = 0
	ga.inksel = false
	ga.dispen = false
	ga.colour = 0
	ga.videoByte = 0
	ga.blanking = true
	ga.xPos, ga.yPos = 0, 0
	ga.hSyncD, ga.vSyncD, ga.sync = false, false, false
	ga.intCounter, ga.hCounter = 0, 0
	ga.ackLatched = false
	ga.cClkCounter = 0
}

// write dispatches a gate-array register write by its top two bits, per
// the CPC's documented "function code" selection.
func (ga *gateArray) write(value byte) {
	switch value & 0xC0 {
	case 0x00:
		ga.selectPen(value)
	case 0x40:
		ga.selectColour(value)
	case 0x80:
		ga.selectScreenAndRom(value)
	}
}

func (ga *gateArray) selectPen(value byte) {
	ga.pen = value & 0x1F
}

func (ga *gateArray) selectColour(value byte) {
	colour := value & 0x1F
	if ga.pen&0x10 != 0 {
		ga.border = colour
	} else {
		ga.pens[ga.pen&0x0F] = colour
	}
}

func (ga *gateArray) selectScreenAndRom(value byte) {
	ga.newMode = value & 0x03
	ga.lowerRom = value&0x04 == 0
	ga.upperRom = value&0x08 == 0
	if value&0x10 != 0 {
		ga.intAcknowledge()
	}
}

// intAcknowledge clears the pending interrupt counter and latches the
// request so it only fires once per invocation, matching the edge-triggered
// static guard the original keeps.
func (ga *gateArray) intAcknowledge() {
	if !ga.ackLatched {
		ga.intCounter &= 0x1F
		ga.ackLatched = true
	}
}

func (ga *gateArray) updateVideoMode() {
	if ga.cClkCounter < 8 {
		ga.cClkCounter++
	}
	if ga.cClkCounter >= 8 {
		ga.actMode = ga.newMode
	}
}

func (ga *gateArray) updateBeam() {
	ga.blanking = ga.hSyncD || ga.vSyncD

	if ga.hSyncD && ga.hCounter >= 16 {
		ga.yPos++
		if ga.yPos >= gateArrayYSize/2 {
			ga.yPos = 0
			ga.sync = true
		}
	}
	if ga.xPos >= gateArrayXSize || (ga.hSyncD && ga.xPos > 720) {
		ga.xPos = 0
	} else {
		ga.xPos++
	}
	if ga.vSyncD && ga.yPos > 256 {
		ga.yPos = 0
	}
}

func (ga *gateArray) generateInterrupts() {
	hSyncFalling := !ga.hSyncD && ga.hSyncPrev
	if hSyncFalling {
		ga.intCounter++
		if ga.intCounter >= 52 {
			ga.intCounter = 0
			ga.ackLatched = false
			if ga.irqTarget != nil {
				ga.irqTarget.SetIRQLine(true)
			}
		}
	}
	if ga.hCounter < 28 {
		ga.hCounter++
	}
	if ga.vSyncD && !ga.vSyncPrev {
		ga.hCounter = 0
	}
	ga.hSyncPrev = ga.hSyncD
	ga.vSyncPrev = ga.vSyncD
}

// gateArrayIRQTarget is the CPU side of the interrupt line; hSyncPrev,
// vSyncPrev and irqTarget back the edge detection and delivery that
// generateInterrupts needs, kept as plain fields rather than function
// statics so they're part of machine state, not hidden closures.
type gateArrayIRQTarget interface {
	SetIRQLine(assert bool)
}

func (ga *gateArray) attachIRQTarget(t gateArrayIRQTarget) {
	ga.irqTarget = t
}

// clock steps the gate array through one 16MHz tick, dispatching to the
// exact sub-actions the 16-state sequence performs at each state, mirroring
// the original's documented switch over s.
func (ga *gateArray) clock(seq *clockSequencer) {
	switch seq.counter {
	case 0x0, 0x4, 0x8, 0xE:
		ga.intAcknowledge()
	case 0x2, 0xA:
		ga.paint()
		ga.intAcknowledge()
	case 0xC:
		ga.intAcknowledge()
	case 0x6:
		ga.intAcknowledge()
		ga.dispen = ga.crtc.displayEnabled()
		ga.videoByte = ga.d
	case 0x7, 0xF:
		ga.inksel = ga.dispen
		ga.colour = ga.videoByte
	case 0xB:
		ga.dispen = ga.crtc.displayEnabled()
		ga.videoByte = ga.d
		ga.crtc.clock()
		ga.hSyncD = ga.crtc.hsyncActive()
		ga.vSyncD = ga.crtc.vsyncActive()
		ga.updateBeam()
		ga.updateVideoMode()
		ga.generateInterrupts()
		if ga.sink != nil {
			ga.sink.FrameSync(ga.hSyncD, ga.vSyncD)
		}
	}
}

// paint emits the 8 pixels encoded by one video byte, advancing colour
// through pixelTable/modeTable exactly as the original shift register does:
// only MOVE steps shift; KEEP steps repeat the current pixel, and the final
// LOAD step does not shift since colour is reloaded from videoByte by the
// s=7/F latch rather than inline here. inksel (also latched at s=7/F from dispen) gates ink pixels
// versus the raw border colour, exactly as the original's paint selects
// `colours[inksel ? index : border]`.
func (ga *gateArray) paint() {
	if ga.blanking {
		return
	}
	x := int(ga.xPos)
	y := int(ga.yPos)
	for step := 0; step < 8; step++ {
		if !ga.inksel {
			ga.emit(x+step, y, ga.border)
			continue
		}
		nibble := pixelTable[ga.actMode][ga.colour]
		ga.emit(x+step, y, ga.pens[nibble&0x0F])
		if modeTable[ga.actMode][step] == stepMove {
			ga.colour = (ga.colour << 1) & 0xFF
		}
	}
}

func (ga *gateArray) emit(x, y int, penIndex byte) {
	if ga.sink == nil {
		return
	}
	ga.sink.Pixel(x, y, palette[penIndex&0x1F])
}
