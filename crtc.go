package cpc

// crtcType selects which of the historical 6845 variants the machine was
// fitted with; register masks, write directions and a handful of edge
// behaviours around VSYNC width differ across them.
type crtcType uint8

const (
	crtcUM6845  crtcType = 0
	crtcUM6845R crtcType = 1
	crtcMC6845  crtcType = 2
	crtcPreASIC crtcType = 3
	crtcASIC    crtcType = 4
)

// crtcAccess is the per-register read/write direction the real chip
// enforces: writing a read-only register or reading a write-only one is a
// silent no-op, not an error.
type crtcAccess uint8

const (
	crtcWO crtcAccess = iota
	crtcRW
	crtcRO
)

// crtc models the 6845-family CRT Controller used to generate the raster
// timing the gate array paints against. It owns no pixels itself -- only
// the counters that tell the gate array when to blank, sync and which byte
// of screen RAM to fetch next.
type crtc struct {
	typ   crtcType
	index uint8

	regs [32]uint8
	mask [32]uint8
	dirs [32]crtcAccess

	hTotal     uint16
	hDisplayed uint8
	hsPos      uint16
	vswMax     uint8
	hswMax     uint8
	vTotal     uint16
	vAdjust    uint8
	vDisplayed uint8
	vsPos      uint8
	rMax       uint8

	hCounter uint16
	rCounter uint8
	vCounter uint8

	hswCounter uint8
	vswCounter uint8

	hDisplay bool
	vDisplay bool
	hSync    bool
	vSync    bool
	hh       bool

	lineAddress uint16
	charAddress uint16
	pageAddress uint16
	byteAddress uint16

	dispEn     bool
	outOfRange bool
	status     uint8
}

func newCRTC(typ crtcType) *crtc {
	c := &crtc{typ: typ}
	c.reset()
	return c
}

// reset restores the register file and mask/direction tables to the exact
// layout the hardware variant defines, including the type-1-only quirk of
// register 31 powering on as 0xFF.
func (c *crtc) reset() {
	c.index = 0
	c.regs = [32]uint8{}
	if c.typ == crtcUM6845R {
		c.regs[31] = 0xFF
	}

	c.mask = [32]uint8{
		0xFF, 0xFF, 0xFF, 0xFF, 0x7F, 0x1F, 0x7F, 0x7F,
		0x03, 0x1F, 0x7F, 0x1F, 0x3F, 0xFF, 0x3F, 0xFF,
		0x3F, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	if c.typ == crtcUM6845R {
		c.mask[31] = 0xFF
	}

	displayAddrAccess := crtcWO
	if c.typ == crtcUM6845 || c.typ == crtcPreASIC || c.typ == crtcASIC {
		displayAddrAccess = crtcRW
	}
	c.dirs = [32]crtcAccess{
		crtcWO, crtcWO, crtcWO, crtcWO, crtcWO, crtcWO, crtcWO, crtcWO,
		crtcWO, crtcWO, crtcRW, crtcRW, displayAddrAccess, displayAddrAccess, crtcRW, crtcRW,
		crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO,
		crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO, crtcRO,
	}

	c.hTotal = 1
	c.vTotal = 1
	c.rMax = 1
}

// wrAddress latches the register index a subsequent wrRegister/rdRegister
// targets.
func (c *crtc) wrAddress(value uint8) {
	c.index = value & 0x1F
}

// wrRegister writes the currently addressed register, applying its mask
// and re-deriving whichever cached counters that register feeds.
func (c *crtc) wrRegister(value uint8) {
	i := c.index
	if c.dirs[i] == crtcWO || c.dirs[i] == crtcRW {
		c.regs[i] = value & c.mask[i]

		switch i {
		case 0:
			if c.typ == crtcUM6845 && c.regs[0] == 0x00 {
				c.regs[0] = 0x01
			}
			c.hTotal = uint16(c.regs[0]) + 1
		case 1:
			c.hDisplayed = c.regs[1]
		case 2:
			if c.typ == crtcUM6845 {
				c.hsPos = uint16(c.regs[2]) + 1
			} else {
				c.hsPos = uint16(c.regs[2])
			}
		case 3:
			c.vswMax = (c.regs[3] & 0xF0) >> 4
			c.hswMax = c.regs[3] & 0x0F
			switch c.typ {
			case crtcUM6845:
				if c.vswMax == 0 {
					c.vswMax = 0x10
				}
			case crtcUM6845R:
				c.vswMax = 0x10
			case crtcMC6845:
				c.vswMax = 0x10
				if c.hswMax == 0 {
					c.hswMax = 0x10
				}
			case crtcPreASIC, crtcASIC:
				if c.vswMax == 0 {
					c.vswMax = 0x10
				}
				if c.hswMax == 0 {
					c.hswMax = 0x10
				}
			}
		case 4:
			c.vTotal = uint16(c.regs[4]) + 1
		case 5:
			c.vAdjust = c.regs[5]
		case 6:
			c.vDisplayed = c.regs[6]
		case 7:
			c.vsPos = c.regs[7]
		case 9:
			c.rMax = c.regs[9] + 1
		}

		c.outOfRange = uint16(c.vsPos) >= c.vTotal
	}
}

// rdStatus returns the CRTC status register where the variant exposes one;
// on variants without a status register it either reads back zero or, on
// the pre-ASIC/ASIC chips, aliases rdRegister.
func (c *crtc) rdStatus() uint8 {
	switch c.typ {
	case crtcUM6845, crtcMC6845:
		return 0x00
	case crtcUM6845R:
		return c.status
	case crtcPreASIC, crtcASIC:
		if v, driven := c.rdRegister(); driven {
			return v
		}
		return 0x00
	default:
		return 0x00
	}
}

// rdRegister reads the currently addressed register. On the PreASIC/ASIC
// variants every readable index is mirrored onto registers 8-15
// ((index&7)|8). On type 1 (UM6845R) register 31 reads as 0xFF.
//
// The second return value reports whether this read actually drove the
// data bus. On UM6845/UM6845R/MC6845, reading a write-only register pulls
// the bus to 0x00. On PreASIC/ASIC, the original leaves this case
// `break`-empty -- a deliberate, documented ambiguity (spec section 9)
// preserved here as "the bus keeps whatever value was already on it",
// which the caller must honor rather than substituting a zero.
func (c *crtc) rdRegister() (value uint8, driven bool) {
	i := c.index
	if c.dirs[i] != crtcWO {
		if i == 0x1F && c.typ == crtcUM6845R {
			return 0xFF, true
		}
		if c.typ < crtcPreASIC {
			return c.regs[i], true
		}
		return c.regs[(i&0x7)|0x8], true
	}
	switch c.typ {
	case crtcUM6845, crtcUM6845R, crtcMC6845:
		return 0x00, true
	default:
		return 0, false
	}
}

// clock advances every raster counter by one character tick. This is the
// heart of the CRTC: horizontal and vertical totals, sync widths and the
// linear video address are all derived here exactly as the silicon
// sequences them, one character clock at a time.
func (c *crtc) clock() {
	c.hCounter++
	c.hh = c.hCounter > (c.hTotal >> 1)

	if c.hCounter >= c.hTotal {
		c.hCounter = 0
		c.hDisplay = true

		c.rCounter = (c.rCounter + 1) & 0x1F
		if c.rCounter >= c.rMax {
			c.rCounter = 0

			c.vCounter = (c.vCounter + 1) & 0x7F
			if (c.vCounter == uint8(c.vTotal) && c.rCounter >= c.vAdjust) || uint16(c.vCounter) > c.vTotal {
				c.vCounter = 0
				c.rCounter = 0
				c.vDisplay = true
				c.status &^= 0x20
			}

			if c.vCounter == c.vDisplayed {
				c.vDisplay = false
				c.status |= 0x20
			}

			if c.vCounter == c.vsPos {
				c.vSync = true
				c.vswCounter = 0
			}

			if c.vCounter == 0 && (c.typ == crtcUM6845R || c.rCounter == 0) {
				c.lineAddress = (uint16(c.regs[12]&0x3F) * 0x100) + uint16(c.regs[13])
			}
		}

		if c.vSync {
			if c.vswCounter == c.vswMax {
				c.vSync = false
				c.vswCounter = 0
			}
			c.vswCounter++
		}
	}

	if c.hCounter == uint16(c.hDisplayed) {
		c.hDisplay = false
		if c.rCounter == c.rMax-1 {
			c.lineAddress += c.hCounter
		}
	}

	if c.hCounter == c.hsPos {
		c.hSync = true
		c.hswCounter = 0
	}

	if c.hSync {
		if c.hswCounter == c.hswMax {
			c.hSync = false
			c.hswCounter = 0
		}
		c.hswCounter++
	}

	c.charAddress = c.lineAddress + c.hCounter
	c.pageAddress = (c.charAddress & 0x3000) << 2
	c.byteAddress = c.pageAddress | ((uint16(c.rCounter) & 7) << 11) | ((c.charAddress & 0x3FF) << 1)
	c.dispEn = c.hDisplay && c.vDisplay
}

// displayEnabled reports whether the beam is currently inside the active
// display window, the signal the gate array gates pixel output on.
func (c *crtc) displayEnabled() bool {
	return c.dispEn
}

// hsyncActive and vsyncActive expose the current sync pulses for the gate
// array's beam/interrupt bookkeeping.
func (c *crtc) hsyncActive() bool { return c.hSync }
func (c *crtc) vsyncActive() bool { return c.vSync }

// videoAddress returns the linear screen RAM address the CRTC wants
// fetched for the current character clock.
func (c *crtc) videoAddress() uint16 {
	return c.byteAddress
}
