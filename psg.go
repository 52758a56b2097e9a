package cpc

// psgRegCount is the number of addressable AY-3-8910/YM2149 registers;
// registers 14/15 (I/O port A/B) exist on the real chip. The CPC wires
// port A to the keyboard matrix through setPortA, so a read of register 14
// returns portA rather than the register file; register 15 is carried only
// for address-space completeness.
const psgRegCount = 16

// psgVolumeTable is the AY's logarithmic 16-step volume table, the
// standard measured curve every AY/YM software mixer reproduces.
var psgVolumeTable = [16]int32{
	0, 1, 2, 3, 5, 7, 11, 15,
	22, 31, 45, 64, 90, 127, 180, 255,
}

// psg models the register file, tone/noise/envelope generators and mixer
// of the AY-3-8910-compatible PSG, clocked at 1 MHz from the clock
// sequencer's psgClock() edge and sampled at the audio mixer's rate.
type psg struct {
	regs   [psgRegCount]byte
	latch  byte // currently addressed register
	portA  byte // keyboard row data, routed in by the I/O fabric

	toneCounter [3]uint16
	toneOutput  [3]bool

	noiseCounter uint16
	noiseShift   uint32
	noiseOutput  bool

	envCounter uint16
	envStep    uint8
	envRising  bool

	channelA, channelB, channelC int32

	ym bool // YM2149 selected; stored only, no generator reads it
}

func newPSG() *psg {
	p := &psg{}
	p.reset()
	return p
}

func (p *psg) reset() {
	p.regs = [psgRegCount]byte{}
	p.latch = 0
	p.toneCounter = [3]uint16{}
	p.toneOutput = [3]bool{}
	p.noiseCounter = 0
	p.noiseShift = 0xFFFF
	p.noiseOutput = false
	p.envCounter = 0
	p.envStep = 0
	p.envRising = false
	p.channelA, p.channelB, p.channelC = 0, 0, 0
}

// setVolumeLevels records whether the PSG is a YM2149 rather than an AY.
// The flag is only stored: envelope shapes, attack direction and the
// volume table are the same for both chips.
func (p *psg) setVolumeLevels(ymChip bool) {
	p.ym = ymChip
}

// addr latches the register index a subsequent read/write targets, mirror
// of the CPC's BC1/BDIR "latch address" PSG function.
func (p *psg) addr(value byte) {
	if value&0x0F == value {
		p.latch = value & 0x0F
	} else {
		p.latch = value % psgRegCount
	}
}

// read returns the latched register's value, mirror of the "read data"
// PSG function driven onto the PPI port A bus. Register 14 reads the
// keyboard row fed in through setPortA.
func (p *psg) read() byte {
	if p.latch == 14 {
		return p.portA
	}
	return p.regs[p.latch]
}

// write stores to the latched register, mirror of the "write data" PSG
// function, and resets the envelope generator when the shape register is
// touched, as real AY chips do.
func (p *psg) write(value byte) {
	p.regs[p.latch] = value
	if p.latch == 13 {
		p.envCounter = 0
		p.envStep = 0
		p.envRising = p.regs[13]&0x04 != 0
	}
}

// setPortA feeds the keyboard row selected by the PPI's Port C low nibble
// onto the PSG's I/O port A, the path the CPC reads the keyboard through.
func (p *psg) setPortA(row byte) {
	p.portA = row
}

func tonePeriod(regs [psgRegCount]byte, channel int) uint16 {
	fine := uint16(regs[channel*2])
	coarse := uint16(regs[channel*2+1]) & 0x0F
	period := (coarse << 8) | fine
	if period == 0 {
		period = 1
	}
	return period
}

func noisePeriod(regs [psgRegCount]byte) uint16 {
	period := uint16(regs[6]) & 0x1F
	if period == 0 {
		period = 1
	}
	return period
}

func envPeriod(regs [psgRegCount]byte) uint16 {
	period := (uint16(regs[12]) << 8) | uint16(regs[11])
	if period == 0 {
		period = 1
	}
	return period
}

// clock advances the tone, noise and envelope generators by one PSG clock
// tick (1 MHz, gated by the clock sequencer's psgClock()).
func (p *psg) clock() {
	for ch := 0; ch < 3; ch++ {
		p.toneCounter[ch]++
		if p.toneCounter[ch] >= tonePeriod(p.regs, ch) {
			p.toneCounter[ch] = 0
			p.toneOutput[ch] = !p.toneOutput[ch]
		}
	}

	p.noiseCounter++
	if p.noiseCounter >= noisePeriod(p.regs) {
		p.noiseCounter = 0
		bit := (p.noiseShift ^ (p.noiseShift >> 3)) & 1
		p.noiseShift = (p.noiseShift >> 1) | (bit << 16)
		p.noiseOutput = p.noiseShift&1 != 0
	}

	if !p.envHolding() {
		p.envCounter++
		if p.envCounter >= envPeriod(p.regs) {
			p.envCounter = 0
			p.envStep++
			if p.envStep >= 32 {
				p.envStep = 0
			}
		}
	}
}

// envHolding reports whether the envelope has reached a terminal hold
// state for the currently selected shape (regs[13] bits 0-3).
func (p *psg) envHolding() bool {
	shape := p.regs[13] & 0x0F
	continueBit := shape&0x08 != 0
	holdBit := shape&0x01 != 0
	if !continueBit {
		return p.envStep >= 16
	}
	return holdBit && p.envStep >= 16
}

// envLevel derives the current 0-15 envelope volume from its 32-step
// sawtooth position and the programmed shape bits.
func (p *psg) envLevel() uint8 {
	shape := p.regs[13] & 0x0F
	step := p.envStep
	if step >= 16 {
		step = 16 + (step % 16)
	}
	attack := shape&0x04 != 0
	alternate := shape&0x02 != 0
	continueBit := shape&0x08 != 0

	pos := step % 16
	cycle := step / 16
	rising := attack
	if continueBit && alternate && cycle%2 == 1 {
		rising = !rising
	}
	if !continueBit && cycle > 0 {
		if shape&0x01 != 0 {
			if attack {
				return 15
			}
			return 0
		}
	}
	if rising {
		return uint8(pos)
	}
	return uint8(15 - pos)
}

// mixerLevel computes the 0-15 level for channel ch (0=A,1=B,2=C) after
// the mixer register's tone/noise enable bits and the channel's
// amplitude/envelope-select bit.
func (p *psg) mixerLevel(ch int) int32 {
	mixer := p.regs[7]
	toneDisabled := mixer&(1<<uint(ch)) != 0
	noiseDisabled := mixer&(1<<uint(ch+3)) != 0

	toneBit := !toneDisabled && p.toneOutput[ch]
	noiseBit := !noiseDisabled && p.noiseOutput
	active := toneBit || noiseBit || (toneDisabled && noiseDisabled)
	if !active {
		return 0
	}

	amp := p.regs[8+ch]
	if amp&0x10 != 0 {
		return psgVolumeTable[p.envLevel()&0x0F]
	}
	return psgVolumeTable[amp&0x0F]
}

// sample latches the current per-channel output levels for the audio
// mixer to read via channelA/channelB/channelC.
func (p *psg) sample() {
	p.channelA = p.mixerLevel(0)
	p.channelB = p.mixerLevel(1)
	p.channelC = p.mixerLevel(2)
}
